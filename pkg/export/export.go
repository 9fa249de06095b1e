// Package export renders reconstructed pages into document formats.
//
// RenderPDF produces a flowing PDF with the core Helvetica font, and
// RenderHTML a standalone HTML page. Both consume layout.PageResult blocks
// only, so any recognizer feeding the layout engine can be exported.
package export
