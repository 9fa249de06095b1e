// Package hocr implements parsing and generation of hOCR data, the
// HTML-based format most OCR engines can emit.
//
// hOCR is both an input and an output of the layout engine: any engine that
// writes hOCR (Tesseract, OCRopus, Kraken) can feed word boxes into the
// pipeline through PageInputs, and reconstructed pages can be written back as
// hOCR with FromResults for downstream tools that expect it.
//
// Key Types:
//
// - HOCR: Top-level structure representing an entire hOCR document
// - Page: Represents a single page with class 'ocr_page'
// - Area: Represents a content area with class 'ocr_carea'
// - Paragraph: Represents a paragraph with class 'ocr_par'
// - Line: Represents a line of text with class 'ocr_line'
// - Word: Represents a single word with class 'ocrx_word'
// - Table: Represents a reconstructed table with class 'ocr_table'
//
// Main Functions:
//
// - ParseHOCR: Parses hOCR data from HTML into the object model
// - PageInputs: Converts parsed pages into layout payloads
// - FromResults: Converts reconstructed pages into the object model
// - GenerateHOCRDocument: Generates valid hOCR HTML from the object model
package hocr
