package hocr

import "github.com/gardar/ocrlayout/pkg/layout"

// HOCR is a whole hOCR document
type HOCR struct {
	Title       string
	Description string
	Language    string
	Metadata    map[string]string // ocr-system, ocr-capabilities, ocr-number-of-pages, ocr-langs
	Pages       []Page
}

// Page is one page of recognized text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID         string
	Title      string // Original title attribute
	PageNumber int    // ppageno, 1-based once normalized
	ImageName  string
	Lang       string
	BBox       BoundingBox
	Areas      []Area
	Paragraphs []Paragraph // Paragraphs outside any area
	Lines      []Line      // Lines outside any area or paragraph
	Tables     []Table
	Metadata   map[string]string
}

// Class returns 'ocr_page'
func (Page) Class() string { return "ocr_page" }

// Area is a content area such as a column
// Corresponds to hOCR element with class: 'ocr_carea'
type Area struct {
	ID         string
	Lang       string
	BBox       BoundingBox
	Paragraphs []Paragraph
	Lines      []Line
	Words      []Word // Words without a parent line
	Metadata   map[string]string
}

// Class returns 'ocr_carea'
func (Area) Class() string { return "ocr_carea" }

// Paragraph corresponds to hOCR element with class: 'ocr_par'
type Paragraph struct {
	ID       string
	Lang     string
	BBox     BoundingBox
	Lines    []Line
	Words    []Word // Words without a parent line
	Metadata map[string]string
}

// Class returns 'ocr_par'
func (Paragraph) Class() string { return "ocr_par" }

// Line corresponds to hOCR element with class: 'ocr_line'
type Line struct {
	ID       string
	Lang     string
	BBox     BoundingBox
	Baseline string
	FontSize float64 // x_fsize in points, zero when unknown
	Words    []Word
	Metadata map[string]string
}

// Class returns 'ocr_line'
func (Line) Class() string { return "ocr_line" }

// Word is a recognized word with bounding box
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string
	Text       string
	BBox       BoundingBox
	Confidence float64 // x_wconf, 0-100
	Lang       string
	Metadata   map[string]string
}

// Class returns 'ocrx_word'
func (Word) Class() string { return "ocrx_word" }

// Table is a reconstructed table region carrying cell text only
// Corresponds to hOCR float with class: 'ocr_table'
type Table struct {
	ID      string
	BBox    BoundingBox
	Headers []string
	Rows    [][]string
}

// Class returns 'ocr_table'
func (Table) Class() string { return "ocr_table" }

// BoundingBox is an hOCR 'bbox' property: top-left and bottom-right corners
type BoundingBox struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// NewBoundingBox creates a bounding box from the x1, y1, x2, y2 values of a
// 'bbox' property
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// fromLayout converts a layout box
func fromLayout(b layout.BBox) BoundingBox {
	return BoundingBox{X1: b.X0, Y1: b.Y0, X2: b.X1, Y2: b.Y1}
}

// IsZero reports whether all coordinates are zero
func (b BoundingBox) IsZero() bool {
	return b == BoundingBox{}
}

// union returns the smallest box containing both; a zero box is treated as empty
func (b BoundingBox) union(o BoundingBox) BoundingBox {
	if b.IsZero() {
		return o
	}
	if o.IsZero() {
		return b
	}
	return BoundingBox{
		X1: min(b.X1, o.X1),
		Y1: min(b.Y1, o.Y1),
		X2: max(b.X2, o.X2),
		Y2: max(b.Y2, o.Y2),
	}
}
