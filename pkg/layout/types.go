package layout

import "math"

// BBox is an axis-aligned bounding box in page coordinates
// X0, Y0 is the top-left corner and X1, Y1 the bottom-right corner
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal extent of the box
func (b BBox) Width() float64 { return b.X1 - b.X0 }

// Height returns the vertical extent of the box
func (b BBox) Height() float64 { return b.Y1 - b.Y0 }

// CenterX returns the horizontal center of the box
func (b BBox) CenterX() float64 { return (b.X0 + b.X1) / 2 }

// CenterY returns the vertical center of the box
func (b BBox) CenterY() float64 { return (b.Y0 + b.Y1) / 2 }

// IsZero reports whether all four coordinates are zero
func (b BBox) IsZero() bool { return b == BBox{} }

// Contains reports whether the point lies inside the box, edges included
func (b BBox) Contains(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Union returns the smallest box covering both boxes
func (b BBox) Union(o BBox) BBox {
	return BBox{
		X0: math.Min(b.X0, o.X0),
		Y0: math.Min(b.Y0, o.Y0),
		X1: math.Max(b.X1, o.X1),
		Y1: math.Max(b.Y1, o.Y1),
	}
}

// Word is a single recognized text fragment
// Words are created by IngestWords and never modified afterwards
type Word struct {
	Text       string  `json:"text"`
	BBox       BBox    `json:"bbox"`
	Confidence float64 `json:"confidence"` // 0-100
}

// Line is a cluster of words judged to share a visual text line
type Line struct {
	Text             string  `json:"text"`
	Words            []Word  `json:"words"`         // ordered left to right
	WordIndexes      []int   `json:"word_indexes"`  // positions in the page word slice
	BBox             BBox    `json:"bbox"`          // union of the word boxes
	FontSizeEstimate float64 `json:"font_estimate"` // mean word height
}

// TableCellGeometry is one cell declared by a table-recognition pass
type TableCellGeometry struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	RowSpan int    `json:"row_span"`
	ColSpan int    `json:"col_span"`
	Bounds  BBox   `json:"bounds"`
	Text    string `json:"text,omitempty"` // provider text, informational only
}

// TableGeometry is one table region declared by a table-recognition pass
type TableGeometry struct {
	Bounds     BBox                `json:"bounds"`
	Cells      []TableCellGeometry `json:"cells"`
	Header     []string            `json:"header,omitempty"`
	HeaderRows int                 `json:"header_rows,omitempty"`

	// err is set during ingest when the declared extents can not be resolved
	err error
}

// TableCell is a reconstructed cell
type TableCell struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Text string `json:"text"`
}

// Table is a reconstructed table
type Table struct {
	Headers  []string   `json:"headers,omitempty"`
	Rows     [][]string `json:"rows"`
	BBox     BBox       `json:"bbox"`
	Strategy string     `json:"strategy"`
}

// Columns returns the column count shared by every row
func (t *Table) Columns() int {
	if len(t.Headers) > 0 {
		return len(t.Headers)
	}
	if len(t.Rows) > 0 {
		return len(t.Rows[0])
	}
	return 0
}

// Cells flattens the table into row/column addressed cells
// Header cells are reported as row 0 when present
func (t *Table) Cells() []TableCell {
	var cells []TableCell
	offset := 0
	if len(t.Headers) > 0 {
		for c, text := range t.Headers {
			cells = append(cells, TableCell{Row: 0, Col: c, Text: text})
		}
		offset = 1
	}
	for r, row := range t.Rows {
		for c, text := range row {
			cells = append(cells, TableCell{Row: r + offset, Col: c, Text: text})
		}
	}
	return cells
}

// Alignment is the horizontal alignment of a paragraph block
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// BlockType tags the variant held by a Block
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockTable     BlockType = "table"
)

// ParagraphBlock is one styled line of free text
// Consecutive blocks sharing the same Paragraph ordinal form one paragraph
type ParagraphBlock struct {
	Text         string    `json:"text"`
	Indent       int       `json:"indent"` // points
	Alignment    Alignment `json:"alignment"`
	FontSize     int       `json:"font_size"`     // half-points
	SpacingAfter int       `json:"spacing_after"` // points
	Bold         bool      `json:"bold"`
	Italic       bool      `json:"italic"`
	Heading      bool      `json:"heading"`
	Paragraph    int       `json:"paragraph"`
	BBox         BBox      `json:"bbox"`
}

// Block is the render-agnostic output unit: either a paragraph line or a table
type Block struct {
	Type      BlockType       `json:"type"`
	Paragraph *ParagraphBlock `json:"paragraph,omitempty"`
	Table     *Table          `json:"table,omitempty"`
}

// top returns the vertical anchor used to order blocks
func (b Block) top() float64 {
	switch b.Type {
	case BlockTable:
		return b.Table.BBox.Y0
	default:
		return b.Paragraph.BBox.Y0
	}
}

// Stats summarizes a reconstructed page for statistics views
type Stats struct {
	Words              int     `json:"words"`
	Lines              int     `json:"lines"`
	Paragraphs         int     `json:"paragraphs"`
	Tables             int     `json:"tables"`
	TableCells         int     `json:"table_cells"`
	ExcludedLines      int     `json:"excluded_lines"`
	MeanConfidence     float64 `json:"mean_confidence"`
	LowConfidenceWords int     `json:"low_confidence_words"`
}

// PageResult holds everything reconstructed for one page
type PageResult struct {
	PageNumber      int     `json:"page"`
	Width           float64 `json:"width,omitempty"`
	Height          float64 `json:"height,omitempty"`
	Words           []Word  `json:"words,omitempty"`
	Lines           []Line  `json:"lines,omitempty"`
	ParagraphStarts []bool  `json:"paragraph_starts,omitempty"`
	Excluded        []bool  `json:"excluded,omitempty"`
	Tables          []Table `json:"tables,omitempty"`
	Blocks          []Block `json:"blocks"`
	PlainText       string  `json:"plain_text"`
	Stats           Stats   `json:"stats"`
	Cancelled       bool    `json:"cancelled,omitempty"`
}
