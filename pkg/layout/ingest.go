package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// PageInput is the recognition payload for one page
// It is the only type that knows the provider field names
type PageInput struct {
	PageNumber int            `json:"page"`
	Width      float64        `json:"width,omitempty"`
	Height     float64        `json:"height,omitempty"`
	Words      []PayloadWord  `json:"words"`
	Tables     []PayloadTable `json:"tables,omitempty"`
}

// PayloadWord is one recognized item as reported by a provider
type PayloadWord struct {
	Text        string       `json:"text"`
	Location    *Location    `json:"location,omitempty"`
	Probability *Probability `json:"probability,omitempty"`
}

// Location is a provider rectangle given by its top-left corner and size
type Location struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Probability is a recognition probability in [0, 1]
// It decodes from a bare number or from an object carrying an "average" field
type Probability float64

// UnmarshalJSON accepts 0.93 as well as {"average":0.93,"min":0.71,"variance":0.01}
func (p *Probability) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Average float64 `json:"average"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("failed to decode probability object: %w", err)
		}
		*p = Probability(obj.Average)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("failed to decode probability: %w", err)
	}
	*p = Probability(v)
	return nil
}

// Point is one corner of a provider polygon
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PayloadTable is one table region reported by a table-recognition pass
type PayloadTable struct {
	TableBounds []Point         `json:"table_bounds,omitempty"`
	Cells       []PayloadCell   `json:"cells"`
	Header      []PayloadHeader `json:"header,omitempty"`
	HeaderRows  int             `json:"header_rows,omitempty"`
}

// PayloadCell is one table cell with inclusive row/column extents
type PayloadCell struct {
	RowStart     int     `json:"row_start"`
	RowEnd       int     `json:"row_end"`
	ColStart     int     `json:"col_start"`
	ColEnd       int     `json:"col_end"`
	CellLocation []Point `json:"cell_location"`
	Words        string  `json:"words,omitempty"`
}

// PayloadHeader is a declared header entry, providers use either key
type PayloadHeader struct {
	Words string `json:"words,omitempty"`
	Text  string `json:"text,omitempty"`
}

// IngestWords converts provider items into canonical words
// Items without a location keep an all-zero box
func IngestWords(items []PayloadWord) []Word {
	words := make([]Word, 0, len(items))
	for _, item := range items {
		word := Word{Text: item.Text}

		if loc := item.Location; loc != nil {
			word.BBox = BBox{
				X0: loc.Left,
				Y0: loc.Top,
				X1: loc.Left + loc.Width,
				Y1: loc.Top + loc.Height,
			}
		}

		if item.Probability != nil {
			word.Confidence = clamp(float64(*item.Probability)*100, 0, 100)
		}

		words = append(words, word)
	}
	return words
}

// IngestTables converts provider table regions into table geometry
// A region whose cells can not be resolved is still returned, carrying the
// error so the table strategy can skip and report it
func IngestTables(tables []PayloadTable) []TableGeometry {
	geoms := make([]TableGeometry, 0, len(tables))
	for _, table := range tables {
		geom := TableGeometry{HeaderRows: table.HeaderRows}

		if bounds, ok := boundsFromPoints(table.TableBounds); ok {
			geom.Bounds = bounds
		}

		for _, h := range table.Header {
			text := h.Words
			if text == "" {
				text = h.Text
			}
			geom.Header = append(geom.Header, text)
		}

		for i, cell := range table.Cells {
			bounds, ok := boundsFromPoints(cell.CellLocation)
			if !ok {
				geom.err = fmt.Errorf("cell %d has %d corner points, need at least 4", i, len(cell.CellLocation))
				break
			}
			geom.Cells = append(geom.Cells, TableCellGeometry{
				Row:     cell.RowStart,
				Col:     cell.ColStart,
				RowSpan: cell.RowEnd - cell.RowStart + 1,
				ColSpan: cell.ColEnd - cell.ColStart + 1,
				Bounds:  bounds,
				Text:    cell.Words,
			})
		}

		geoms = append(geoms, geom)
	}
	return geoms
}

// boundsFromPoints returns the union of a polygon's corner points
func boundsFromPoints(points []Point) (BBox, bool) {
	if len(points) < 4 {
		return BBox{}, false
	}
	b := BBox{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}
	for _, p := range points {
		b.X0 = math.Min(b.X0, p.X)
		b.Y0 = math.Min(b.Y0, p.Y)
		b.X1 = math.Max(b.X1, p.X)
		b.Y1 = math.Max(b.Y1, p.Y)
	}
	return b, true
}
