package gdocai

import (
	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrlayout/pkg/layout"
)

// PageInputs converts a Document AI response into layout payloads, one per page
// Tokens become words in pixel coordinates and every detected table becomes a
// geometry region so the layout engine can take the geometry-assisted path.
func PageInputs(doc *documentaipb.Document) []layout.PageInput {
	if doc == nil {
		return nil
	}

	text := newTextIndex(doc.Text)
	inputs := make([]layout.PageInput, 0, len(doc.Pages))
	for i, page := range doc.Pages {
		number := int(page.PageNumber)
		if number == 0 {
			number = i + 1
		}
		inputs = append(inputs, pageInput(page, text, number))
	}
	return inputs
}

// pageInput converts one Document AI page
func pageInput(page *documentaipb.Document_Page, text textIndex, number int) layout.PageInput {
	in := layout.PageInput{
		PageNumber: number,
		Words:      []layout.PayloadWord{},
	}
	if dim := page.GetDimension(); dim != nil {
		in.Width = float64(dim.Width)
		in.Height = float64(dim.Height)
	}

	for _, token := range page.Tokens {
		value := text.text(token.Layout)
		if value == "" {
			continue
		}

		word := layout.PayloadWord{Text: value}
		if points := polygon(token.Layout, page.Dimension); len(points) >= 4 {
			word.Location = location(points)
		}
		if token.Layout != nil {
			p := layout.Probability(token.Layout.Confidence)
			word.Probability = &p
		}
		in.Words = append(in.Words, word)
	}

	for _, table := range page.Tables {
		in.Tables = append(in.Tables, payloadTable(table, page.Dimension, text))
	}
	return in
}

// payloadTable flattens header and body rows into one grid
// Row and column indexes are resolved with an occupancy grid so cells that
// span rows push later cells of the rows below to the right.
func payloadTable(table *documentaipb.Document_Page_Table, dim *documentaipb.Document_Page_Dimension, text textIndex) layout.PayloadTable {
	out := layout.PayloadTable{
		TableBounds: polygon(table.Layout, dim),
		Cells:       []layout.PayloadCell{},
		HeaderRows:  len(table.HeaderRows),
	}

	rows := make([]*documentaipb.Document_Page_Table_TableRow, 0, len(table.HeaderRows)+len(table.BodyRows))
	rows = append(rows, table.HeaderRows...)
	rows = append(rows, table.BodyRows...)

	occupied := make(map[[2]int]bool)
	for r, row := range rows {
		col := 0
		for _, cell := range row.Cells {
			for occupied[[2]int{r, col}] {
				col++
			}

			rowSpan := max(1, int(cell.RowSpan))
			colSpan := max(1, int(cell.ColSpan))
			for dr := 0; dr < rowSpan; dr++ {
				for dc := 0; dc < colSpan; dc++ {
					occupied[[2]int{r + dr, col + dc}] = true
				}
			}

			out.Cells = append(out.Cells, layout.PayloadCell{
				RowStart:     r,
				RowEnd:       r + rowSpan - 1,
				ColStart:     col,
				ColEnd:       col + colSpan - 1,
				CellLocation: polygon(cell.Layout, dim),
				Words:        text.text(cell.Layout),
			})
			col += colSpan
		}
	}
	return out
}

// polygon returns a layout's corner points in page pixels
// Normalized vertices are scaled by the page dimension; absolute vertices are
// used as reported.
func polygon(l *documentaipb.Document_Page_Layout, dim *documentaipb.Document_Page_Dimension) []layout.Point {
	if l == nil || l.BoundingPoly == nil {
		return nil
	}
	poly := l.BoundingPoly

	if len(poly.NormalizedVertices) > 0 && dim != nil {
		points := make([]layout.Point, 0, len(poly.NormalizedVertices))
		for _, v := range poly.NormalizedVertices {
			points = append(points, layout.Point{
				X: float64(v.X) * float64(dim.Width),
				Y: float64(v.Y) * float64(dim.Height),
			})
		}
		return points
	}

	points := make([]layout.Point, 0, len(poly.Vertices))
	for _, v := range poly.Vertices {
		points = append(points, layout.Point{X: float64(v.X), Y: float64(v.Y)})
	}
	return points
}

// location converts corner points into a provider rectangle
func location(points []layout.Point) *layout.Location {
	x0, y0 := points[0].X, points[0].Y
	x1, y1 := x0, y0
	for _, p := range points[1:] {
		x0, y0 = min(x0, p.X), min(y0, p.Y)
		x1, y1 = max(x1, p.X), max(y1, p.Y)
	}
	return &layout.Location{Left: x0, Top: y0, Width: x1 - x0, Height: y1 - y0}
}
