package layout

import (
	"math/rand"
	"strings"
)

// pw builds a payload word from box corners
func pw(text string, x0, y0, x1, y1 float64) PayloadWord {
	p := Probability(0.9)
	return PayloadWord{
		Text:        text,
		Location:    &Location{Left: x0, Top: y0, Width: x1 - x0, Height: y1 - y0},
		Probability: &p,
	}
}

// phrase lays out words left to right, 10 units per rune with 10 units of spacing
func phrase(text string, x, y0, y1 float64) []PayloadWord {
	var out []PayloadWord
	for _, f := range strings.Fields(text) {
		w := float64(10 * len([]rune(f)))
		out = append(out, pw(f, x, y0, x+w, y1))
		x += w + 10
	}
	return out
}

// rect returns the four corners of a box
func rect(x0, y0, x1, y1 float64) []Point {
	return []Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

// cell declares a single-span payload cell
func cell(row, col int, x0, y0, x1, y1 float64) PayloadCell {
	return PayloadCell{RowStart: row, RowEnd: row, ColStart: col, ColEnd: col, CellLocation: rect(x0, y0, x1, y1)}
}

// twoByTwo is the 2x2 grid used by the geometry scenarios
func twoByTwo() PayloadTable {
	return PayloadTable{
		TableBounds: rect(0, 0, 200, 80),
		Cells: []PayloadCell{
			cell(0, 0, 0, 0, 100, 40),
			cell(0, 1, 100, 0, 200, 40),
			cell(1, 0, 0, 40, 100, 80),
			cell(1, 1, 100, 40, 200, 80),
		},
	}
}

// reportPage is a page with a heading, a body line, an aligned table and a closing line
func reportPage() PageInput {
	var words []PayloadWord
	words = append(words, pw("Quarterly", 150, 0, 240, 40), pw("Report", 250, 0, 310, 40))
	words = append(words, phrase("This is the body text", 0, 100, 120)...)
	words = append(words, pw("Item", 0, 170, 40, 190), pw("Qty", 200, 170, 230, 190), pw("Price", 400, 170, 450, 190))
	words = append(words, pw("Apple", 0, 200, 50, 220), pw("3", 200, 200, 210, 220), pw("1.20", 400, 200, 440, 220))
	words = append(words, pw("Pear", 0, 230, 40, 250), pw("5", 200, 230, 210, 250), pw("0.80", 400, 230, 440, 250))
	words = append(words, phrase("End of report", 0, 310, 330)...)
	return PageInput{PageNumber: 1, Width: 600, Height: 800, Words: words}
}

// shuffled returns a copy of the page with its words permuted
func shuffled(in PageInput, seed int64) PageInput {
	out := in
	out.Words = make([]PayloadWord, len(in.Words))
	copy(out.Words, in.Words)
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(out.Words), func(i, j int) {
		out.Words[i], out.Words[j] = out.Words[j], out.Words[i]
	})
	return out
}

func lineTexts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func scenarioAConfig() Config {
	cfg := DefaultConfig()
	cfg.LineTolerance = 5
	return cfg
}
