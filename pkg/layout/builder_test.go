package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(x0, y0, x1, y1 float64) Line {
	return Line{BBox: BBox{X0: x0, Y0: y0, X1: x1, Y1: y1}}
}

func TestStyler_FontSize(t *testing.T) {
	st := newStyler(nil, DefaultConfig())

	tests := []struct {
		height float64
		want   int
	}{
		{20, 23},
		{40, 46},
		{5, 18},
		{100, 48},
		{0, 18},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, st.fontSize(box(0, 0, 10, tt.height)), "height %.0f", tt.height)
	}
}

func TestStyler_Alignment(t *testing.T) {
	lines := []Line{
		box(0, 0, 400, 20),
		box(150, 30, 250, 50),
		box(300, 60, 400, 80),
		box(40, 90, 200, 110),
		box(10, 120, 395, 140),
	}
	st := newStyler(lines, DefaultConfig())

	assert.Equal(t, AlignLeft, st.alignment(lines[0]))
	assert.Equal(t, AlignCenter, st.alignment(lines[1]))
	assert.Equal(t, AlignRight, st.alignment(lines[2]))
	assert.Equal(t, AlignLeft, st.alignment(lines[3]))
	assert.Equal(t, AlignLeft, st.alignment(lines[4]), "near full-width lines are left aligned")
}

func TestStyler_Indent(t *testing.T) {
	lines := []Line{box(20, 0, 400, 20), box(60, 30, 400, 50)}
	st := newStyler(lines, DefaultConfig())

	assert.Equal(t, 0, st.indent(lines[0]))
	assert.Equal(t, 30, st.indent(lines[1]))
}

func TestStyler_Spacing(t *testing.T) {
	st := newStyler([]Line{box(0, 0, 10, 20)}, DefaultConfig())

	tests := []struct {
		gap  float64
		want int
	}{
		{-5, 0},
		{10, 0},
		{24, 6},
		{40, 12},
		{60, 24},
		{200, 24},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, st.spacing(tt.gap), "gap %.0f", tt.gap)
	}
}

func TestBuildBlocks_TablePlacement(t *testing.T) {
	lines := []Line{
		{Text: "intro", BBox: BBox{X0: 0, Y0: 0, X1: 100, Y1: 20}},
		{Text: "more", BBox: BBox{X0: 0, Y0: 25, X1: 100, Y1: 45}},
		{Text: "after", BBox: BBox{X0: 0, Y0: 200, X1: 100, Y1: 220}},
	}
	starts := []bool{true, false, false}
	tables := []Table{
		{Rows: [][]string{{"z"}}, BBox: BBox{X0: 0, Y0: 300, X1: 100, Y1: 320}},
		{Rows: [][]string{{"a"}}, BBox: BBox{X0: 0, Y0: 100, X1: 100, Y1: 150}},
	}

	blocks := BuildBlocks(lines, starts, nil, tables, DefaultConfig())
	require.Len(t, blocks, 5)

	assert.Equal(t, BlockParagraph, blocks[0].Type)
	assert.Equal(t, BlockParagraph, blocks[1].Type)
	assert.Equal(t, BlockTable, blocks[2].Type)
	assert.Equal(t, "a", blocks[2].Table.Rows[0][0])
	assert.Equal(t, BlockParagraph, blocks[3].Type)
	assert.Equal(t, BlockTable, blocks[4].Type)
	assert.Equal(t, "z", blocks[4].Table.Rows[0][0])

	// A table always closes the paragraph it interrupts
	assert.Equal(t, 0, blocks[0].Paragraph.Paragraph)
	assert.Equal(t, 0, blocks[1].Paragraph.Paragraph)
	assert.Equal(t, 1, blocks[3].Paragraph.Paragraph)
}

func TestBuildBlocks_SkipsExcluded(t *testing.T) {
	lines := []Line{
		{Text: "keep", BBox: BBox{X0: 0, Y0: 0, X1: 100, Y1: 20}},
		{Text: "drop", BBox: BBox{X0: 0, Y0: 25, X1: 100, Y1: 45}},
	}

	blocks := BuildBlocks(lines, []bool{true, false}, []bool{false, true}, nil, DefaultConfig())
	require.Len(t, blocks, 1)
	assert.Equal(t, "keep", blocks[0].Paragraph.Text)
	assert.Zero(t, blocks[0].Paragraph.SpacingAfter)
}

func TestBuildBlocks_Empty(t *testing.T) {
	assert.Empty(t, BuildBlocks(nil, nil, nil, nil, DefaultConfig()))
}

func TestPlainText(t *testing.T) {
	blocks := []Block{
		{Type: BlockParagraph, Paragraph: &ParagraphBlock{Text: "one", Paragraph: 0}},
		{Type: BlockParagraph, Paragraph: &ParagraphBlock{Text: "two", Paragraph: 0}},
		{Type: BlockTable, Table: &Table{Headers: []string{"h1", "h2"}, Rows: [][]string{{"a", "b"}}}},
		{Type: BlockParagraph, Paragraph: &ParagraphBlock{Text: "three", Paragraph: 1}},
	}

	assert.Equal(t, "one\ntwo\n\nh1\th2\na\tb\n\nthree", PlainText(blocks))
	assert.Equal(t, "", PlainText(nil))
}
