package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lineAt(y0, y1 float64) Line {
	return Line{BBox: BBox{X0: 0, Y0: y0, X1: 50, Y1: y1}}
}

func TestSegmentParagraphs(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		want  []bool
	}{
		{"empty", nil, []bool{}},
		{"single", []Line{lineAt(0, 10)}, []bool{true}},
		{"tight leading", []Line{lineAt(0, 10), lineAt(14, 24), lineAt(28, 38)}, []bool{true, false, false}},
		{"wide gap", []Line{lineAt(0, 10), lineAt(20, 30), lineAt(60, 70)}, []bool{true, false, true}},
		{"gap equal to threshold", []Line{lineAt(0, 10), lineAt(28, 38)}, []bool{true, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentParagraphs(tt.lines, 1.8))
		})
	}
}

func TestSegmentParagraphs_GapLaw(t *testing.T) {
	lines := []Line{
		lineAt(0, 12), lineAt(15, 25), lineAt(50, 62), lineAt(64, 74),
		lineAt(74, 86), lineAt(140, 150), lineAt(169, 180),
	}
	starts := SegmentParagraphs(lines, 1.8)
	threshold := meanLineHeight(lines) * 1.8

	for i := 0; i+1 < len(lines); i++ {
		gap := lines[i+1].BBox.Y0 - lines[i].BBox.Y1
		assert.Equal(t, gap > threshold, starts[i+1], "lines %d/%d gap %.1f", i, i+1, gap)
	}
}

func TestSegmentParagraphs_ScenarioA(t *testing.T) {
	lines := ClusterLines(IngestWords([]PayloadWord{
		pw("Name", 0, 0, 40, 20),
		pw("Age", 60, 0, 100, 20),
		pw("Alice", 0, 30, 40, 50),
	}), 5)

	assert.Equal(t, []bool{true, false}, SegmentParagraphs(lines, 1.8))
}

func TestGroupParagraphs(t *testing.T) {
	lines := []Line{{Text: "a"}, {Text: "b"}, {Text: "c"}}
	groups := GroupParagraphs(lines, []bool{true, false, true})

	assert.Len(t, groups, 2)
	assert.Equal(t, []string{"a", "b"}, lineTexts(groups[0]))
	assert.Equal(t, []string{"c"}, lineTexts(groups[1]))
}
