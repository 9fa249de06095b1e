package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterLines_ScenarioA(t *testing.T) {
	words := IngestWords([]PayloadWord{
		pw("Alice", 0, 30, 40, 50),
		pw("Age", 60, 0, 100, 20),
		pw("Name", 0, 0, 40, 20),
	})

	lines := ClusterLines(words, 5)
	require.Len(t, lines, 2)

	assert.Equal(t, "Name Age", lines[0].Text)
	assert.Equal(t, []int{2, 1}, lines[0].WordIndexes)
	assert.Equal(t, BBox{X0: 0, Y0: 0, X1: 100, Y1: 20}, lines[0].BBox)
	assert.InDelta(t, 20, lines[0].FontSizeEstimate, 1e-9)

	assert.Equal(t, "Alice", lines[1].Text)
	assert.Equal(t, []int{0}, lines[1].WordIndexes)
}

func TestClusterLines_Empty(t *testing.T) {
	assert.Nil(t, ClusterLines(nil, 5))
}

func TestClusterLines_SnapsToGrid(t *testing.T) {
	words := IngestWords([]PayloadWord{
		pw("a", 0, 101, 10, 111),
		pw("b", 20, 102, 30, 112),
		pw("c", 40, 108, 50, 118), // rounds to the next grid key
	})

	lines := ClusterLines(words, 5)
	require.Len(t, lines, 2)
	assert.Equal(t, "a b", lines[0].Text)
	assert.Equal(t, "c", lines[1].Text)
}

func TestClusterLines_DegenerateBoxes(t *testing.T) {
	words := IngestWords([]PayloadWord{{Text: "x"}, {Text: "y"}, pw("z", 0, 50, 10, 60)})

	lines := ClusterLines(words, 5)
	require.Len(t, lines, 2)
	assert.Equal(t, "x y", lines[0].Text)
	assert.Zero(t, lines[0].FontSizeEstimate)
	assert.Equal(t, "z", lines[1].Text)
}

func TestClusterLines_OrderIndependent(t *testing.T) {
	base := reportPage()
	want := lineTexts(ClusterLines(IngestWords(base.Words), 5))

	for seed := int64(1); seed <= 20; seed++ {
		in := shuffled(base, seed)
		got := lineTexts(ClusterLines(IngestWords(in.Words), 5))
		assert.Equal(t, want, got, "seed %d", seed)
	}
}

func TestClusterLines_StackedDuplicates(t *testing.T) {
	tall := pw("x", 0, 10, 20, 30)
	short := pw("x", 0, 10, 20, 26)
	low := pw("x", 0, 10, 20, 26)
	p := Probability(0.4)
	low.Probability = &p

	want := ClusterLines(IngestWords([]PayloadWord{tall, short, low}), 5)
	require.Len(t, want, 1)
	assert.Equal(t, []float64{26, 26, 30}, []float64{want[0].Words[0].BBox.Y1, want[0].Words[1].BBox.Y1, want[0].Words[2].BBox.Y1})
	assert.Greater(t, want[0].Words[0].Confidence, want[0].Words[1].Confidence)

	got := ClusterLines(IngestWords([]PayloadWord{low, tall, short}), 5)
	require.Len(t, got, 1)
	assert.Equal(t, want[0].Words, got[0].Words)
}
