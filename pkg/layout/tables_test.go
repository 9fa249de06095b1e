package layout

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioBWords places one word at the centre of each quadrant's text area
func scenarioBWords() []PayloadWord {
	return []PayloadWord{
		pw("H1", 15, 5, 35, 15),
		pw("H2", 140, 5, 160, 15),
		pw("v1", 15, 50, 35, 60),
		pw("v2", 140, 50, 160, 60),
	}
}

func detect(t *testing.T, in PageInput, cfg Config, logger *slog.Logger) ([]Table, []Line, []bool) {
	t.Helper()
	words := IngestWords(in.Words)
	lines := ClusterLines(words, cfg.LineTolerance)
	consumed := make([]bool, len(words))
	strategy := SelectStrategy(IngestTables(in.Tables), cfg, logger)
	require.NotNil(t, strategy)
	return strategy.Detect(words, lines, consumed), lines, consumed
}

func assertRectangular(t *testing.T, tables []Table) {
	t.Helper()
	for _, table := range tables {
		require.NotEmpty(t, table.Rows)
		cols := table.Columns()
		assert.Positive(t, cols)
		for _, row := range table.Rows {
			assert.Len(t, row, cols)
		}
	}
}

func TestSelectStrategy(t *testing.T) {
	cfg := DefaultConfig()

	s := SelectStrategy([]TableGeometry{{}}, cfg, nil)
	require.NotNil(t, s)
	assert.Equal(t, StrategyGeometry, s.Name())

	s = SelectStrategy(nil, cfg, nil)
	require.NotNil(t, s)
	assert.Equal(t, StrategyHeuristic, s.Name())

	cfg.HeuristicTables = false
	assert.Nil(t, SelectStrategy(nil, cfg, nil))
}

func TestGeometryStrategy_ScenarioB(t *testing.T) {
	in := PageInput{Words: scenarioBWords(), Tables: []PayloadTable{twoByTwo()}}

	tables, _, consumed := detect(t, in, DefaultConfig(), nil)
	require.Len(t, tables, 1)

	assert.Equal(t, []string{"H1", "H2"}, tables[0].Headers)
	assert.Equal(t, [][]string{{"v1", "v2"}}, tables[0].Rows)
	assert.Equal(t, StrategyGeometry, tables[0].Strategy)
	assert.Equal(t, BBox{X0: 0, Y0: 0, X1: 200, Y1: 80}, tables[0].BBox)
	assert.Equal(t, []bool{true, true, true, true}, consumed)
}

func TestGeometryStrategy_EmptyRowDiscardsTable(t *testing.T) {
	in := PageInput{Words: scenarioBWords()[:2], Tables: []PayloadTable{twoByTwo()}}

	tables, _, consumed := detect(t, in, DefaultConfig(), nil)
	assert.Empty(t, tables)
	assert.Equal(t, []bool{false, false}, consumed)
}

func TestGeometryStrategy_DeclaredHeader(t *testing.T) {
	table := twoByTwo()
	table.Header = []PayloadHeader{{Words: "Name"}, {Text: "Value"}, {Text: "Extra"}}
	in := PageInput{Words: scenarioBWords(), Tables: []PayloadTable{table}}

	tables, _, _ := detect(t, in, DefaultConfig(), nil)
	require.Len(t, tables, 1)
	assert.Equal(t, []string{"Name", "Value"}, tables[0].Headers)
	assert.Equal(t, [][]string{{"H1", "H2"}, {"v1", "v2"}}, tables[0].Rows)

	// A declared header repeated as the first grid row is not emitted twice
	table.Header = []PayloadHeader{{Words: " H1 "}, {Text: "H2"}}
	in = PageInput{Words: scenarioBWords(), Tables: []PayloadTable{table}}
	tables, _, _ = detect(t, in, DefaultConfig(), nil)
	require.Len(t, tables, 1)
	assert.Equal(t, []string{"H1", "H2"}, tables[0].Headers)
	assert.Equal(t, [][]string{{"v1", "v2"}}, tables[0].Rows)
}

func TestGeometryStrategy_HeaderRows(t *testing.T) {
	words := scenarioBWords()
	words[0].Text = "Description of the goods"

	in := PageInput{Words: words, Tables: []PayloadTable{twoByTwo()}}
	tables, _, _ := detect(t, in, DefaultConfig(), nil)
	require.Len(t, tables, 1)
	assert.Empty(t, tables[0].Headers, "long first row is body text")
	assert.Len(t, tables[0].Rows, 2)

	table := twoByTwo()
	table.HeaderRows = 1
	in = PageInput{Words: words, Tables: []PayloadTable{table}}
	tables, _, _ = detect(t, in, DefaultConfig(), nil)
	require.Len(t, tables, 1)
	assert.Equal(t, []string{"Description of the goods", "H2"}, tables[0].Headers)
	assert.Equal(t, [][]string{{"v1", "v2"}}, tables[0].Rows)
}

func TestGeometryStrategy_RowSpan(t *testing.T) {
	table := PayloadTable{Cells: []PayloadCell{
		{RowStart: 0, RowEnd: 1, ColStart: 0, ColEnd: 0, CellLocation: rect(0, 0, 100, 80)},
		cell(0, 1, 100, 0, 200, 40),
		cell(1, 1, 100, 40, 200, 80),
	}}
	words := []PayloadWord{
		pw("Total", 15, 5, 65, 15),
		pw("due", 15, 50, 45, 60),
		pw("H2", 140, 5, 160, 15),
		pw("v2", 140, 50, 160, 60),
	}

	tables, _, _ := detect(t, PageInput{Words: words, Tables: []PayloadTable{table}}, DefaultConfig(), nil)
	require.Len(t, tables, 1)
	assertRectangular(t, tables)

	// The spanning cell collects both words and its continuation stays empty
	assert.Equal(t, []string{"Total due", "H2"}, tables[0].Headers)
	assert.Equal(t, [][]string{{"", "v2"}}, tables[0].Rows)
}

func TestGeometryStrategy_SkipsMalformedRegion(t *testing.T) {
	bad := twoByTwo()
	bad.Cells[2].CellLocation = bad.Cells[2].CellLocation[:3]

	inverted := twoByTwo()
	inverted.Cells[0].RowEnd = -1

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	in := PageInput{Words: scenarioBWords(), Tables: []PayloadTable{bad, inverted, twoByTwo()}}
	tables, _, _ := detect(t, in, DefaultConfig(), logger)

	require.Len(t, tables, 1)
	assert.Equal(t, []string{"H1", "H2"}, tables[0].Headers)
	assert.Contains(t, buf.String(), "skipping table region")
	assert.Contains(t, buf.String(), "region=0")
	assert.Contains(t, buf.String(), "region=1")
}

func TestGeometryStrategy_GridLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxGridCells = 3

	in := PageInput{Words: scenarioBWords(), Tables: []PayloadTable{twoByTwo()}}
	tables, _, consumed := detect(t, in, cfg, nil)
	assert.Empty(t, tables)
	assert.NotContains(t, consumed, true)

	// Extents whose product wraps around int are skipped, not allocated
	huge := []struct {
		name string
		cell PayloadCell
	}{
		{"wrapping product", PayloadCell{RowEnd: math.MaxInt / 1024, ColEnd: 2047, CellLocation: rect(0, 0, 100, 40)}},
		{"overflowing span", PayloadCell{RowEnd: math.MaxInt, ColEnd: 0, CellLocation: rect(0, 0, 100, 40)}},
		{"far offset", PayloadCell{RowStart: math.MaxInt - 1, RowEnd: math.MaxInt - 1, CellLocation: rect(0, 0, 100, 40)}},
		{"negative start", PayloadCell{RowStart: math.MinInt, RowEnd: 3, CellLocation: rect(0, 0, 100, 40)}},
	}
	for _, tt := range huge {
		t.Run(tt.name, func(t *testing.T) {
			page := PageInput{
				Words:  []PayloadWord{pw("Hello", 10, 10, 60, 30)},
				Tables: []PayloadTable{{Cells: []PayloadCell{tt.cell}}},
			}
			var result *PageResult
			require.NotPanics(t, func() { result = Reconstruct(page, DefaultConfig(), nil) })
			assert.Empty(t, result.Tables)
			assert.Equal(t, "Hello", result.PlainText)
		})
	}
}

func TestGeometryStrategy_Exclusivity(t *testing.T) {
	shifted := twoByTwo()
	shifted.Cells = append(shifted.Cells, cell(2, 0, 0, 80, 100, 120), cell(2, 1, 100, 80, 200, 120))

	words := append(scenarioBWords(), pw("x1", 15, 90, 35, 100), pw("x2", 140, 90, 160, 100))
	in := PageInput{Words: words, Tables: []PayloadTable{twoByTwo(), shifted}}

	tables, _, consumed := detect(t, in, DefaultConfig(), nil)
	assertRectangular(t, tables)

	seen := make(map[string]int)
	for _, table := range tables {
		for _, c := range table.Cells() {
			if c.Text != "" {
				seen[c.Text]++
			}
		}
	}
	for text, n := range seen {
		assert.Equal(t, 1, n, "word %q placed %d times", text, n)
	}

	// The second region only sees x1/x2, a single row, and is dropped
	assert.Len(t, tables, 1)
	assert.Equal(t, []bool{true, true, true, true, false, false}, consumed)
}

func TestHeuristicStrategy_AlignedColumns(t *testing.T) {
	tables, lines, consumed := detect(t, reportPage(), DefaultConfig(), nil)
	require.Len(t, tables, 1)

	table := tables[0]
	assert.Equal(t, StrategyHeuristic, table.Strategy)
	assert.Equal(t, []string{"Item", "Qty", "Price"}, table.Headers)
	assert.Equal(t, [][]string{{"Apple", "3", "1.20"}, {"Pear", "5", "0.80"}}, table.Rows)
	assert.Equal(t, BBox{X0: 0, Y0: 170, X1: 450, Y1: 250}, table.BBox)

	excluded := ExcludeConsumedLines(lines, consumed)
	assert.Equal(t, []bool{false, false, true, true, true, false}, excluded)
}

func TestHeuristicStrategy_ScenarioA(t *testing.T) {
	in := PageInput{Words: []PayloadWord{
		pw("Name", 0, 0, 40, 20),
		pw("Age", 60, 0, 100, 20),
		pw("Alice", 0, 30, 40, 50),
	}}

	tables, _, _ := detect(t, in, scenarioAConfig(), nil)
	assert.Empty(t, tables)
}

func TestHeuristicStrategy_MisalignedRows(t *testing.T) {
	in := PageInput{Words: []PayloadWord{
		pw("Left", 0, 0, 40, 20), pw("Right", 300, 0, 350, 20),
		pw("Other", 100, 30, 150, 50), pw("Edge", 500, 30, 540, 50),
	}}

	tables, _, _ := detect(t, in, DefaultConfig(), nil)
	assert.Empty(t, tables)
}

func TestHeuristicStrategy_WrappedCell(t *testing.T) {
	in := PageInput{Words: []PayloadWord{
		pw("Item", 0, 0, 40, 20), pw("Notes", 200, 0, 250, 20),
		pw("Apple", 0, 30, 50, 50), pw("very", 200, 30, 240, 50), pw("ripe", 250, 30, 290, 50),
	}}

	tables, _, _ := detect(t, in, DefaultConfig(), nil)
	require.Len(t, tables, 1)
	assert.Equal(t, []string{"Item", "Notes"}, tables[0].Headers)
	assert.Equal(t, [][]string{{"Apple", "very ripe"}}, tables[0].Rows)
}

func TestFinalizeTable(t *testing.T) {
	cfg := DefaultConfig()

	assert.Nil(t, finalizeTable([][]string{{"a", "b"}}, nil, 0, cfg))
	assert.Nil(t, finalizeTable([][]string{{"a"}, {"b"}}, nil, 0, cfg))
	assert.Nil(t, finalizeTable([][]string{{"a", "b"}, {"", ""}}, nil, 0, cfg))

	table := finalizeTable([][]string{{"a", ""}, {"", ""}, {"c", "d"}}, nil, 0, cfg)
	require.NotNil(t, table)
	assert.Equal(t, []string{"a", ""}, table.Headers)
	assert.Equal(t, [][]string{{"c", "d"}}, table.Rows)
}
