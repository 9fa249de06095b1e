package layout

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"
)

// Strategy names reported in Table.Strategy
const (
	StrategyGeometry  = "geometry"
	StrategyHeuristic = "heuristic"
)

// TableDetectionStrategy finds tables on a page and reports the words they consume
type TableDetectionStrategy interface {
	// Name identifies the strategy in logs and results
	Name() string

	// Detect returns the tables found on the page. consumed is shared by all
	// regions of the page: a word already marked is never assigned again, and
	// every word placed into a kept table is marked.
	Detect(words []Word, lines []Line, consumed []bool) []Table
}

// SelectStrategy picks the geometry strategy when a table-recognition pass is
// available and the heuristic strategy otherwise. It returns nil when neither
// applies.
func SelectStrategy(geoms []TableGeometry, cfg Config, logger *slog.Logger) TableDetectionStrategy {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(geoms) > 0 {
		return &GeometryStrategy{Geometry: geoms, Config: cfg, Logger: logger}
	}
	if cfg.HeuristicTables {
		return &HeuristicStrategy{Config: cfg}
	}
	return nil
}

// GeometryStrategy places words into cells declared by a table-recognition pass
type GeometryStrategy struct {
	Geometry []TableGeometry
	Config   Config
	Logger   *slog.Logger
}

// Name returns "geometry"
func (s *GeometryStrategy) Name() string { return StrategyGeometry }

// cellInfo accumulates the text assigned to one declared cell
type cellInfo struct {
	row, col int
	bounds   BBox
	text     []string
}

// Detect reconstructs every declared region independently
func (s *GeometryStrategy) Detect(words []Word, lines []Line, consumed []bool) []Table {
	order := readingOrder(lines)

	var tables []Table
	for i, geom := range s.Geometry {
		table, used, err := s.reconstruct(geom, words, order, consumed)
		if err != nil {
			s.Logger.Warn("skipping table region", "region", i, "err", err)
			continue
		}
		if table == nil {
			s.Logger.Debug("discarding table region below minimum size", "region", i)
			continue
		}
		for _, idx := range used {
			consumed[idx] = true
		}
		tables = append(tables, *table)
	}
	return tables
}

// reconstruct assigns words to one region's cells and builds its grid
// It returns a nil table when the region is valid but too small to keep
func (s *GeometryStrategy) reconstruct(geom TableGeometry, words []Word, order []int, consumed []bool) (*Table, []int, error) {
	rows, cols, err := s.gridSize(geom)
	if err != nil {
		return nil, nil, err
	}

	// Step 1: index cells by (row, col) in row-major order
	cells := make([]*cellInfo, 0, len(geom.Cells))
	byPos := make(map[[2]int]*cellInfo, len(geom.Cells))
	for _, c := range geom.Cells {
		key := [2]int{c.Row, c.Col}
		if info, ok := byPos[key]; ok {
			info.bounds = info.bounds.Union(c.Bounds)
			continue
		}
		info := &cellInfo{row: c.Row, col: c.Col, bounds: c.Bounds}
		byPos[key] = info
		cells = append(cells, info)
	}
	sort.SliceStable(cells, func(a, b int) bool {
		if cells[a].row != cells[b].row {
			return cells[a].row < cells[b].row
		}
		return cells[a].col < cells[b].col
	})

	// Step 2: the outer bound is the union of the cell bounds
	outer := cells[0].bounds
	for _, c := range cells[1:] {
		outer = outer.Union(c.bounds)
	}

	// Step 3: drop each word into the first cell containing its centroid
	var used []int
	for _, idx := range order {
		if consumed[idx] {
			continue
		}
		w := words[idx]
		cx, cy := w.BBox.CenterX(), w.BBox.CenterY()
		if !outer.Contains(cx, cy) {
			continue
		}
		for _, c := range cells {
			if c.bounds.Contains(cx, cy) {
				c.text = append(c.text, w.Text)
				used = append(used, idx)
				break
			}
		}
	}

	// Step 4: dense grid
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
	}
	for _, c := range cells {
		grid[c.row][c.col] = normalizeText(strings.Join(c.text, " "))
	}

	table := finalizeTable(grid, geom.Header, geom.HeaderRows, s.Config)
	if table == nil {
		return nil, nil, nil
	}
	table.BBox = outer
	table.Strategy = StrategyGeometry
	return table, used, nil
}

// gridSize resolves the grid extents of a region
func (s *GeometryStrategy) gridSize(geom TableGeometry) (int, int, error) {
	if geom.err != nil {
		return 0, 0, geom.err
	}
	if len(geom.Cells) == 0 {
		return 0, 0, fmt.Errorf("region declares no cells")
	}

	rows, cols := 0, 0
	for i, c := range geom.Cells {
		if c.Row < 0 || c.Col < 0 {
			return 0, 0, fmt.Errorf("cell %d has negative position (%d, %d)", i, c.Row, c.Col)
		}
		if c.RowSpan < 1 || c.ColSpan < 1 {
			return 0, 0, fmt.Errorf("cell %d has inverted extents (span %dx%d)", i, c.RowSpan, c.ColSpan)
		}
		if c.Bounds.Width() < 0 || c.Bounds.Height() < 0 {
			return 0, 0, fmt.Errorf("cell %d has inverted bounds", i)
		}
		// Either extent alone may not exceed the cell limit, which also keeps
		// the sums and the product below from overflowing
		limit := s.Config.MaxGridCells
		if c.RowSpan > limit || c.Row > limit-c.RowSpan || c.ColSpan > limit || c.Col > limit-c.ColSpan {
			return 0, 0, fmt.Errorf("cell %d at (%d, %d) spanning %dx%d exceeds %d cells",
				i, c.Row, c.Col, c.RowSpan, c.ColSpan, limit)
		}
		rows = max(rows, c.Row+c.RowSpan)
		cols = max(cols, c.Col+c.ColSpan)
	}
	if rows > s.Config.MaxGridCells/cols {
		return 0, 0, fmt.Errorf("grid of %dx%d exceeds %d cells", rows, cols, s.Config.MaxGridCells)
	}
	return rows, cols, nil
}

// readingOrder lists word indexes line by line, left to right
func readingOrder(lines []Line) []int {
	var order []int
	for _, line := range lines {
		order = append(order, line.WordIndexes...)
	}
	return order
}

// finalizeTable drops empty rows, infers the header and applies the minimum
// size rule. It returns nil when the table must be discarded.
func finalizeTable(grid [][]string, declared []string, headerRows int, cfg Config) *Table {
	// Drop fully empty rows
	rows := make([][]string, 0, len(grid))
	for _, row := range grid {
		if !isEmptyRow(row) {
			rows = append(rows, row)
		}
	}

	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	if len(rows) < cfg.MinTableRows || cols < cfg.MinTableCols {
		return nil
	}

	table := &Table{}
	switch {
	case len(declared) > 0:
		table.Headers = fitRow(declared, cols)
		table.Rows = rows
		// Grid-style providers repeat the declared header as the first row
		if len(rows) > 1 && slices.Equal(table.Headers, rows[0]) {
			table.Rows = rows[1:]
		}
	case len(rows) > 1 && (headerRows > 0 || isHeaderRow(rows, cfg.HeaderMaxChars)):
		table.Headers = rows[0]
		table.Rows = rows[1:]
	default:
		table.Rows = rows
	}
	return table
}

// isHeaderRow applies the header heuristic to the first row
func isHeaderRow(rows [][]string, maxChars int) bool {
	if len(rows) < 2 {
		return false
	}
	if nonEmpty(rows[0]) != nonEmpty(rows[1]) {
		return true
	}
	for _, cell := range rows[0] {
		if utf8.RuneCountInString(cell) >= maxChars {
			return false
		}
	}
	return true
}

// fitRow pads or truncates a declared header to the grid width
func fitRow(row []string, cols int) []string {
	out := make([]string, cols)
	for i := 0; i < cols && i < len(row); i++ {
		out[i] = normalizeText(row[i])
	}
	return out
}

func isEmptyRow(row []string) bool {
	return nonEmpty(row) == 0
}

func nonEmpty(row []string) int {
	n := 0
	for _, cell := range row {
		if cell != "" {
			n++
		}
	}
	return n
}
