package layout

import (
	"math"
	"sort"
	"strings"
)

// HeuristicStrategy detects tables from line geometry alone
// It is used when no table-recognition pass is available. A line is a row
// candidate when it has a wide gap between two adjacent words, and runs of
// candidate lines whose word starts line up on shared columns form a table.
type HeuristicStrategy struct {
	Config Config
}

// Name returns "heuristic"
func (s *HeuristicStrategy) Name() string { return StrategyHeuristic }

// Detect scans the line stream for runs of aligned row candidates
func (s *HeuristicStrategy) Detect(words []Word, lines []Line, consumed []bool) []Table {
	candidate := make([]bool, len(lines))
	for i, line := range lines {
		candidate[i] = s.isRowCandidate(line)
	}

	var tables []Table
	for i := 0; i < len(lines); {
		if !candidate[i] {
			i++
			continue
		}

		// Extend the run while the next line is an aligned candidate
		j := i
		for j+1 < len(lines) && candidate[j+1] && s.aligned(lines[j], lines[j+1]) {
			j++
		}

		if j > i {
			if table := s.buildTable(lines[i:j+1], consumed); table != nil {
				tables = append(tables, *table)
			}
		}
		i = j + 1
	}
	return tables
}

// isRowCandidate reports whether a line has at least two words and some
// adjacent gap wider than RowCandidateGap times the mean word width
func (s *HeuristicStrategy) isRowCandidate(line Line) bool {
	if len(line.Words) < 2 {
		return false
	}

	var widthSum float64
	for _, w := range line.Words {
		widthSum += w.BBox.Width()
	}
	limit := s.Config.RowCandidateGap * widthSum / float64(len(line.Words))

	for k := 0; k+1 < len(line.Words); k++ {
		gap := line.Words[k+1].BBox.X0 - line.Words[k].BBox.X1
		if gap > limit {
			return true
		}
	}
	return false
}

// positions returns the distinct snapped word starts of a line, ascending
func (s *HeuristicStrategy) positions(line Line) []float64 {
	seen := make(map[float64]bool, len(line.Words))
	out := make([]float64, 0, len(line.Words))
	for _, w := range line.Words {
		p := snap(w.BBox.X0, s.Config.ColumnSnap)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Float64s(out)
	return out
}

// aligned reports whether two lines share enough column starts
func (s *HeuristicStrategy) aligned(a, b Line) bool {
	pb := s.positions(b)
	shared := 0
	for _, p := range s.positions(a) {
		if hasNear(pb, p, s.Config.ColumnTolerance) {
			shared++
		}
	}
	return shared >= s.Config.MinAlignedColumns
}

// columns returns the snapped positions recurring in at least two lines of the run
func (s *HeuristicStrategy) columns(run []Line) []float64 {
	perLine := make([][]float64, len(run))
	var all []float64
	for i, line := range run {
		perLine[i] = s.positions(line)
		all = append(all, perLine[i]...)
	}
	sort.Float64s(all)

	var cols []float64
	for _, p := range all {
		if len(cols) > 0 && p-cols[len(cols)-1] <= s.Config.ColumnTolerance {
			continue
		}
		count := 0
		for _, ps := range perLine {
			if hasNear(ps, p, s.Config.ColumnTolerance) {
				count++
			}
		}
		if count >= 2 {
			cols = append(cols, p)
		}
	}
	return cols
}

// columnFor picks the column a word belongs to
// A word whose start matches a column within tolerance goes there; otherwise
// it continues the nearest column starting to its left. Words left of the
// first column are not part of the table.
func (s *HeuristicStrategy) columnFor(cols []float64, x0 float64) int {
	p := snap(x0, s.Config.ColumnSnap)
	best, bestDist := -1, math.Inf(1)
	for c, col := range cols {
		if d := math.Abs(p - col); d <= s.Config.ColumnTolerance && d < bestDist {
			best, bestDist = c, d
		}
	}
	if best >= 0 {
		return best
	}
	for c := len(cols) - 1; c >= 0; c-- {
		if cols[c] < x0 {
			return c
		}
	}
	return -1
}

// buildTable turns a run of aligned lines into a table
func (s *HeuristicStrategy) buildTable(run []Line, consumed []bool) *Table {
	cols := s.columns(run)
	if len(cols) < s.Config.MinTableCols {
		return nil
	}

	grid := make([][]string, len(run))
	var used []int
	bbox := run[0].BBox
	for r, line := range run {
		bbox = bbox.Union(line.BBox)
		cells := make([][]string, len(cols))
		for k, w := range line.Words {
			idx := line.WordIndexes[k]
			if consumed[idx] {
				continue
			}
			c := s.columnFor(cols, w.BBox.X0)
			if c < 0 {
				continue
			}
			cells[c] = append(cells[c], w.Text)
			used = append(used, idx)
		}
		grid[r] = make([]string, len(cols))
		for c := range cells {
			grid[r][c] = normalizeText(strings.Join(cells[c], " "))
		}
	}

	table := finalizeTable(grid, nil, 0, s.Config)
	if table == nil {
		return nil
	}
	for _, idx := range used {
		consumed[idx] = true
	}
	table.BBox = bbox
	table.Strategy = StrategyHeuristic
	return table
}

// hasNear reports whether any value lies within tol of p
func hasNear(values []float64, p, tol float64) bool {
	for _, v := range values {
		if math.Abs(v-p) <= tol {
			return true
		}
	}
	return false
}
