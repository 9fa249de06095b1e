package layout

import (
	"math"
	"sort"
	"strings"
)

// clamp limits v to the closed range [lo, hi]
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// clampInt limits v to the closed range [lo, hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// snap rounds v to the nearest multiple of step
func snap(v, step float64) float64 {
	return math.Round(v/step) * step
}

// normalizeText collapses runs of whitespace, newlines included, into single spaces
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// sortedKeys returns map keys in ascending order
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// meanLineHeight returns the average bbox height over lines
func meanLineHeight(lines []Line) float64 {
	if len(lines) == 0 {
		return 0
	}
	var sum float64
	for _, line := range lines {
		sum += line.BBox.Height()
	}
	return sum / float64(len(lines))
}

// contentBounds returns the union of all line boxes
func contentBounds(lines []Line) BBox {
	if len(lines) == 0 {
		return BBox{}
	}
	b := lines[0].BBox
	for _, line := range lines[1:] {
		b = b.Union(line.BBox)
	}
	return b
}
