package layout

import (
	"math"
	"sort"
	"strings"
)

// ClusterLines groups words into lines by snapping their top edge to a grid
// of the given tolerance. Words sharing a grid key form one line ordered left
// to right, and lines are returned in ascending key order, so the result does
// not depend on the order of the input slice.
func ClusterLines(words []Word, tolerance float64) []Line {
	if len(words) == 0 {
		return nil
	}
	if tolerance <= 0 {
		tolerance = 1
	}

	// Single pass grouping by snapped y0
	groups := make(map[float64][]int)
	for i, w := range words {
		key := snap(w.BBox.Y0, tolerance)
		groups[key] = append(groups[key], i)
	}

	keys := make([]float64, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	lines := make([]Line, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, buildLine(words, groups[key]))
	}
	return lines
}

// buildLine assembles a line from word indexes sharing one grid key
func buildLine(words []Word, indexes []int) Line {
	sort.Slice(indexes, func(a, b int) bool {
		wa, wb := words[indexes[a]], words[indexes[b]]
		if wa.BBox.X0 != wb.BBox.X0 {
			return wa.BBox.X0 < wb.BBox.X0
		}
		if wa.BBox.X1 != wb.BBox.X1 {
			return wa.BBox.X1 < wb.BBox.X1
		}
		if wa.Text != wb.Text {
			return wa.Text < wb.Text
		}
		if wa.BBox.Y0 != wb.BBox.Y0 {
			return wa.BBox.Y0 < wb.BBox.Y0
		}
		if wa.BBox.Y1 != wb.BBox.Y1 {
			return wa.BBox.Y1 < wb.BBox.Y1
		}
		if wa.Confidence != wb.Confidence {
			return wa.Confidence > wb.Confidence
		}
		return indexes[a] < indexes[b]
	})

	line := Line{
		Words:       make([]Word, 0, len(indexes)),
		WordIndexes: make([]int, 0, len(indexes)),
	}

	texts := make([]string, 0, len(indexes))
	var heightSum float64
	for n, idx := range indexes {
		w := words[idx]
		line.Words = append(line.Words, w)
		line.WordIndexes = append(line.WordIndexes, idx)
		if n == 0 {
			line.BBox = w.BBox
		} else {
			line.BBox = line.BBox.Union(w.BBox)
		}
		heightSum += w.BBox.Height()
		if t := strings.TrimSpace(w.Text); t != "" {
			texts = append(texts, t)
		}
	}

	line.Text = strings.Join(texts, " ")
	line.FontSizeEstimate = math.Max(0, heightSum/float64(len(indexes)))
	return line
}
