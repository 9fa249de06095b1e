package layout

// ExcludeConsumedLines flags the lines whose every word was placed in a table
// Partially consumed lines are kept whole in the free-text stream, so a line
// that straddles a table edge may repeat some table text.
func ExcludeConsumedLines(lines []Line, consumed []bool) []bool {
	excluded := make([]bool, len(lines))
	for i, line := range lines {
		if len(line.WordIndexes) == 0 {
			continue
		}
		all := true
		for _, idx := range line.WordIndexes {
			if idx >= len(consumed) || !consumed[idx] {
				all = false
				break
			}
		}
		excluded[i] = all
	}
	return excluded
}
