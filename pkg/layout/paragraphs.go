package layout

// SegmentParagraphs flags the lines that open a new paragraph
// Lines must be in top-to-bottom order. A break is placed between two
// adjacent lines when the vertical gap between them exceeds multiplier times
// the average line height. The first line always opens a paragraph.
func SegmentParagraphs(lines []Line, multiplier float64) []bool {
	starts := make([]bool, len(lines))
	if len(lines) == 0 {
		return starts
	}
	starts[0] = true

	threshold := meanLineHeight(lines) * multiplier
	for i := 0; i+1 < len(lines); i++ {
		gap := lines[i+1].BBox.Y0 - lines[i].BBox.Y1
		if gap > threshold {
			starts[i+1] = true
		}
	}
	return starts
}

// GroupParagraphs splits lines into paragraphs using the start flags
func GroupParagraphs(lines []Line, starts []bool) [][]Line {
	var paragraphs [][]Line
	for i, line := range lines {
		if i == 0 || (i < len(starts) && starts[i]) {
			paragraphs = append(paragraphs, nil)
		}
		last := len(paragraphs) - 1
		paragraphs[last] = append(paragraphs[last], line)
	}
	return paragraphs
}
