package layout

import "strings"

// PlainText renders blocks for search and preview
// Lines of one paragraph are joined by a newline and paragraphs by a blank
// line. A table becomes its own paragraph with one tab-separated row per line,
// headers first.
func PlainText(blocks []Block) string {
	var paragraphs []string
	var current []string
	currentIdx := -1

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, b := range blocks {
		switch b.Type {
		case BlockParagraph:
			if b.Paragraph.Paragraph != currentIdx {
				flush()
				currentIdx = b.Paragraph.Paragraph
			}
			if b.Paragraph.Text != "" {
				current = append(current, b.Paragraph.Text)
			}
		case BlockTable:
			flush()
			currentIdx = -1
			if text := tableText(b.Table); text != "" {
				paragraphs = append(paragraphs, text)
			}
		}
	}
	flush()

	return strings.Join(paragraphs, "\n\n")
}

// tableText renders a table as tab-separated rows
func tableText(t *Table) string {
	var rows []string
	if len(t.Headers) > 0 {
		rows = append(rows, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		rows = append(rows, strings.Join(row, "\t"))
	}
	return strings.Join(rows, "\n")
}
