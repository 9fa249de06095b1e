package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// textIndex resolves text anchors against the document text
// Anchor offsets count code points, so the text is split into runes once per
// document rather than once per token.
type textIndex []rune

func newTextIndex(fullText string) textIndex {
	return textIndex(fullText)
}

// text returns the trimmed text covered by a layout's anchor segments
// Out-of-range offsets are clamped to the document text.
func (t textIndex) text(l *documentaipb.Document_Page_Layout) string {
	if l == nil || l.TextAnchor == nil {
		return ""
	}
	var sb strings.Builder
	for _, seg := range l.TextAnchor.TextSegments {
		end := min(int(seg.EndIndex), len(t))
		start := min(max(int(seg.StartIndex), 0), end)
		sb.WriteString(string(t[start:end]))
	}
	return strings.TrimSpace(sb.String())
}
