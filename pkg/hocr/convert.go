package hocr

import (
	"fmt"
	"strings"

	"github.com/gardar/ocrlayout/pkg/layout"
)

// PageInputs converts parsed hOCR pages into layout payloads
// Only word boxes and confidences are used; the engine's own paragraph and
// line structure is discarded and rebuilt by the layout pipeline.
func PageInputs(doc HOCR) []layout.PageInput {
	inputs := make([]layout.PageInput, 0, len(doc.Pages))
	for _, page := range doc.Pages {
		in := layout.PageInput{
			PageNumber: page.PageNumber,
			Width:      page.BBox.X2 - page.BBox.X1,
			Height:     page.BBox.Y2 - page.BBox.Y1,
			Words:      []layout.PayloadWord{},
		}
		for _, w := range pageWords(page) {
			if strings.TrimSpace(w.Text) == "" {
				continue
			}
			in.Words = append(in.Words, payloadWord(w))
		}
		inputs = append(inputs, in)
	}
	return inputs
}

func payloadWord(w Word) layout.PayloadWord {
	pw := layout.PayloadWord{Text: w.Text}
	if !w.BBox.IsZero() {
		pw.Location = &layout.Location{
			Left:   w.BBox.X1,
			Top:    w.BBox.Y1,
			Width:  w.BBox.X2 - w.BBox.X1,
			Height: w.BBox.Y2 - w.BBox.Y1,
		}
	}
	if w.Confidence > 0 {
		p := layout.Probability(w.Confidence / 100)
		pw.Probability = &p
	}
	return pw
}

// pageWords lists every word of a page in document order
// Areas come first, then paragraphs and lines directly under the page.
func pageWords(page Page) []Word {
	var words []Word
	for _, area := range page.Areas {
		for _, par := range area.Paragraphs {
			words = appendParagraph(words, par)
		}
		for _, line := range area.Lines {
			words = append(words, line.Words...)
		}
		words = append(words, area.Words...)
	}
	for _, par := range page.Paragraphs {
		words = appendParagraph(words, par)
	}
	for _, line := range page.Lines {
		words = append(words, line.Words...)
	}
	return words
}

func appendParagraph(words []Word, par Paragraph) []Word {
	for _, line := range par.Lines {
		words = append(words, line.Words...)
	}
	return append(words, par.Words...)
}

// FromResults builds an hOCR document from reconstructed pages
// Each paragraph ordinal becomes an ocr_par holding the surviving lines, and
// each table an ocr_table float with its cell text.
func FromResults(results []*layout.PageResult) *HOCR {
	doc := &HOCR{
		Title:    "Reconstructed layout",
		Language: "unknown",
		Metadata: map[string]string{
			"ocr-system":          "ocrlayout",
			"ocr-number-of-pages": fmt.Sprintf("%d", len(results)),
			"ocr-capabilities":    "ocr_page ocr_par ocr_line ocrx_word ocr_table",
		},
		Pages: make([]Page, 0, len(results)),
	}
	for i, r := range results {
		if r == nil {
			continue
		}
		doc.Pages = append(doc.Pages, pageFromResult(r, i+1))
	}
	return doc
}

// pageFromResult converts one page result
// Paragraph blocks are emitted in the same order as the non-excluded lines,
// which is how the block builder produced them.
func pageFromResult(r *layout.PageResult, position int) Page {
	number := r.PageNumber
	if number <= 0 {
		number = position
	}
	page := Page{
		ID:         fmt.Sprintf("page_%d", number),
		PageNumber: number,
		BBox:       NewBoundingBox(0, 0, r.Width, r.Height),
		Metadata:   make(map[string]string),
	}

	var surviving []layout.Line
	for i, line := range r.Lines {
		if i >= len(r.Excluded) || !r.Excluded[i] {
			surviving = append(surviving, line)
		}
	}

	next, wordCount := 0, 0
	current := -1
	for _, b := range r.Blocks {
		switch b.Type {
		case layout.BlockTable:
			page.Tables = append(page.Tables, Table{
				ID:      fmt.Sprintf("table_%d_%d", number, len(page.Tables)+1),
				BBox:    fromLayout(b.Table.BBox),
				Headers: b.Table.Headers,
				Rows:    b.Table.Rows,
			})
		case layout.BlockParagraph:
			if next >= len(surviving) {
				continue
			}
			src := surviving[next]
			next++

			if b.Paragraph.Paragraph != current || len(page.Paragraphs) == 0 {
				current = b.Paragraph.Paragraph
				page.Paragraphs = append(page.Paragraphs, Paragraph{
					ID:       fmt.Sprintf("par_%d_%d", number, len(page.Paragraphs)+1),
					Metadata: make(map[string]string),
				})
			}
			par := &page.Paragraphs[len(page.Paragraphs)-1]

			line := Line{
				ID:       fmt.Sprintf("line_%d_%d", number, next),
				BBox:     fromLayout(src.BBox),
				FontSize: float64(b.Paragraph.FontSize) / 2,
				Metadata: make(map[string]string),
			}
			for _, w := range src.Words {
				wordCount++
				line.Words = append(line.Words, Word{
					ID:         fmt.Sprintf("word_%d_%d", number, wordCount),
					Text:       w.Text,
					BBox:       fromLayout(w.BBox),
					Confidence: w.Confidence,
					Metadata:   make(map[string]string),
				})
			}
			par.Lines = append(par.Lines, line)
			par.BBox = par.BBox.union(line.BBox)
		}
	}

	if page.BBox.IsZero() {
		for _, par := range page.Paragraphs {
			page.BBox = page.BBox.union(par.BBox)
		}
		for _, t := range page.Tables {
			page.BBox = page.BBox.union(t.BBox)
		}
	}
	return page
}
