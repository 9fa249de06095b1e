package export

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/ocrlayout/pkg/layout"
)

// RenderPDF lays reconstructed pages out as a flowing PDF document
// Every result starts a new PDF page; long pages continue onto further pages.
// Paragraph blocks keep their font size, weight, alignment, indent and
// spacing, and tables are drawn as bordered grids with a bold header row.
func RenderPDF(pages []*layout.PageResult, cfg PDFConfig) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to render")
	}
	cfg = cfg.withDefaults()

	pdf := fpdf.New("P", "pt", cfg.PageSize, "")
	pdf.SetCompression(cfg.Compress)
	pdf.SetMargins(cfg.Margin, cfg.Margin, cfg.Margin)
	pdf.SetAutoPageBreak(true, cfg.Margin)
	pdf.SetCreator("ocrlayout", true)
	if cfg.Title != "" {
		pdf.SetTitle(cfg.Title, true)
	}

	r := &pdfRenderer{pdf: pdf, cfg: cfg}
	for i, page := range pages {
		if page == nil {
			continue
		}
		pdf.AddPage()
		for _, b := range page.Blocks {
			switch b.Type {
			case layout.BlockParagraph:
				r.paragraph(b.Paragraph)
			case layout.BlockTable:
				r.table(b.Table)
			}
		}
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}
	}

	if r.encodingErrors > 0 {
		cfg.Logger.Warn("text not representable in ISO-8859-1 was replaced",
			"strings", r.encodingErrors)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfRenderer struct {
	pdf            *fpdf.Fpdf
	cfg            PDFConfig
	encodingErrors int
}

func (r *pdfRenderer) paragraph(p *layout.ParagraphBlock) {
	if p == nil {
		return
	}
	size := float64(p.FontSize) / 2
	if size <= 0 {
		size = r.cfg.Font.Size
	}
	style := r.cfg.Font.Style
	if p.Bold && !strings.Contains(style, "B") {
		style += "B"
	}
	if p.Italic && !strings.Contains(style, "I") {
		style += "I"
	}
	r.pdf.SetFont(r.cfg.Font.Name, style, size)

	left, width := r.printable()
	indent := math.Min(float64(p.Indent), width/2)
	r.pdf.SetX(left + indent)

	border := ""
	if r.cfg.Debug {
		border = "1"
	}
	r.pdf.MultiCell(width-indent, size*r.cfg.Font.LineHeight, r.encode(p.Text), border, alignment(p.Alignment), false)
	if p.SpacingAfter > 0 {
		r.pdf.Ln(float64(p.SpacingAfter))
	}
}

func (r *pdfRenderer) table(t *layout.Table) {
	if t == nil {
		return
	}
	cols := t.Columns()
	if cols == 0 {
		return
	}
	_, width := r.printable()
	colWidth := width / float64(cols)
	size := r.cfg.Font.Size
	height := size*r.cfg.Font.LineHeight + 2*r.pdf.GetCellMargin()

	if len(t.Headers) > 0 {
		r.pdf.SetFont(r.cfg.Font.Name, "B", size)
		r.row(t.Headers, colWidth, height)
	}
	r.pdf.SetFont(r.cfg.Font.Name, r.cfg.Font.Style, size)
	for _, row := range t.Rows {
		r.row(row, colWidth, height)
	}
	r.pdf.Ln(size)
}

func (r *pdfRenderer) row(cells []string, width, height float64) {
	for i, text := range cells {
		ln := 0
		if i == len(cells)-1 {
			ln = 1
		}
		r.pdf.CellFormat(width, height, r.fit(r.encode(text), width), "1", ln, "L", false, 0, "")
	}
}

// fit shortens text until it fits a cell of the given width
func (r *pdfRenderer) fit(text string, width float64) string {
	limit := width - 2*r.pdf.GetCellMargin()
	for len(text) > 0 && r.pdf.GetStringWidth(text) > limit {
		text = text[:len(text)-1]
	}
	return text
}

// printable returns the left margin and usable width of the current page
func (r *pdfRenderer) printable() (left, width float64) {
	pageWidth, _ := r.pdf.GetPageSize()
	left, _, right, _ := r.pdf.GetMargins()
	return left, pageWidth - left - right
}

// encode converts text to ISO-8859-1 for the core fonts
// Characters outside the charset are replaced and counted.
func (r *pdfRenderer) encode(text string) string {
	latin1, err := charmap.ISO8859_1.NewEncoder().String(text)
	if err == nil {
		return latin1
	}
	r.encodingErrors++
	latin1, err = encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).String(text)
	if err != nil {
		return ""
	}
	return latin1
}

func alignment(a layout.Alignment) string {
	switch a {
	case layout.AlignCenter:
		return "C"
	case layout.AlignRight:
		return "R"
	default:
		return "L"
	}
}
