package export

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gardar/ocrlayout/pkg/layout"
)

// RenderHTML writes reconstructed pages as a standalone HTML document
// Each page becomes a section; paragraph blocks become p elements (h2 for
// headings) with their indent, alignment, size and spacing as inline style,
// and tables keep their header row in a thead.
func RenderHTML(w io.Writer, pages []*layout.PageResult, title string) error {
	if title == "" {
		title = "Reconstructed layout"
	}

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	titleNode := element(atom.Title)
	titleNode.AppendChild(text(title))
	head.AppendChild(titleNode)

	body := element(atom.Body)
	for i, page := range pages {
		if page == nil {
			continue
		}
		body.AppendChild(section(page, i+1))
	}

	root := element(atom.Html, html.Attribute{Key: "lang", Val: "en"})
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	return nil
}

func section(page *layout.PageResult, position int) *html.Node {
	number := page.PageNumber
	if number <= 0 {
		number = position
	}
	s := element(atom.Section,
		html.Attribute{Key: "class", Val: "page"},
		html.Attribute{Key: "id", Val: fmt.Sprintf("page-%d", number)},
	)

	// Consecutive blocks of one paragraph share a p element, one br per line
	var current *html.Node
	ordinal := -1
	for _, b := range page.Blocks {
		switch b.Type {
		case layout.BlockTable:
			current = nil
			if b.Table != nil {
				s.AppendChild(table(b.Table))
			}
		case layout.BlockParagraph:
			p := b.Paragraph
			if p == nil {
				continue
			}
			if current != nil && p.Paragraph == ordinal && !p.Heading {
				current.AppendChild(element(atom.Br))
				current.AppendChild(inline(p))
				current.Attr = styled(current.Attr, p)
				continue
			}
			tag := atom.P
			if p.Heading {
				tag = atom.H2
			}
			current = element(tag)
			current.Attr = styled(current.Attr, p)
			current.AppendChild(inline(p))
			s.AppendChild(current)
			ordinal = p.Paragraph
			if p.Heading {
				current = nil
			}
		}
	}
	return s
}

// styled sets the inline style from a block, later lines overriding the spacing
func styled(attrs []html.Attribute, p *layout.ParagraphBlock) []html.Attribute {
	var rules []string
	if p.Indent > 0 {
		rules = append(rules, fmt.Sprintf("margin-left:%dpt", p.Indent))
	}
	if p.Alignment != "" && p.Alignment != layout.AlignLeft {
		rules = append(rules, "text-align:"+string(p.Alignment))
	}
	if p.FontSize > 0 {
		rules = append(rules, fmt.Sprintf("font-size:%gpt", float64(p.FontSize)/2))
	}
	rules = append(rules, fmt.Sprintf("margin-bottom:%dpt", p.SpacingAfter))

	style := html.Attribute{Key: "style", Val: strings.Join(rules, ";")}
	for i, a := range attrs {
		if a.Key == "style" {
			attrs[i] = style
			return attrs
		}
	}
	return append(attrs, style)
}

func inline(p *layout.ParagraphBlock) *html.Node {
	n := text(p.Text)
	if p.Italic {
		em := element(atom.Em)
		em.AppendChild(n)
		n = em
	}
	if p.Bold && !p.Heading {
		strong := element(atom.Strong)
		strong.AppendChild(n)
		n = strong
	}
	return n
}

func table(t *layout.Table) *html.Node {
	tbl := element(atom.Table, html.Attribute{Key: "data-strategy", Val: t.Strategy})
	if len(t.Headers) > 0 {
		thead := element(atom.Thead)
		thead.AppendChild(tableRow(atom.Th, t.Headers))
		tbl.AppendChild(thead)
	}
	tbody := element(atom.Tbody)
	for _, row := range t.Rows {
		tbody.AppendChild(tableRow(atom.Td, row))
	}
	tbl.AppendChild(tbody)
	return tbl
}

func tableRow(cell atom.Atom, values []string) *html.Node {
	tr := element(atom.Tr)
	for _, v := range values {
		c := element(cell)
		c.AppendChild(text(v))
		tr.AppendChild(c)
	}
	return tr
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
