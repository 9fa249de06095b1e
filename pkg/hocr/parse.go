package hocr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// Element kinds recognized while walking the document
const (
	kindPage  = "ocr_page"
	kindArea  = "ocr_carea"
	kindPar   = "ocr_par"
	kindLine  = "ocr_line"
	kindWord  = "ocrx_word"
	kindTable = "ocr_table"
)

// ParseHOCR converts raw hOCR data into a structured HOCR object
// Pages without a ppageno property are numbered by their position.
func ParseHOCR(data []byte) (HOCR, error) {
	result := HOCR{Metadata: make(map[string]string)}

	decoded, err := decode(data)
	if err != nil {
		return result, err
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return result, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	extractDocumentMeta(&result, doc)

	for i, n := range collect(doc, kindPage)[kindPage] {
		result.Pages = append(result.Pages, processPage(n, i+1))
	}
	if len(result.Pages) == 0 {
		return result, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	return result, nil
}

// decode converts the document to UTF-8 using its declared charset
// Labels follow the WHATWG encoding names; anything unknown is read as latin-1.
func decode(data []byte) ([]byte, error) {
	label := declaredCharset(data)
	if label == "" || label == "utf-8" || label == "utf8" {
		return data, nil
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		enc = charmap.ISO8859_1
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", label, err)
	}
	return decoded, nil
}

// declaredCharset returns the lower-cased charset from a meta declaration
func declaredCharset(data []byte) string {
	head := data
	if len(head) > 2048 {
		head = head[:2048]
	}
	idx := bytes.Index(bytes.ToLower(head), []byte("charset="))
	if idx < 0 {
		return ""
	}
	rest := string(head[idx+len("charset="):])
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == '"' || r == '\'' || r == ';' || r == '>' || r == '/' || r == ' '
	})
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns nil when the title has no well-formed bbox property
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	bbox, ok := ParseTitle(title)["bbox"]
	if !ok || len(bbox) < 4 {
		return nil
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return nil
		}
		v[i] = f
	}
	result := NewBoundingBox(v[0], v[1], v[2], v[3])
	return &result
}

// kindOf maps an element's classes to the element kind it represents
// Tesseract's header, caption and text-float lines are read as lines.
func kindOf(n *html.Node) string {
	if n.Type != html.ElementNode {
		return ""
	}
	for _, class := range strings.Fields(getAttrVal(n, "class")) {
		switch class {
		case kindPage, kindArea, kindPar, kindWord, kindTable:
			return class
		case "ocr_line", "ocr_header", "ocr_caption", "ocr_textfloat":
			return kindLine
		case "ocr_word":
			return kindWord
		}
	}
	return ""
}

// collect gathers the nearest descendants of n whose kind is one of kinds
// A matched element is not descended into.
func collect(n *html.Node, kinds ...string) map[string][]*html.Node {
	found := make(map[string][]*html.Node)
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if k := kindOf(node); k != "" {
			for _, want := range kinds {
				if k == want {
					found[k] = append(found[k], node)
					return
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return found
}

// element holds the attributes every hOCR element shares
type element struct {
	id, lang, title string
	bbox            BoundingBox
	props           map[string][]string
}

func readElement(n *html.Node) element {
	e := element{
		id:    getAttrVal(n, "id"),
		lang:  getAttrVal(n, "lang"),
		title: getAttrVal(n, "title"),
	}
	e.props = ParseTitle(e.title)
	if bbox := ParseBoundingBoxFromTitle(e.title); bbox != nil {
		e.bbox = *bbox
	}
	return e
}

// metadata returns the title properties not mapped to struct fields
func (e element) metadata(skip ...string) map[string]string {
	meta := make(map[string]string)
	for k, v := range e.props {
		if k == "bbox" || contains(skip, k) {
			continue
		}
		meta[k] = strings.Join(v, " ")
	}
	return meta
}

// first returns the first value of a title property
func (e element) first(key string) string {
	if v := e.props[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// extractDocumentMeta extracts document-level metadata from the head section
func extractDocumentMeta(result *HOCR, doc *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				if lang := getAttrVal(n, "lang"); lang != "" {
					result.Language = lang
				} else if lang := getAttrVal(n, "xml:lang"); lang != "" {
					result.Language = lang
				}
			case "title":
				result.Title = extractTextContent(n)
			case "meta":
				name, content := getAttrVal(n, "name"), getAttrVal(n, "content")
				switch {
				case name == "" || content == "":
				case strings.HasPrefix(name, "ocr-"):
					result.Metadata[name] = content
				case name == "description":
					result.Description = content
				case name == "dc.language":
					result.Language = content
				}
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

// processPage extracts a page and everything nested in it
func processPage(n *html.Node, position int) Page {
	e := readElement(n)
	page := Page{
		ID:         e.id,
		Title:      e.title,
		Lang:       e.lang,
		BBox:       e.bbox,
		ImageName:  strings.Trim(e.first("image"), `"`),
		PageNumber: position,
		Metadata:   e.metadata("image", "ppageno"),
	}
	if num, err := strconv.Atoi(e.first("ppageno")); err == nil {
		// ppageno is zero-based
		page.PageNumber = num + 1
	}

	found := collect(n, kindArea, kindPar, kindLine, kindTable)
	for _, node := range found[kindArea] {
		page.Areas = append(page.Areas, processArea(node))
	}
	for _, node := range found[kindPar] {
		page.Paragraphs = append(page.Paragraphs, processParagraph(node))
	}
	for _, node := range found[kindLine] {
		page.Lines = append(page.Lines, processLine(node))
	}
	for _, node := range found[kindTable] {
		page.Tables = append(page.Tables, processTable(node))
	}
	return page
}

// processArea extracts an area and its paragraphs, lines and loose words
func processArea(n *html.Node) Area {
	e := readElement(n)
	area := Area{ID: e.id, Lang: e.lang, BBox: e.bbox, Metadata: e.metadata()}

	found := collect(n, kindPar, kindLine, kindWord)
	for _, node := range found[kindPar] {
		area.Paragraphs = append(area.Paragraphs, processParagraph(node))
	}
	for _, node := range found[kindLine] {
		area.Lines = append(area.Lines, processLine(node))
	}
	for _, node := range found[kindWord] {
		area.Words = append(area.Words, processWord(node))
	}
	return area
}

// processParagraph extracts a paragraph and its lines and loose words
func processParagraph(n *html.Node) Paragraph {
	e := readElement(n)
	par := Paragraph{ID: e.id, Lang: e.lang, BBox: e.bbox, Metadata: e.metadata()}

	found := collect(n, kindLine, kindWord)
	for _, node := range found[kindLine] {
		par.Lines = append(par.Lines, processLine(node))
	}
	for _, node := range found[kindWord] {
		par.Words = append(par.Words, processWord(node))
	}
	return par
}

// processLine extracts a line and its words
func processLine(n *html.Node) Line {
	e := readElement(n)
	line := Line{
		ID:       e.id,
		Lang:     e.lang,
		BBox:     e.bbox,
		Baseline: strings.Join(e.props["baseline"], " "),
		Metadata: e.metadata("baseline", "x_fsize"),
	}
	if size, err := strconv.ParseFloat(e.first("x_fsize"), 64); err == nil {
		line.FontSize = size
	}

	for _, node := range collect(n, kindWord)[kindWord] {
		line.Words = append(line.Words, processWord(node))
	}
	return line
}

// processWord extracts a word's text and properties
func processWord(n *html.Node) Word {
	e := readElement(n)
	word := Word{
		ID:       e.id,
		Lang:     e.lang,
		BBox:     e.bbox,
		Text:     extractTextContent(n),
		Metadata: e.metadata("x_wconf", "lang"),
	}
	if conf, err := strconv.ParseFloat(e.first("x_wconf"), 64); err == nil {
		word.Confidence = conf
	}
	if lang := e.first("lang"); lang != "" {
		word.Lang = lang
	}
	return word
}

// processTable reads cell text row by row; a first row of th cells is the header
func processTable(n *html.Node) Table {
	e := readElement(n)
	table := Table{ID: e.id, BBox: e.bbox}

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "tr" {
			var cells []string
			header := true
			for c := node.FirstChild; c != nil; c = c.NextSibling {
				if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
					continue
				}
				header = header && c.Data == "th"
				cells = append(cells, extractTextContent(c))
			}
			if header && len(cells) > 0 && table.Headers == nil && len(table.Rows) == 0 {
				table.Headers = cells
			} else {
				table.Rows = append(table.Rows, cells)
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return table
}

// extractTextContent gets all text from a node and its children
func extractTextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text := extractTextContent(c); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "")
}

// getAttrVal returns the value of a specific attribute of a node
func getAttrVal(n *html.Node, attrName string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}
	return ""
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
