package hocr

import (
	"bytes"
	"embed"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/net/html"
)

//go:embed templates/hocr.tmpl
var templateFS embed.FS

var hocrTemplate = template.Must(template.New("hocr.tmpl").Funcs(template.FuncMap{
	"esc":       html.EscapeString,
	"bbox":      bboxProperty,
	"pageTitle": pageTitle,
	"lineTitle": lineTitle,
	"wordTitle": wordTitle,
}).ParseFS(templateFS, "templates/hocr.tmpl"))

// GenerateHOCRDocument creates an hOCR HTML document from the HOCR struct
// Uses the embedded template to generate a complete HTML document
func GenerateHOCRDocument(doc *HOCR) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("no hOCR document provided")
	}

	var buf bytes.Buffer
	if err := hocrTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("error rendering hOCR template: %w", err)
	}
	return buf.String(), nil
}

// bboxProperty formats a bounding box as integer pixel coordinates
func bboxProperty(b BoundingBox) string {
	return fmt.Sprintf("bbox %d %d %d %d",
		int(math.Round(b.X1)), int(math.Round(b.Y1)), int(math.Round(b.X2)), int(math.Round(b.Y2)))
}

func pageTitle(p Page) string {
	props := []string{}
	if p.ImageName != "" {
		props = append(props, fmt.Sprintf("image %q", p.ImageName))
	}
	props = append(props, bboxProperty(p.BBox))
	if p.PageNumber > 0 {
		props = append(props, fmt.Sprintf("ppageno %d", p.PageNumber-1))
	}
	return strings.Join(props, "; ")
}

func lineTitle(l Line) string {
	props := []string{bboxProperty(l.BBox)}
	if l.Baseline != "" {
		props = append(props, "baseline "+l.Baseline)
	}
	if l.FontSize > 0 {
		props = append(props, "x_fsize "+strconv.FormatFloat(l.FontSize, 'f', -1, 64))
	}
	return strings.Join(props, "; ")
}

func wordTitle(w Word) string {
	return fmt.Sprintf("%s; x_wconf %d", bboxProperty(w.BBox), int(math.Round(w.Confidence)))
}
