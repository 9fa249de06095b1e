package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/gardar/ocrlayout/pkg/export"
	"github.com/gardar/ocrlayout/pkg/hocr"
	"github.com/gardar/ocrlayout/pkg/layout"
)

// outputs holds the requested output paths; empty paths are skipped
type outputs struct {
	text   string
	html   string
	pdf    string
	hocr   string
	json   string
	stats  bool
	title  string
	debug  bool
	logger *slog.Logger
}

func (o outputs) write(results []*layout.PageResult, stdout io.Writer) error {
	if o.text != "" {
		if err := os.WriteFile(o.text, []byte(documentText(results)), 0644); err != nil {
			return fmt.Errorf("failed to write text output: %w", err)
		}
		fmt.Fprintln(stdout, "Document text saved to:", o.text)
	}

	if o.html != "" {
		var buf bytes.Buffer
		if err := export.RenderHTML(&buf, results, o.title); err != nil {
			return err
		}
		if err := os.WriteFile(o.html, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write HTML output: %w", err)
		}
		fmt.Fprintln(stdout, "HTML document saved to:", o.html)
	}

	if o.pdf != "" {
		cfg := export.DefaultPDFConfig()
		cfg.Title = o.title
		cfg.Debug = o.debug
		cfg.Logger = o.logger
		pdfBytes, err := export.RenderPDF(results, cfg)
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.pdf, pdfBytes, 0644); err != nil {
			return fmt.Errorf("failed to write PDF output: %w", err)
		}
		fmt.Fprintln(stdout, "PDF document saved to:", o.pdf)
	}

	if o.hocr != "" {
		hocrHTML, err := hocr.GenerateHOCRDocument(hocr.FromResults(results))
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.hocr, []byte(hocrHTML), 0644); err != nil {
			return fmt.Errorf("failed to write hOCR output: %w", err)
		}
		fmt.Fprintln(stdout, "Rendered hOCR output saved to:", o.hocr)
	}

	if o.json != "" {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		if err := os.WriteFile(o.json, data, 0644); err != nil {
			return fmt.Errorf("failed to write JSON output: %w", err)
		}
		fmt.Fprintln(stdout, "Page results JSON saved to:", o.json)
	}

	if o.stats {
		return writeStats(stdout, results)
	}
	return nil
}

// documentText joins page texts with a form feed between pages
func documentText(results []*layout.PageResult) string {
	texts := make([]string, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		texts = append(texts, r.PlainText)
	}
	return strings.Join(texts, "\n\f\n")
}

// writeStats prints one row of statistics per page
func writeStats(w io.Writer, results []*layout.PageResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "page\twords\tlines\tparagraphs\ttables\tcells\texcluded\tconfidence\tlow\t")
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Cancelled {
			fmt.Fprintf(tw, "%d\t-\t-\t-\t-\t-\t-\t-\t-\t\n", r.PageNumber)
			continue
		}
		s := r.Stats
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.1f\t%d\t\n",
			r.PageNumber, s.Words, s.Lines, s.Paragraphs, s.Tables, s.TableCells,
			s.ExcludedLines, s.MeanConfidence, s.LowConfidenceWords)
	}
	return tw.Flush()
}
