package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gardar/ocrlayout/pkg/gdocai"
	"github.com/gardar/ocrlayout/pkg/hocr"
	"github.com/gardar/ocrlayout/pkg/layout"
	"github.com/gardar/ocrlayout/pkg/tesseract"
)

// source reads page payloads from the supported recognizers
type source struct {
	logger  *slog.Logger
	workers int
}

func (s source) payload(path string) ([]layout.PageInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload file: %w", err)
	}
	return decodePayload(data)
}

// decodePayload accepts a single page, an array of pages or {"pages": [...]}
// Pages without a number are numbered by position.
func decodePayload(data []byte) ([]layout.PageInput, error) {
	data = bytes.TrimSpace(data)
	var pages []layout.PageInput

	switch {
	case len(data) == 0:
		return nil, fmt.Errorf("payload is empty")
	case data[0] == '[':
		if err := json.Unmarshal(data, &pages); err != nil {
			return nil, fmt.Errorf("failed to parse payload array: %w", err)
		}
	default:
		var doc struct {
			Pages []layout.PageInput `json:"pages"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse payload: %w", err)
		}
		pages = doc.Pages
		if doc.Pages == nil {
			var page layout.PageInput
			if err := json.Unmarshal(data, &page); err != nil {
				return nil, fmt.Errorf("failed to parse payload page: %w", err)
			}
			pages = []layout.PageInput{page}
		}
	}

	for i := range pages {
		if pages[i].PageNumber <= 0 {
			pages[i].PageNumber = i + 1
		}
	}
	return pages, nil
}

func (s source) hocr(path string) ([]layout.PageInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hOCR file: %w", err)
	}
	doc, err := hocr.ParseHOCR(data)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("parsed hOCR", "pages", len(doc.Pages), "system", doc.Metadata["ocr-system"])
	return hocr.PageInputs(doc), nil
}

func (s source) images(ctx context.Context, paths, languages []string, dpi int) ([]layout.PageInput, error) {
	if !tesseract.Enabled {
		return nil, tesseract.ErrOCRNotEnabled
	}
	opts := tesseract.Options{Languages: languages, DPI: dpi}

	pages := make([]layout.PageInput, 0, len(paths))
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %w", path, err)
		}
		fmt.Printf("Recognizing page %d: %s\n", i+1, path)
		page, err := tesseract.Recognize(ctx, data, i+1, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to recognize %s: %w", path, err)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func (s source) pdf(ctx context.Context, path string, cfg *gdocai.Config, debugAPIPath string) ([]layout.PageInput, error) {
	pdfBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF file: %w", err)
	}
	fmt.Println("Processing PDF with Document AI:", path)

	pages, doc, err := gdocai.Analyze(ctx, pdfBytes, cfg)
	if err != nil {
		return nil, err
	}

	if debugAPIPath != "" {
		apiJSON, err := gdocai.ToJSON(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to convert API response to JSON: %w", err)
		}
		if err := os.WriteFile(debugAPIPath, []byte(apiJSON), 0644); err != nil {
			return nil, fmt.Errorf("failed to write API response JSON: %w", err)
		}
		fmt.Println("API response JSON saved to:", debugAPIPath)
	}
	return pages, nil
}

func (s source) pdfPages(ctx context.Context, paths []string, cfg *gdocai.Config) ([]layout.PageInput, error) {
	var pageBytes [][]byte
	for i, path := range paths {
		fmt.Printf("Reading page %d: %s\n", i+1, path)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read PDF file %s: %w", path, err)
		}
		pageBytes = append(pageBytes, data)
	}
	if len(pageBytes) == 0 {
		return nil, fmt.Errorf("no valid PDF files found in the provided list")
	}
	fmt.Printf("Processing %d PDF files as separate pages\n", len(pageBytes))
	return gdocai.AnalyzePages(ctx, pageBytes, cfg, s.workers)
}

// splitList splits a comma separated flag value, dropping blanks
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
