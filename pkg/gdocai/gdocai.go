// Package gdocai feeds Google Document AI output into the layout engine.
//
// Document AI returns tokens with normalized bounding polygons and, for
// processors with table recognition, table regions split into header and body
// rows. This package converts both into layout.PageInput payloads, so a
// scanned PDF can be reconstructed with the geometry-assisted table path.
//
// Key Features:
//
// - Process PDFs with Google Document AI, retrying transient failures
// - Convert tokens to pixel-space words with recognition confidence
// - Convert detected tables to cell geometry with row and column spans
// - Process many single-page PDFs concurrently as one document
//
// Main Functions:
//
// - ProcessDocument: Sends a document to Google Document AI for processing
// - PageInputs: Converts a Document AI response to layout payloads
// - Analyze: Processes a PDF and returns its layout payloads
// - AnalyzePages: Processes single-page PDFs concurrently, preserving page order
// - ToJSON: Dumps API responses for debugging
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR (a form parser adds tables)
// - Authentication via GOOGLE_APPLICATION_CREDENTIALS or credentials_file
package gdocai

import (
	"context"
	"fmt"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"golang.org/x/sync/errgroup"

	"github.com/gardar/ocrlayout/pkg/layout"
)

// processFunc is the Document AI call, replaced in tests
type processFunc func(ctx context.Context, pdfBytes []byte, cfg *Config) (*documentaipb.Document, error)

// Analyze processes a PDF with Document AI and returns one payload per page
// The raw response is returned alongside for debug dumps.
func Analyze(ctx context.Context, pdfBytes []byte, cfg *Config) ([]layout.PageInput, *documentaipb.Document, error) {
	doc, err := ProcessDocument(ctx, pdfBytes, cfg)
	if err != nil {
		return nil, nil, err
	}
	return PageInputs(doc), doc, nil
}

// AnalyzePages processes single-page PDFs as one document
// At most workers requests run at once; page numbers follow the input order.
func AnalyzePages(ctx context.Context, pages [][]byte, cfg *Config, workers int) ([]layout.PageInput, error) {
	return analyzePages(ctx, pages, cfg, workers, ProcessDocument)
}

func analyzePages(ctx context.Context, pages [][]byte, cfg *Config, workers int, process processFunc) ([]layout.PageInput, error) {
	if workers <= 0 {
		workers = 1
	}
	inputs := make([]layout.PageInput, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, pageBytes := range pages {
		g.Go(func() error {
			doc, err := process(gctx, pageBytes, cfg)
			if err != nil {
				return fmt.Errorf("failed to process page %d: %w", i+1, err)
			}
			if len(doc.Pages) != 1 {
				return fmt.Errorf("expected 1 page in result for page %d, got %d", i+1, len(doc.Pages))
			}
			inputs[i] = pageInput(doc.Pages[0], newTextIndex(doc.Text), i+1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}
