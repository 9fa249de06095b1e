// Package layout reconstructs structured documents from positional OCR output.
//
// Recognition engines report a flat, unordered list of words with bounding
// boxes and confidences, and sometimes an independent table-geometry pass.
// This package turns that into reading-order lines, paragraphs, tables and a
// render-agnostic sequence of styled blocks that exporters turn into plain
// text, HTML, hOCR or PDF.
//
// Pipeline, per page:
//
// - IngestWords / IngestTables: provider payload → Word / TableGeometry
// - ClusterLines: words → lines by snapped top edge, ordered left to right
// - SegmentParagraphs: gap-vs-line-height paragraph starts
// - TableDetectionStrategy: geometry-assisted or heuristic table reconstruction
// - ExcludeConsumedLines: lines fully placed in a table leave the text stream
// - BuildBlocks: styled paragraph blocks and table blocks in page order
//
// Every page is processed from an immutable input snapshot into a fresh
// result, so pages can be processed concurrently without locking.
//
// Main Functions:
//
// - Reconstruct: runs the pipeline on one page
// - Engine.ProcessPage / Engine.ProcessDocument: configured, cancellable entry points
// - PlainText: renders blocks for search and preview
package layout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Reconstruct runs the full pipeline on one page
// It never fails: malformed table regions are logged and skipped, and a page
// without text yields an empty block list.
func Reconstruct(in PageInput, cfg Config, logger *slog.Logger) *PageResult {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("page", in.PageNumber)

	// Step 1: normalize provider items
	words := IngestWords(in.Words)
	geoms := IngestTables(in.Tables)

	// Step 2: lines and paragraph starts
	lines := ClusterLines(words, cfg.LineTolerance)
	starts := SegmentParagraphs(lines, cfg.ParagraphGapMultiplier)

	// Step 3: tables
	consumed := make([]bool, len(words))
	var tables []Table
	if strategy := SelectStrategy(geoms, cfg, logger); strategy != nil {
		tables = strategy.Detect(words, lines, consumed)
		logger.Debug("table detection finished", "strategy", strategy.Name(), "tables", len(tables))
	}

	// Step 4: drop lines fully placed in tables
	excluded := ExcludeConsumedLines(lines, consumed)

	// Step 5: blocks
	blocks := BuildBlocks(lines, starts, excluded, tables, cfg)
	if blocks == nil {
		blocks = []Block{}
	}

	result := &PageResult{
		PageNumber:      in.PageNumber,
		Width:           in.Width,
		Height:          in.Height,
		Words:           words,
		Lines:           lines,
		ParagraphStarts: starts,
		Excluded:        excluded,
		Tables:          tables,
		Blocks:          blocks,
		PlainText:       PlainText(blocks),
	}
	result.Stats = computeStats(result, cfg)
	return result
}

// computeStats summarizes a page result
func computeStats(r *PageResult, cfg Config) Stats {
	st := Stats{
		Words:  len(r.Words),
		Lines:  len(r.Lines),
		Tables: len(r.Tables),
	}

	var confSum float64
	for _, w := range r.Words {
		confSum += w.Confidence
		if w.Confidence < cfg.LowConfidence {
			st.LowConfidenceWords++
		}
	}
	if len(r.Words) > 0 {
		st.MeanConfidence = confSum / float64(len(r.Words))
	}

	for _, ex := range r.Excluded {
		if ex {
			st.ExcludedLines++
		}
	}

	for _, t := range r.Tables {
		st.TableCells += len(t.Cells())
	}

	last := -1
	for _, b := range r.Blocks {
		if b.Type == BlockParagraph && b.Paragraph.Paragraph != last {
			st.Paragraphs++
			last = b.Paragraph.Paragraph
		}
	}
	return st
}

// Engine runs the pipeline with a fixed configuration
type Engine struct {
	cfg         Config
	logger      *slog.Logger
	workers     int
	pageTimeout time.Duration
}

// Option customizes an Engine
type Option func(*Engine)

// WithLogger sets the logger used for skipped regions and page progress
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithWorkers bounds the number of pages processed concurrently
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithPageTimeout sets a per-page deadline; zero disables it
func WithPageTimeout(d time.Duration) Option {
	return func(e *Engine) { e.pageTimeout = d }
}

// New creates an Engine after validating the configuration
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:     cfg,
		logger:  slog.New(slog.DiscardHandler),
		workers: 4,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine configuration
func (e *Engine) Config() Config { return e.cfg }

// WithConfig returns a copy of the engine using another configuration
// It is the per-call override for thresholds
func (e *Engine) WithConfig(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clone := *e
	clone.cfg = cfg
	return &clone, nil
}

// ProcessPage reconstructs one page
// A page whose context is already done yields no result and the context error
func (e *Engine) ProcessPage(ctx context.Context, in PageInput) (*PageResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := Reconstruct(in, e.cfg, e.logger)

	// The transform does not block, so a deadline can only be observed
	// once it returns; a late page is dropped as a whole
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ProcessDocument reconstructs pages concurrently, preserving page order
// A page that misses its per-page deadline is reported with Cancelled set and
// no blocks; cancelling ctx aborts the whole call.
func (e *Engine) ProcessDocument(ctx context.Context, pages []PageInput) ([]*PageResult, error) {
	results := make([]*PageResult, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range pages {
		g.Go(func() error {
			pctx := gctx
			if e.pageTimeout > 0 {
				var cancel context.CancelFunc
				pctx, cancel = context.WithTimeout(gctx, e.pageTimeout)
				defer cancel()
			}

			result, err := e.ProcessPage(pctx, pages[i])
			if err != nil {
				if gctx.Err() != nil {
					return fmt.Errorf("failed to process page %d: %w", pages[i].PageNumber, err)
				}
				e.logger.Warn("dropping page after deadline", "page", pages[i].PageNumber, "err", err)
				results[i] = &PageResult{PageNumber: pages[i].PageNumber, Blocks: []Block{}, Cancelled: true}
				return nil
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
