// Package server exposes the layout engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gardar/ocrlayout/internal/cache"
	"github.com/gardar/ocrlayout/pkg/layout"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured
const DefaultMaxBodyBytes = 32 << 20

// Handler serves reconstruction requests
type Handler struct {
	engine  *layout.Engine
	cache   cache.Cache
	logger  *slog.Logger
	maxBody int64
}

// NewHandler creates a Handler; a nil cache disables caching
func NewHandler(engine *layout.Engine, c cache.Cache, logger *slog.Logger, maxBody int64) *Handler {
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Handler{engine: engine, cache: c, logger: logger, maxBody: maxBody}
}

// DocumentRequest is the body of POST /v1/documents
type DocumentRequest struct {
	Pages []layout.PageInput `json:"pages"`
}

// DocumentResponse is the reply of POST /v1/documents
type DocumentResponse struct {
	Pages []*layout.PageResult `json:"pages"`
}

// Page reconstructs a single page
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	engine, err := h.engineFor(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var in layout.PageInput
	if err := h.decode(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	results, err := h.process(r.Context(), engine, []layout.PageInput{in})
	if err != nil {
		h.logger.Error("page reconstruction failed", "page", in.PageNumber, "err", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, results[0])
}

// Document reconstructs every page of a document, preserving page order
func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	engine, err := h.engineFor(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var req DocumentRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Pages) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("document has no pages"))
		return
	}

	results, err := h.process(r.Context(), engine, req.Pages)
	if err != nil {
		h.logger.Error("document reconstruction failed", "pages", len(req.Pages), "err", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentResponse{Pages: results})
}

// Health reports liveness, and cache reachability when the cache can be pinged
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.cache.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// process answers cached pages from the cache and reconstructs the rest
func (h *Handler) process(ctx context.Context, engine *layout.Engine, pages []layout.PageInput) ([]*layout.PageResult, error) {
	cfg := engine.Config()
	results := make([]*layout.PageResult, len(pages))
	keys := make([]string, len(pages))

	var missing []layout.PageInput
	var positions []int
	for i, in := range pages {
		key, err := cache.Key(in, cfg)
		if err != nil {
			return nil, err
		}
		keys[i] = key

		cached, err := h.cache.Get(ctx, key)
		switch {
		case err == nil:
			results[i] = cached
			continue
		case !errors.Is(err, cache.ErrMiss):
			h.logger.Warn("cache lookup failed", "page", in.PageNumber, "err", err)
		}
		missing = append(missing, in)
		positions = append(positions, i)
	}

	if len(missing) == 0 {
		return results, nil
	}

	fresh, err := engine.ProcessDocument(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, result := range fresh {
		i := positions[j]
		results[i] = result
		if result.Cancelled {
			continue
		}
		if err := h.cache.Set(ctx, keys[i], result); err != nil {
			h.logger.Warn("cache store failed", "page", result.PageNumber, "err", err)
		}
	}
	return results, nil
}

// engineFor applies per-request threshold overrides from the query string
func (h *Handler) engineFor(q url.Values) (*layout.Engine, error) {
	cfg := h.engine.Config()
	changed := false

	floats := map[string]*float64{
		"line_tolerance":   &cfg.LineTolerance,
		"paragraph_gap":    &cfg.ParagraphGapMultiplier,
		"column_tolerance": &cfg.ColumnTolerance,
	}
	for name, field := range floats {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", name, raw, err)
		}
		*field = v
		changed = true
	}

	if raw := q.Get("header_max_chars"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid header_max_chars %q: %w", raw, err)
		}
		cfg.HeaderMaxChars = v
		changed = true
	}
	if raw := q.Get("heuristic_tables"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid heuristic_tables %q: %w", raw, err)
		}
		cfg.HeuristicTables = v
		changed = true
	}

	if !changed {
		return h.engine, nil
	}
	return h.engine.WithConfig(cfg)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode request: %w", err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
