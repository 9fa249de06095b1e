// Package cache stores reconstructed pages keyed by their input and thresholds.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gardar/ocrlayout/pkg/layout"
)

// ErrMiss is returned by Get when no result is stored under the key
var ErrMiss = errors.New("cache miss")

// keyPrefix namespaces page results in a shared store
const keyPrefix = "ocrlayout:page:"

// Cache stores page results
type Cache interface {
	Get(ctx context.Context, key string) (*layout.PageResult, error)
	Set(ctx context.Context, key string, result *layout.PageResult) error
}

// Key derives the cache key of a page: a SHA-256 over the JSON encoding of
// the input and the thresholds it is reconstructed with
func Key(in layout.PageInput, cfg layout.Config) (string, error) {
	data, err := json.Marshal(struct {
		Input  layout.PageInput `json:"input"`
		Config layout.Config    `json:"config"`
	}{in, cfg})
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}
	sum := sha256.Sum256(data)
	return keyPrefix + hex.EncodeToString(sum[:]), nil
}

// Nop never stores anything
type Nop struct{}

func (Nop) Get(context.Context, string) (*layout.PageResult, error) { return nil, ErrMiss }

func (Nop) Set(context.Context, string, *layout.PageResult) error { return nil }

// Memory keeps results in process memory without eviction
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory creates an empty in-memory cache
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

// Get returns a copy of the stored result
func (m *Memory) Get(_ context.Context, key string) (*layout.PageResult, error) {
	m.mu.RLock()
	data, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	return decode(data)
}

// Set stores a copy of the result
func (m *Memory) Set(_ context.Context, key string, result *layout.PageResult) error {
	data, err := encode(result)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = data
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored results
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func encode(result *layout.PageResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no result to cache")
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*layout.PageResult, error) {
	var result layout.PageResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode cached result: %w", err)
	}
	return &result, nil
}
