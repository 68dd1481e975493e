// Package dedupe tracks which keys have already been seen.
package dedupe

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
)

// Deduper records seen keys so repeats can be dropped.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	Size() int64
}

// inMemoryDeduper implements Deduper with a map guarded by a mutex.
// Keys pass through normalize before lookup.
type inMemoryDeduper struct {
	mu        sync.Mutex
	seen      map[string]struct{}
	normalize func(string) string
	size      atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		normalize: func(s string) string { return s },
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{})
	return d
}

// SeenAndRecord atomically checks if key was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	k := d.normalize(key)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[k]; exists {
		return true
	}
	d.seen[k] = struct{}{}
	d.size.Add(1)
	return false
}

// Size returns the current number of distinct keys.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

// FoldLabel normalizes a display label: surrounding space trimmed, inner
// runs of whitespace collapsed, case folded.
func FoldLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// KeepFirst returns the indices of the first occurrence of every key, in
// ascending order.
func KeepFirst(ctx context.Context, keys []string, opts ...Option) []int {
	d := NewInMemoryDeduper(opts...)
	keep := make([]int, 0, len(keys))
	for i, k := range keys {
		if !d.SeenAndRecord(ctx, k) {
			keep = append(keep, i)
		}
	}
	return keep
}
