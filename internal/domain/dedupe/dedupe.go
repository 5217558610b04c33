// Package dedupe tracks which inputs were already consumed so a batch never
// imports the same source twice.
package dedupe

import (
	"context"
	"path/filepath"
	"sync"
)

// Deduper records seen keys.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen.
	SeenAndRecord(ctx context.Context, key string) bool

	Size() int64
}

type inMemoryDeduper struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	keyFn func(string) string
}

// NewInMemoryDeduper creates an in-memory deduper. Keys are never forgotten.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		seen:  make(map[string]struct{}),
		keyFn: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewPathDeduper creates a deduper keyed by PathKey.
func NewPathDeduper(opts ...Option) Deduper {
	return NewInMemoryDeduper(append([]Option{WithKeyFunc(PathKey)}, opts...)...)
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	key = d.keyFn(key)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}

// PathKey resolves path to a cleaned absolute path with symlinks followed,
// falling back to the plain absolute path when the file cannot be resolved.
func PathKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
