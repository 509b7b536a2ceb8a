// Package dedupe defines the interface for transport-level idempotency
// tracking of completion signals.
//
// The cache is a fast path only: redelivered signals it misses are still
// harmless, because the award ledger's unique constraint makes re-evaluation
// a no-op.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Default dedupe configuration constants.
const (
	defaultMaxSize = 50000
)

// Deduper records seen signal IDs to short-circuit redelivered signals.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing it to be retried.
	// Use this when a signal was marked as seen but could not be enqueued.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets the maximum number of IDs to keep in memory.
// If maxSize > 0: bounded mode with FIFO eviction.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}

// inMemoryDeduper implements Deduper with a map plus, in bounded mode, a
// circular buffer of ids in insertion order for FIFO eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string // insertion order; empty in unbounded mode
	head    int      // next slot to overwrite once the ring is full
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}

	// Apply all options
	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.ring = make([]string, 0, d.maxSize)
	}

	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
// Returns true if id was already seen, false if it was newly recorded.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize > 0 {
		if len(d.ring) < d.maxSize {
			d.ring = append(d.ring, id)
		} else {
			// Ring is full; overwrite the oldest entry
			evicted := d.ring[d.head]
			if evicted != "" {
				delete(d.seen, evicted)
				d.size.Add(-1)
			}
			d.ring[d.head] = id
			d.head = (d.head + 1) % d.maxSize
		}
	}

	d.seen[id] = struct{}{}
	d.size.Add(1)
	return false
}

// Unrecord removes an ID from the seen list, allowing it to be retried.
func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; !exists {
		return
	}

	delete(d.seen, id)
	d.size.Add(-1)

	// Blank the ring slot so eviction skips it; scanning is bounded by the
	// ring size and Unrecord is rare (enqueue failures only).
	for i := range d.ring {
		if d.ring[i] == id {
			d.ring[i] = ""
			break
		}
	}
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
