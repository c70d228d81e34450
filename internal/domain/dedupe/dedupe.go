// Package dedupe provides idempotency tracking for outcome ingestion.
// Outcomes are logged exactly once per request id; replays are
// acknowledged without being re-persisted.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen request IDs to ensure at-most-once logging.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records it
	// if not. Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen set. Used to roll back a
	// record whose processing failed after the seen check (e.g. queue
	// backpressure), so the client can retry.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of tracked IDs.
	Size() int64
}

const defaultMaxSize = 50000

// inMemoryDeduper is a bounded seen-set with FIFO eviction. When the
// bound is reached the oldest recorded ID is forgotten, which trades a
// sliver of idempotency on very old requests for a hard memory cap.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // FIFO ring of recorded ids
	head    int      // next eviction slot once the ring is full
	maxSize int
}

// NewInMemoryDeduper creates a bounded in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.maxSize)
	d.order = make([]string, 0, d.maxSize)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	if len(d.order) < d.maxSize {
		d.order = append(d.order, id)
	} else {
		// Ring is full: evict the oldest id and reuse its slot.
		evicted := d.order[d.head]
		if evicted != "" {
			delete(d.seen, evicted)
		}
		d.order[d.head] = id
		d.head = (d.head + 1) % d.maxSize
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; !ok {
		return
	}
	delete(d.seen, id)
	// Blank the ring slot; eviction skips blanks.
	for i, v := range d.order {
		if v == id {
			d.order[i] = ""
			break
		}
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
