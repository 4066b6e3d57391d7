package history

import (
	"sync"

	"github.com/dmitrymomot/notifyrelay/pkg/classifier"
)

// DefaultCapacity is the number of notifications retained for backfill.
const DefaultCapacity = 50

// Buffer is a bounded, insertion-ordered, deduplicated store of the most
// recent real notifications. Inserting beyond capacity evicts the oldest
// entry. All methods are safe for concurrent use.
//
// The buffer lives in memory only; contents are lost on restart.
type Buffer struct {
	mu       sync.Mutex
	entries  []string
	seen     map[string]struct{}
	capacity int
}

// New creates an empty buffer. A capacity below 1 is raised to 1.
func New(capacity int) *Buffer {
	return &Buffer{
		seen:     make(map[string]struct{}),
		capacity: max(capacity, 1),
	}
}

// RecordIfNew appends text unless an identical entry is already present.
// Callers are expected to classify text before recording; the buffer itself
// does not reject control messages on insert. When the buffer exceeds its
// capacity the oldest entries are dropped. Reports whether text was recorded.
func (b *Buffer) RecordIfNew(text string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, dup := b.seen[text]; dup {
		return false
	}

	b.entries = append(b.entries, text)
	b.seen[text] = struct{}{}

	for len(b.entries) > b.capacity {
		delete(b.seen, b.entries[0])
		b.entries = b.entries[1:]
	}
	return true
}

// RecentReal returns up to n of the most recent entries that pass the
// classifier, oldest first. Stored entries are already expected to be real;
// the re-filter on read is kept deliberately so a control message can never
// be replayed even if one slips into storage.
func (b *Buffer) RecentReal(n int) []string {
	if n <= 0 {
		return nil
	}

	real := b.AllReal()
	if len(real) > n {
		real = real[len(real)-n:]
	}
	return real
}

// AllReal returns every stored entry that passes the classifier, oldest first.
func (b *Buffer) AllReal() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	real := make([]string, 0, len(b.entries))
	for _, text := range b.entries {
		if classifier.IsRealNotification(text) {
			real = append(real, text)
		}
	}
	return real
}

// Len returns the total number of stored entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// RealCount returns the number of stored entries that pass the classifier.
func (b *Buffer) RealCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := 0
	for _, text := range b.entries {
		if classifier.IsRealNotification(text) {
			count++
		}
	}
	return count
}
