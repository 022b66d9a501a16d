package doodle

import (
	"sync"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/metrics"
)

// Feed is a bounded newest-first list of doodle paths. It lives in memory only and starts
// empty on every process start.
type Feed struct {
	mu       sync.Mutex
	entries  []string
	capacity int
}

// NewFeed creates an empty feed holding at most capacity entries.
func NewFeed(capacity int) *Feed {
	if capacity < 1 {
		capacity = 1
	}
	return &Feed{
		entries:  make([]string, 0, capacity),
		capacity: capacity,
	}
}

// Record prepends path, dropping the oldest entry once the feed is full.
func (f *Feed) Record(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.entries) < f.capacity {
		f.entries = append(f.entries, "")
	}
	copy(f.entries[1:], f.entries[:len(f.entries)-1])
	f.entries[0] = path

	metrics.DoodleFeedSize.Set(float64(len(f.entries)))
}

// Snapshot returns a copy of at most limit entries, newest first. It never returns nil.
func (f *Feed) Snapshot(limit int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := min(max(limit, 0), len(f.entries))
	out := make([]string, n)
	copy(out, f.entries[:n])
	return out
}

// Len returns the current number of entries.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
