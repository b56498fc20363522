package worker

import (
	"sync"
	"time"
)

// HourlyWindow counts hits inside a sliding one-hour window. Each adapter
// owns one; when the window is saturated the adapter stops fetching for the
// remainder of the hour instead of issuing more requests.
type HourlyWindow struct {
	mu    sync.Mutex
	limit int
	hits  []time.Time
	now   func() time.Time // injectable for tests
}

// NewHourlyWindow creates a window allowing at most limit hits per hour.
// A non-positive limit means unlimited.
func NewHourlyWindow(limit int) *HourlyWindow {
	return &HourlyWindow{
		limit: limit,
		now:   time.Now,
	}
}

// Hit records one request attempt. It returns false when the window is
// already saturated, in which case the attempt was not recorded.
func (w *HourlyWindow) Hit() bool {
	if w.limit <= 0 {
		return true
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.prune()
	if len(w.hits) >= w.limit {
		return false
	}

	w.hits = append(w.hits, w.now())
	return true
}

// Remaining reports how many hits are left in the current window.
func (w *HourlyWindow) Remaining() int {
	if w.limit <= 0 {
		return int(^uint(0) >> 1)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.prune()
	return w.limit - len(w.hits)
}

// prune drops hits older than one hour. Callers hold the lock.
func (w *HourlyWindow) prune() {
	cutoff := w.now().Add(-time.Hour)
	kept := w.hits[:0]
	for _, t := range w.hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	w.hits = kept
}
