// Package rotation cycles the displayed collaborator chart on a fixed interval
// and tracks how far the current interval has elapsed.
package rotation

import (
	"math"
	"sync"
	"time"
)

const (
	DefaultInterval = 30 * time.Second
	DefaultTick     = 250 * time.Millisecond
)

// State is a snapshot of the rotator.
type State struct {
	Index    int
	Count    int
	Progress int // 0..100
	Interval time.Duration
}

// Option configures a Rotator.
type Option func(*Rotator)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Rotator) { r.now = now }
}

// Rotator is a cursor over the loaded rows. The cursor advances once per
// interval; progress is reset exactly when the cursor moves.
type Rotator struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time

	index    int
	count    int
	started  time.Time
	progress int
}

// NewRotator creates a rotator. Non-positive intervals fall back to DefaultInterval.
func NewRotator(interval time.Duration, opts ...Option) *Rotator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	r := &Rotator{
		interval: interval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.started = r.now()
	return r
}

// Interval returns the rotation period.
func (r *Rotator) Interval() time.Duration {
	return r.interval
}

// Advance moves the cursor over n rows: (index+1) mod n, or 0 when n is 0.
func (r *Rotator) Advance(n int) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := 0
	if n > 0 {
		next = (r.index + 1) % n
	}
	r.count = n
	changed := r.moveLocked(next)
	return r.stateLocked(), changed
}

// Sync records a new row count without advancing. A cursor past the end
// wraps back to 0.
func (r *Rotator) Sync(n int) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.count = n
	changed := false
	if r.index >= n && r.index != 0 {
		changed = r.moveLocked(0)
	}
	return r.stateLocked(), changed
}

// Tick recomputes progress as floor(elapsed/interval*100), capped at 100.
// Progress never decreases within an interval.
func (r *Rotator) Tick() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := r.now().Sub(r.started)
	pct := int(math.Floor(float64(elapsed) / float64(r.interval) * 100))
	if pct > 100 {
		pct = 100
	}
	if pct > r.progress {
		r.progress = pct
	}
	return r.stateLocked()
}

// State returns the current state without recomputing progress.
func (r *Rotator) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

// Current resolves the cursor against a row count, guarding stale indexes.
func (r *Rotator) Current(n int) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n == 0 || r.index >= n {
		return 0, n > 0
	}
	return r.index, true
}

func (r *Rotator) moveLocked(next int) bool {
	if next == r.index {
		return false
	}
	r.index = next
	r.started = r.now()
	r.progress = 0
	return true
}

func (r *Rotator) stateLocked() State {
	return State{
		Index:    r.index,
		Count:    r.count,
		Progress: r.progress,
		Interval: r.interval,
	}
}
