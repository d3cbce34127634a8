package rotation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestRotator_WrapsModuloRowCount(t *testing.T) {
	r := NewRotator(30 * time.Second)

	var seen []int
	for i := 0; i < 5; i++ {
		st, _ := r.Advance(3)
		seen = append(seen, st.Index)
	}

	assert.Equal(t, []int{1, 2, 0, 1, 2}, seen)
}

func TestRotator_EmptyRowsStaysAtZero(t *testing.T) {
	r := NewRotator(30 * time.Second)

	for i := 0; i < 3; i++ {
		st, changed := r.Advance(0)
		assert.Equal(t, 0, st.Index)
		assert.False(t, changed)
	}

	idx, ok := r.Current(0)
	assert.Equal(t, 0, idx)
	assert.False(t, ok)
}

func TestRotator_ProgressMonotonicAndCapped(t *testing.T) {
	clock := newFakeClock()
	r := NewRotator(30*time.Second, WithClock(clock.Now))

	last := -1
	for i := 0; i < 160; i++ {
		clock.Advance(250 * time.Millisecond)
		st := r.Tick()
		assert.GreaterOrEqual(t, st.Progress, last)
		last = st.Progress
	}
	assert.Equal(t, 100, last)
}

func TestRotator_ProgressFloor(t *testing.T) {
	clock := newFakeClock()
	r := NewRotator(30*time.Second, WithClock(clock.Now))

	clock.Advance(7499 * time.Millisecond)
	assert.Equal(t, 24, r.Tick().Progress)

	clock.Advance(time.Millisecond)
	assert.Equal(t, 25, r.Tick().Progress)
}

func TestRotator_ProgressResetsOnlyWhenIndexChanges(t *testing.T) {
	clock := newFakeClock()
	r := NewRotator(30*time.Second, WithClock(clock.Now))

	clock.Advance(15 * time.Second)
	require.Equal(t, 50, r.Tick().Progress)

	st, changed := r.Advance(2)
	assert.True(t, changed)
	assert.Equal(t, 1, st.Index)
	assert.Equal(t, 0, st.Progress)
	assert.Equal(t, 0, r.Tick().Progress)

	clock.Advance(30 * time.Second)
	require.Equal(t, 100, r.Tick().Progress)

	st, changed = r.Advance(1)
	assert.True(t, changed, "1 -> 0 is a move")
	assert.Equal(t, 0, st.Progress)

	clock.Advance(30 * time.Second)
	r.Tick()
	// a single row keeps the cursor in place, so progress is not reset
	st, changed = r.Advance(1)
	assert.False(t, changed)
	assert.Equal(t, 100, st.Progress)
}

func TestRotator_SyncWrapsStaleCursor(t *testing.T) {
	r := NewRotator(30 * time.Second)
	r.Advance(5)
	r.Advance(5)
	r.Advance(5)
	require.Equal(t, 3, r.State().Index)

	st, changed := r.Sync(10)
	assert.False(t, changed)
	assert.Equal(t, 3, st.Index)
	assert.Equal(t, 10, st.Count)

	st, changed = r.Sync(2)
	assert.True(t, changed)
	assert.Equal(t, 0, st.Index)
	assert.Equal(t, 0, st.Progress)
}

func TestRotator_CurrentGuardsShrunkRows(t *testing.T) {
	r := NewRotator(30 * time.Second)
	r.Advance(4)
	r.Advance(4)

	idx, ok := r.Current(4)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	idx, ok = r.Current(2)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestNewRotator_DefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, NewRotator(0).Interval())
	assert.Equal(t, DefaultInterval, NewRotator(-time.Second).State().Interval)
}

func TestJobs_NotifyOnRotateAndProgressChange(t *testing.T) {
	clock := newFakeClock()
	r := NewRotator(time.Second, WithClock(clock.Now))

	var events []string
	jobs := NewJobs(r, func() int { return 3 }, func(event string, st State) {
		events = append(events, event)
	})
	ctx := context.Background()

	require.NoError(t, jobs.Progress(ctx))
	assert.Empty(t, events, "no progress yet")

	clock.Advance(500 * time.Millisecond)
	require.NoError(t, jobs.Progress(ctx))
	require.NoError(t, jobs.Progress(ctx))
	assert.Equal(t, []string{EventProgress}, events)

	require.NoError(t, jobs.Rotate(ctx))
	assert.Equal(t, []string{EventProgress, EventRotation}, events)
	assert.Equal(t, 1, r.State().Index)
}
