package rotation

import (
	"context"
	"time"

	"github.com/amcontabilidade/punctuality-board/internal/pkg/cron"
)

// Event names passed to the notifier.
const (
	EventRotation = "rotation"
	EventProgress = "progress"
)

// Jobs drives a Rotator from the scheduler: one job advances the cursor, the
// other refreshes progress on a short tick.
type Jobs struct {
	rotator *Rotator
	count   func() int
	notify  func(event string, st State)
}

// NewJobs wires a rotator to the row counter it cycles over. notify may be nil.
func NewJobs(rotator *Rotator, count func() int, notify func(event string, st State)) *Jobs {
	if notify == nil {
		notify = func(string, State) {}
	}
	return &Jobs{rotator: rotator, count: count, notify: notify}
}

func (j *Jobs) RegisterJobs(scheduler *cron.Scheduler, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultTick
	}
	scheduler.AddJob("rotate_category", j.rotator.Interval(), j.Rotate, cron.SkipInitialRun())
	scheduler.AddJob("rotation_progress", tick, j.Progress, cron.SkipInitialRun(), cron.Quiet())
}

// Rotate advances the cursor and always notifies, so displays resynchronize
// even when a single row keeps the cursor in place.
func (j *Jobs) Rotate(ctx context.Context) error {
	st, _ := j.rotator.Advance(j.count())
	j.notify(EventRotation, st)
	return nil
}

// Progress recomputes the progress value and notifies only when it moved.
func (j *Jobs) Progress(ctx context.Context) error {
	before := j.rotator.State().Progress
	st := j.rotator.Tick()
	if st.Progress != before {
		j.notify(EventProgress, st)
	}
	return nil
}
