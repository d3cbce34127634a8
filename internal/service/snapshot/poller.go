package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
	"github.com/amcontabilidade/punctuality-board/internal/pkg/cron"
	"github.com/amcontabilidade/punctuality-board/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Refresh sources, also used as metric labels and singleflight keys.
const (
	SourceRows    = "rows"
	SourceHistory = "weekly_history"
)

// Default poll periods.
const (
	DefaultRowsInterval    = 30 * time.Second
	DefaultHistoryInterval = 15 * time.Minute
)

// Option configures a Poller.
type Option func(*Poller)

// WithMetrics records refresh outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Poller) { p.metrics = m }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) { p.now = now }
}

// OnRowsUpdated registers a callback run after new rows are applied.
func OnRowsUpdated(fn func(rows []punctuality.SnapshotRow)) Option {
	return func(p *Poller) { p.onRows = append(p.onRows, fn) }
}

// OnHistoryUpdated registers a callback run after new weekly items are applied.
func OnHistoryUpdated(fn func(items []punctuality.WeeklyHistoryItem)) Option {
	return func(p *Poller) { p.onHistory = append(p.onHistory, fn) }
}

// Poller refreshes a Cache from a RowStore. Concurrent refreshes of the same
// source share one fetch; results that resolve after Close are dropped.
type Poller struct {
	store   punctuality.RowStore
	cache   *Cache
	metrics *metrics.Metrics
	now     func() time.Time

	group singleflight.Group

	// mu guards closed and orders cache writes against Close.
	mu     sync.Mutex
	closed bool

	onRows    []func([]punctuality.SnapshotRow)
	onHistory []func([]punctuality.WeeklyHistoryItem)
}

func NewPoller(store punctuality.RowStore, cache *Cache, opts ...Option) *Poller {
	p := &Poller{
		store: store,
		cache: cache,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RefreshRows fetches the latest rows and replaces the cached ones. On error
// the cache is left untouched and the error is returned for logging.
func (p *Poller) RefreshRows(ctx context.Context) error {
	_, err, _ := p.group.Do(SourceRows, func() (interface{}, error) {
		start := p.now()
		rows, err := p.store.FetchLatestRows(ctx)
		if err != nil {
			p.metrics.ObserveRefresh(SourceRows, metrics.OutcomeError, p.now().Sub(start), start)
			return nil, fmt.Errorf("fetch latest rows: %w", err)
		}
		at := p.now()
		if !p.apply(func() { p.cache.SetRows(rows, at) }) {
			p.metrics.ObserveRefresh(SourceRows, metrics.OutcomeDiscarded, p.now().Sub(start), start)
			return nil, nil
		}
		p.metrics.ObserveRefresh(SourceRows, metrics.OutcomeSuccess, at.Sub(start), at)
		if p.metrics != nil {
			p.metrics.RowsLoaded.Set(float64(len(rows)))
		}
		slog.Debug("Snapshot rows refreshed", "rows", len(rows), "duration", at.Sub(start))

		applied, _ := p.cache.Rows()
		for _, fn := range p.onRows {
			fn(applied)
		}
		return nil, nil
	})
	return err
}

// RefreshHistory fetches the weekly history and replaces the cached items.
func (p *Poller) RefreshHistory(ctx context.Context) error {
	_, err, _ := p.group.Do(SourceHistory, func() (interface{}, error) {
		start := p.now()
		items, err := p.store.FetchWeeklyHistory(ctx)
		if err != nil {
			p.metrics.ObserveRefresh(SourceHistory, metrics.OutcomeError, p.now().Sub(start), start)
			return nil, fmt.Errorf("fetch weekly history: %w", err)
		}
		at := p.now()
		if !p.apply(func() { p.cache.SetHistory(items, at) }) {
			p.metrics.ObserveRefresh(SourceHistory, metrics.OutcomeDiscarded, p.now().Sub(start), start)
			return nil, nil
		}
		p.metrics.ObserveRefresh(SourceHistory, metrics.OutcomeSuccess, at.Sub(start), at)
		if p.metrics != nil {
			p.metrics.HistoryLoaded.Set(float64(len(items)))
		}
		slog.Debug("Weekly history refreshed", "items", len(items), "duration", at.Sub(start))

		applied, _ := p.cache.History()
		for _, fn := range p.onHistory {
			fn(applied)
		}
		return nil, nil
	})
	return err
}

// RefreshAll refreshes both sources concurrently. A failure of one source
// does not prevent the other from being applied.
func (p *Poller) RefreshAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return p.RefreshRows(ctx) })
	g.Go(func() error { return p.RefreshHistory(ctx) })
	return g.Wait()
}

// RegisterJobs schedules both polls. The first run happens one interval after
// Start; call RefreshAll beforehand for an initial load.
func (p *Poller) RegisterJobs(scheduler *cron.Scheduler, rowsEvery, historyEvery time.Duration) {
	if rowsEvery <= 0 {
		rowsEvery = DefaultRowsInterval
	}
	if historyEvery <= 0 {
		historyEvery = DefaultHistoryInterval
	}
	scheduler.AddJob("refresh_snapshot_rows", rowsEvery, p.RefreshRows, cron.SkipInitialRun())
	scheduler.AddJob("refresh_weekly_history", historyEvery, p.RefreshHistory, cron.SkipInitialRun())
}

// Close stops applying results. Fetches still in flight are discarded when
// they resolve.
func (p *Poller) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// apply runs set unless the poller is closed. Once Close returns no further
// result reaches the cache.
func (p *Poller) apply(set func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	set()
	return true
}
