package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amcontabilidade/punctuality-board/internal/domain/dashboard"
	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
	"github.com/amcontabilidade/punctuality-board/internal/pkg/sse"
	"github.com/amcontabilidade/punctuality-board/internal/service/aggregator"
	"github.com/amcontabilidade/punctuality-board/internal/service/rotation"
	"github.com/amcontabilidade/punctuality-board/internal/service/snapshot"
)

// StreamTopic is the hub topic every kiosk subscribes to.
const StreamTopic = "dashboard"

// Stream event names.
const (
	EventSnapshot = "snapshot"
	EventRotation = rotation.EventRotation
	EventProgress = rotation.EventProgress
)

type DashboardServiceImpl struct {
	store   punctuality.RowStore
	cache   *snapshot.Cache
	rotator *rotation.Rotator
	hub     *sse.Hub
	chart   aggregator.ChartOptions
}

// NewDashboardService builds the service. hub may be nil when no stream is served.
func NewDashboardService(
	store punctuality.RowStore,
	cache *snapshot.Cache,
	rotator *rotation.Rotator,
	hub *sse.Hub,
	chart aggregator.ChartOptions,
) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		store:   store,
		cache:   cache,
		rotator: rotator,
		hub:     hub,
		chart:   chart,
	}
}

// GetDashboard returns the combined kiosk view
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	rows, rowsLoaded := s.cache.Rows()
	items, _ := s.cache.History()

	resp := &dashboard.DashboardResponse{
		Stats:     s.stats(rows),
		Rotation:  s.rotation(rows),
		Deltas:    aggregator.WeeklyDeltas(items, ""),
		Freshness: s.freshness(),
	}

	if current, ok := s.currentRow(rows); ok {
		resp.HasData = rowsLoaded
		resp.Current = aggregator.BuildCategoryChart(current, s.chart)
		resp.Weekly = &dashboard.WeeklySeriesResponse{
			Category: current.Category,
			Points:   aggregator.BuildWeeklySeriesForCategory(current.Category, items),
		}
	}

	return resp, nil
}

func (s *DashboardServiceImpl) GetStats(ctx context.Context) (*dashboard.StatsResponse, error) {
	rows, _ := s.cache.Rows()
	stats := s.stats(rows)
	return &stats, nil
}

func (s *DashboardServiceImpl) GetCollaborators(ctx context.Context) ([]string, error) {
	rows, _ := s.cache.Rows()
	return aggregator.Collaborators(rows), nil
}

func (s *DashboardServiceImpl) GetRotation(ctx context.Context) (*dashboard.RotationResponse, error) {
	rows, _ := s.cache.Rows()
	rot := s.rotation(rows)
	return &rot, nil
}

// GetCategoryChart returns the chart of the most recent row captured for category
func (s *DashboardServiceImpl) GetCategoryChart(ctx context.Context, category string) (*dashboard.CategoryChart, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, dashboard.ErrCategoryRequired
	}

	rows, _ := s.cache.Rows()
	row, ok := aggregator.LatestRowFor(rows, category)
	if !ok {
		return nil, dashboard.ErrCategoryNotFound
	}
	return aggregator.BuildCategoryChart(row, s.chart), nil
}

// GetWeeklySeries returns the trend lines for category. Weeks lacking the
// category are skipped, so an unknown category yields no points.
func (s *DashboardServiceImpl) GetWeeklySeries(ctx context.Context, category string) (*dashboard.WeeklySeriesResponse, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, dashboard.ErrCategoryRequired
	}

	items, _ := s.cache.History()
	return &dashboard.WeeklySeriesResponse{
		Category: category,
		Points:   aggregator.BuildWeeklySeriesForCategory(category, items),
	}, nil
}

// GetTrend returns the hourly trend of the latest row, across all rows when
// category is empty. An unknown category yields zeroed slots.
func (s *DashboardServiceImpl) GetTrend(ctx context.Context, category string) (*dashboard.TrendResponse, error) {
	rows, _ := s.cache.Rows()
	trend := aggregator.BuildCollaboratorTrend(rows, strings.TrimSpace(category))
	return &trend, nil
}

func (s *DashboardServiceImpl) GetDeltas(ctx context.Context, category string) (*dashboard.DeltaResponse, error) {
	items, _ := s.cache.History()
	deltas := aggregator.WeeklyDeltas(items, strings.TrimSpace(category))
	return &deltas, nil
}

func (s *DashboardServiceImpl) ListLatestRows(ctx context.Context) ([]punctuality.SnapshotRow, error) {
	rows, err := s.store.FetchLatestRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("list latest rows: %w", err)
	}
	return rows, nil
}

func (s *DashboardServiceImpl) ListWeeklyHistory(ctx context.Context) ([]punctuality.WeeklyHistoryItem, error) {
	items, err := s.store.FetchWeeklyHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("list weekly history: %w", err)
	}
	return items, nil
}

// HandleRowsUpdated keeps the rotator in range of the new rows and pushes a
// fresh snapshot to the stream.
func (s *DashboardServiceImpl) HandleRowsUpdated(rows []punctuality.SnapshotRow) {
	if _, reset := s.rotator.Sync(len(rows)); reset {
		slog.Debug("Rotation cursor reset", "rows", len(rows))
	}
	s.publishSnapshot()
}

// HandleHistoryUpdated pushes a fresh snapshot after the weekly history changed.
func (s *DashboardServiceImpl) HandleHistoryUpdated(items []punctuality.WeeklyHistoryItem) {
	s.publishSnapshot()
}

// HandleRotation publishes rotator events. A rotation carries the newly
// current chart; a progress event only the cursor.
func (s *DashboardServiceImpl) HandleRotation(event string, st rotation.State) {
	if s.hub == nil {
		return
	}

	rows, _ := s.cache.Rows()
	switch event {
	case EventRotation:
		resp, _ := s.GetDashboard(context.Background())
		s.hub.Publish(StreamTopic, sse.Event{Event: EventRotation, Data: resp})
	case EventProgress:
		s.hub.Publish(StreamTopic, sse.Event{Event: EventProgress, Data: s.rotation(rows)})
	}
}

// RowCount is the rotator's counter.
func (s *DashboardServiceImpl) RowCount() int {
	return s.cache.RowCount()
}

func (s *DashboardServiceImpl) publishSnapshot() {
	if s.hub == nil {
		return
	}
	resp, _ := s.GetDashboard(context.Background())
	s.hub.Publish(StreamTopic, sse.Event{Event: EventSnapshot, Data: resp})
}

func (s *DashboardServiceImpl) stats(rows []punctuality.SnapshotRow) dashboard.StatsResponse {
	return dashboard.StatsResponse{
		Aggregate: aggregator.Totals(rows),
		Rows:      len(rows),
	}
}

func (s *DashboardServiceImpl) currentRow(rows []punctuality.SnapshotRow) (punctuality.SnapshotRow, bool) {
	idx, ok := s.rotator.Current(len(rows))
	if !ok {
		return punctuality.SnapshotRow{}, false
	}
	return rows[idx], true
}

func (s *DashboardServiceImpl) rotation(rows []punctuality.SnapshotRow) dashboard.RotationResponse {
	st := s.rotator.State()
	resp := dashboard.RotationResponse{
		Count:      len(rows),
		Progress:   st.Progress,
		IntervalMs: st.Interval.Milliseconds(),
	}
	if idx, ok := s.rotator.Current(len(rows)); ok {
		resp.Index = idx
		resp.Category = rows[idx].Category
	}
	return resp
}

func (s *DashboardServiceImpl) freshness() dashboard.FreshnessResponse {
	f := s.cache.Freshness()
	resp := dashboard.FreshnessResponse{
		RowsLoaded:    f.RowsLoaded,
		HistoryLoaded: f.HistoryLoaded,
	}
	if f.RowsLoaded {
		at := f.RowsAt
		resp.RowsUpdatedAt = &at
	}
	if f.HistoryLoaded {
		at := f.HistoryAt
		resp.HistoryUpdatedAt = &at
	}
	return resp
}

var _ dashboard.DashboardService = (*DashboardServiceImpl)(nil)
