package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/amcontabilidade/punctuality-board/internal/domain/dashboard"
	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
	"github.com/amcontabilidade/punctuality-board/internal/pkg/sse"
	"github.com/amcontabilidade/punctuality-board/internal/service/aggregator"
	"github.com/amcontabilidade/punctuality-board/internal/service/rotation"
	"github.com/amcontabilidade/punctuality-board/internal/service/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	rows  []punctuality.SnapshotRow
	items []punctuality.WeeklyHistoryItem
	err   error
}

func (s *stubStore) FetchLatestRows(ctx context.Context) ([]punctuality.SnapshotRow, error) {
	return s.rows, s.err
}

func (s *stubStore) FetchWeeklyHistory(ctx context.Context) ([]punctuality.WeeklyHistoryItem, error) {
	return s.items, s.err
}

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func testRows() []punctuality.SnapshotRow {
	return []punctuality.SnapshotRow{
		{ID: "2", Category: "Ana", CapturedAt: base.Add(time.Hour),
			SeriesNames: []string{"Atrasadas", "M.E.", "Antecipadas"}, Values: punctuality.Values(1, 9, 4)},
		{ID: "1", Category: "Bruno", CapturedAt: base,
			SeriesNames: []string{"Prazo técnico", "Atrasadas justificadas"}, Values: punctuality.Values(5, 2)},
		{ID: "0", Category: "Ana", CapturedAt: base.Add(-time.Hour),
			SeriesNames: []string{"Atrasadas"}, Values: punctuality.Values(7)},
	}
}

func testHistory() []punctuality.WeeklyHistoryItem {
	week := func(date string, late, early float64) punctuality.WeeklyHistoryItem {
		return punctuality.WeeklyHistoryItem{
			ReferenceDate: punctuality.MustDate(date),
			Payload: punctuality.WeeklyHistoryPayload{
				Categories: []string{"Ana", "Bruno"},
				Series: []punctuality.WeeklySeries{
					{Name: "Atrasadas", Data: punctuality.Values(late, 0)},
					{Name: "Antecipadas", Data: punctuality.Values(early, 1)},
				},
			},
		}
	}
	return []punctuality.WeeklyHistoryItem{week("2025-03-10", 3, 2), week("2025-03-03", 2, 4)}
}

type fixture struct {
	svc     *DashboardServiceImpl
	cache   *snapshot.Cache
	rotator *rotation.Rotator
	hub     *sse.Hub
	now     *time.Time
}

func newFixture(t *testing.T, store punctuality.RowStore) *fixture {
	t.Helper()
	now := base
	cache := snapshot.NewCache()
	rotator := rotation.NewRotator(10*time.Second, rotation.WithClock(func() time.Time { return now }))
	hub := sse.NewHub()
	svc := NewDashboardService(store, cache, rotator, hub, aggregator.ChartOptions{HidePseudoSeries: true})
	return &fixture{svc: svc, cache: cache, rotator: rotator, hub: hub, now: &now}
}

func TestDashboardService_GetDashboard_NoData(t *testing.T) {
	f := newFixture(t, &stubStore{})

	resp, err := f.svc.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.HasData)
	assert.Nil(t, resp.Current)
	assert.Nil(t, resp.Weekly)
	assert.Equal(t, 0.0, resp.Stats.Total)
	assert.False(t, resp.Freshness.RowsLoaded)
	assert.Nil(t, resp.Freshness.RowsUpdatedAt)
	assert.Len(t, resp.Deltas.Cards, 5)
}

func TestDashboardService_GetDashboard_LoadedButEmpty(t *testing.T) {
	f := newFixture(t, &stubStore{})
	f.cache.SetRows(nil, base)

	resp, err := f.svc.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.HasData)
	assert.Nil(t, resp.Current)
	assert.True(t, resp.Freshness.RowsLoaded)
	require.NotNil(t, resp.Freshness.RowsUpdatedAt)
	assert.True(t, resp.Freshness.RowsUpdatedAt.Equal(base))
}

func TestDashboardService_GetDashboard(t *testing.T) {
	f := newFixture(t, &stubStore{})
	f.cache.SetRows(testRows(), base)
	f.cache.SetHistory(testHistory(), base)

	resp, err := f.svc.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.HasData)

	assert.Equal(t, 3, resp.Stats.Rows)
	assert.Equal(t, 8.0, resp.Stats.Late)
	assert.Equal(t, 4.0, resp.Stats.Early)
	assert.Equal(t, 5.0, resp.Stats.OnTime)
	assert.Equal(t, 2.0, resp.Stats.JustifiedLate)
	assert.Equal(t, 19.0, resp.Stats.Total)

	require.NotNil(t, resp.Current)
	assert.Equal(t, "Ana", resp.Current.Category)
	assert.Equal(t, []domain.ChartDatum{{Label: "Atrasadas", Value: 1}, {Label: "Antecipadas", Value: 4}}, resp.Current.Data)

	require.NotNil(t, resp.Weekly)
	assert.Equal(t, "Ana", resp.Weekly.Category)
	require.Len(t, resp.Weekly.Points, 2)
	assert.Equal(t, "2025-03-10", resp.Weekly.Points[0].Time)

	assert.Equal(t, "Ana", resp.Rotation.Category)
	assert.Equal(t, 3, resp.Rotation.Count)
	assert.Equal(t, int64(10000), resp.Rotation.IntervalMs)

	assert.Equal(t, "2025-03-10", resp.Deltas.CurrentWeek)
	assert.Equal(t, "2025-03-03", resp.Deltas.PreviousWeek)
}

func TestDashboardService_GetCategoryChart(t *testing.T) {
	f := newFixture(t, &stubStore{})
	f.cache.SetRows(testRows(), base)

	chart, err := f.svc.GetCategoryChart(context.Background(), " Ana ")
	require.NoError(t, err)
	assert.Equal(t, "Ana", chart.Category)
	assert.Equal(t, []domain.ChartDatum{{Label: "Atrasadas", Value: 1}, {Label: "Antecipadas", Value: 4}}, chart.Data)
	assert.True(t, chart.CapturedAt.Equal(base.Add(time.Hour)))

	_, err = f.svc.GetCategoryChart(context.Background(), "Carla")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	_, err = f.svc.GetCategoryChart(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrCategoryRequired)
}

func TestDashboardService_GetWeeklySeries(t *testing.T) {
	f := newFixture(t, &stubStore{})
	f.cache.SetHistory(testHistory(), base)

	series, err := f.svc.GetWeeklySeries(context.Background(), "Bruno")
	require.NoError(t, err)
	require.Len(t, series.Points, 2)
	assert.Equal(t, 1.0, series.Points[0].Early)

	unknown, err := f.svc.GetWeeklySeries(context.Background(), "Carla")
	require.NoError(t, err)
	assert.Empty(t, unknown.Points)

	_, err = f.svc.GetWeeklySeries(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrCategoryRequired)
}

func TestDashboardService_GetDeltas(t *testing.T) {
	f := newFixture(t, &stubStore{})
	f.cache.SetHistory(testHistory(), base)

	deltas, err := f.svc.GetDeltas(context.Background(), "Ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", deltas.Category)
	require.Len(t, deltas.Cards, 5)

	late := deltas.Cards[3]
	assert.Equal(t, aggregator.CardLate, late.Title)
	assert.Equal(t, 3.0, late.CurrentValue)
	assert.Equal(t, 2.0, late.PreviousValue)
	assert.Equal(t, 50.0, late.PercentDelta)
	assert.True(t, late.IsPositive)
}

func TestDashboardService_GetTrend(t *testing.T) {
	f := newFixture(t, &stubStore{})

	trend, err := f.svc.GetTrend(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, trend.HasData)
	require.Len(t, trend.Points, aggregator.TrendHours)

	f.cache.SetRows(testRows(), base)

	trend, err = f.svc.GetTrend(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, trend.HasData)
	assert.Equal(t, domain.TrendPoint{Time: "07:00", Late: 1, Early: 4}, trend.Points[0])

	trend, err = f.svc.GetTrend(context.Background(), " Bruno ")
	require.NoError(t, err)
	assert.Equal(t, "Bruno", trend.Category)
	assert.Equal(t, domain.TrendPoint{Time: "18:00", OnTime: 5}, trend.Points[aggregator.TrendHours-1])
}

func TestDashboardService_GetCollaborators(t *testing.T) {
	f := newFixture(t, &stubStore{})
	f.cache.SetRows(testRows(), base)

	got, err := f.svc.GetCollaborators(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Bruno"}, got)
}

func TestDashboardService_ListPassThrough(t *testing.T) {
	store := &stubStore{rows: testRows(), items: testHistory()}
	f := newFixture(t, store)

	rows, err := f.svc.ListLatestRows(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	items, err := f.svc.ListWeeklyHistory(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)

	store.err = errors.New("boom")
	_, err = f.svc.ListLatestRows(context.Background())
	assert.Error(t, err)
	_, err = f.svc.ListWeeklyHistory(context.Background())
	assert.Error(t, err)
}

func TestDashboardService_HandleRowsUpdated_ResetsCursorAndPublishes(t *testing.T) {
	f := newFixture(t, &stubStore{})
	events, cleanup := f.hub.Subscribe(StreamTopic)
	defer cleanup()

	rows := testRows()
	f.cache.SetRows(rows, base)
	f.rotator.Advance(len(rows))
	f.rotator.Advance(len(rows))
	require.Equal(t, 2, f.rotator.State().Index)

	shrunk := rows[:1]
	f.cache.SetRows(shrunk, base)
	f.svc.HandleRowsUpdated(shrunk)

	assert.Equal(t, 0, f.rotator.State().Index)
	select {
	case ev := <-events:
		assert.Equal(t, EventSnapshot, ev.Event)
		resp, ok := ev.Data.(*domain.DashboardResponse)
		require.True(t, ok)
		assert.Equal(t, 1, resp.Rotation.Count)
	default:
		t.Fatal("expected a snapshot event")
	}
}

func TestDashboardService_HandleRotation(t *testing.T) {
	f := newFixture(t, &stubStore{})
	f.cache.SetRows(testRows(), base)
	events, cleanup := f.hub.Subscribe(StreamTopic)
	defer cleanup()

	st, _ := f.rotator.Advance(3)
	f.svc.HandleRotation(EventRotation, st)
	*f.now = base.Add(5 * time.Second)
	f.svc.HandleRotation(EventProgress, f.rotator.Tick())

	ev := <-events
	assert.Equal(t, EventRotation, ev.Event)
	resp := ev.Data.(*domain.DashboardResponse)
	assert.Equal(t, "Bruno", resp.Current.Category)

	ev = <-events
	assert.Equal(t, EventProgress, ev.Event)
	rot := ev.Data.(domain.RotationResponse)
	assert.Equal(t, 1, rot.Index)
	assert.Equal(t, 50, rot.Progress)
}
