package dashboard

import (
	"context"

	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
)

// DashboardService defines the read operations behind the kiosk views
type DashboardService interface {
	// GetDashboard returns the combined view built from the last good snapshot
	GetDashboard(ctx context.Context) (*DashboardResponse, error)

	// GetStats returns the global well-known series sums
	GetStats(ctx context.Context) (*StatsResponse, error)

	// GetCollaborators returns the distinct categories of the loaded rows
	GetCollaborators(ctx context.Context) ([]string, error)

	// GetRotation returns the rotating cursor and its progress
	GetRotation(ctx context.Context) (*RotationResponse, error)

	// GetCategoryChart returns the bar chart of the latest row for a category
	GetCategoryChart(ctx context.Context, category string) (*CategoryChart, error)

	// GetWeeklySeries returns the trend lines for a category
	GetWeeklySeries(ctx context.Context, category string) (*WeeklySeriesResponse, error)

	// GetTrend returns the hourly trend of the latest row, across all rows when category is empty
	GetTrend(ctx context.Context, category string) (*TrendResponse, error)

	// GetDeltas returns week-over-week cards, for all categories when category is empty
	GetDeltas(ctx context.Context, category string) (*DeltaResponse, error)

	// ListLatestRows reads the rows straight from the store
	ListLatestRows(ctx context.Context) ([]punctuality.SnapshotRow, error)

	// ListWeeklyHistory reads the weekly history straight from the store
	ListWeeklyHistory(ctx context.Context) ([]punctuality.WeeklyHistoryItem, error)
}
