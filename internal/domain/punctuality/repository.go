package punctuality

import "context"

// RowStore is the read-only source of snapshot rows and weekly history.
type RowStore interface {
	// FetchLatestRows returns the captured rows. Callers must not rely on order.
	FetchLatestRows(ctx context.Context) ([]SnapshotRow, error)

	// FetchWeeklyHistory returns weekly items ordered by reference date ascending.
	FetchWeeklyHistory(ctx context.Context) ([]WeeklyHistoryItem, error)
}
