package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
	"github.com/amcontabilidade/punctuality-board/internal/pkg/database"
)

type punctualityRepositoryImpl struct {
	db *database.DB
}

func NewPunctualityRepository(db *database.DB) punctuality.RowStore {
	return &punctualityRepositoryImpl{db: db}
}

// FetchLatestRows returns every captured row, newest first
func (r *punctualityRepositoryImpl) FetchLatestRows(ctx context.Context) ([]punctuality.SnapshotRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			id::text,
			COALESCE(run_id::text, ''),
			captured_at,
			COALESCE(category, ''),
			COALESCE(array_replace(series_names, NULL, ''), '{}'),
			COALESCE(array_replace("values", NULL, 0), '{}')::float8[]
		FROM div_colab_b_rows
		ORDER BY captured_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot rows: %w", err)
	}
	defer rows.Close()

	result := []punctuality.SnapshotRow{}
	for rows.Next() {
		var (
			row    punctuality.SnapshotRow
			values []float64
		)
		if err := rows.Scan(&row.ID, &row.RunID, &row.CapturedAt, &row.Category, &row.SeriesNames, &values); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		row.CapturedAt = row.CapturedAt.UTC()
		row.Values = punctuality.Values(values...)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot rows: %w", err)
	}

	return result, nil
}

// FetchWeeklyHistory returns the weekly payloads ordered by reference date
func (r *punctualityRepositoryImpl) FetchWeeklyHistory(ctx context.Context) ([]punctuality.WeeklyHistoryItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id::text, reference_date, payload
		FROM weekly_history
		ORDER BY reference_date ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly history: %w", err)
	}
	defer rows.Close()

	result := []punctuality.WeeklyHistoryItem{}
	for rows.Next() {
		var (
			item    punctuality.WeeklyHistoryItem
			refDate time.Time
			payload []byte
		)
		if err := rows.Scan(&item.ID, &refDate, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan weekly history: %w", err)
		}
		item.ReferenceDate = punctuality.NewDate(refDate)
		item.Payload = decodePayload(item.ID, payload)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate weekly history: %w", err)
	}

	return result, nil
}

// decodePayload parses a stored payload. A broken document degrades to an
// empty payload so the week still shows up with zero values.
func decodePayload(id string, raw []byte) punctuality.WeeklyHistoryPayload {
	var payload punctuality.WeeklyHistoryPayload
	if len(raw) == 0 {
		return payload
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		slog.Warn("Invalid weekly history payload", "id", id, "error", err)
		return punctuality.WeeklyHistoryPayload{}
	}
	return payload
}
