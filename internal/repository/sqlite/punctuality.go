// Package sqlite reads snapshot rows and weekly history from a local SQLite
// file. Array and payload columns hold JSON text.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
)

const schema = `
CREATE TABLE IF NOT EXISTS div_colab_b_rows (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL DEFAULT '',
	captured_at  TEXT NOT NULL,
	category     TEXT NOT NULL DEFAULT '',
	series_names TEXT NOT NULL DEFAULT '[]',
	"values"     TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_div_colab_b_rows_captured_at ON div_colab_b_rows(captured_at);
CREATE TABLE IF NOT EXISTS weekly_history (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	reference_date TEXT NOT NULL,
	payload        TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_weekly_history_reference_date ON weekly_history(reference_date);
`

// timeLayouts are tried in order when reading captured_at.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

type punctualityRepositoryImpl struct {
	db *sql.DB
}

// NewPunctualityRepository creates the tables if needed and returns the store.
func NewPunctualityRepository(ctx context.Context, db *sql.DB) (punctuality.RowStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	return &punctualityRepositoryImpl{db: db}, nil
}

func (r *punctualityRepositoryImpl) FetchLatestRows(ctx context.Context) ([]punctuality.SnapshotRow, error) {
	query := `
		SELECT id, run_id, captured_at, category, series_names, "values"
		FROM div_colab_b_rows
		ORDER BY captured_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot rows: %w", err)
	}
	defer rows.Close()

	result := []punctuality.SnapshotRow{}
	for rows.Next() {
		var (
			id                               int64
			row                              punctuality.SnapshotRow
			capturedAt, namesJSON, valueJSON string
		)
		if err := rows.Scan(&id, &row.RunID, &capturedAt, &row.Category, &namesJSON, &valueJSON); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		row.ID = fmt.Sprintf("%d", id)
		row.CapturedAt = parseTime(capturedAt)
		row.SeriesNames = decodeNames(row.ID, namesJSON)
		row.Values = decodeValues(row.ID, valueJSON)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot rows: %w", err)
	}

	return result, nil
}

func (r *punctualityRepositoryImpl) FetchWeeklyHistory(ctx context.Context) ([]punctuality.WeeklyHistoryItem, error) {
	query := `
		SELECT id, reference_date, payload
		FROM weekly_history
		ORDER BY reference_date ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly history: %w", err)
	}
	defer rows.Close()

	result := []punctuality.WeeklyHistoryItem{}
	for rows.Next() {
		var (
			id               int64
			refDate, payload string
			item             punctuality.WeeklyHistoryItem
		)
		if err := rows.Scan(&id, &refDate, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan weekly history: %w", err)
		}
		item.ID = fmt.Sprintf("%d", id)

		date, err := punctuality.ParseDate(refDate)
		if err != nil {
			slog.Warn("Invalid weekly history reference date", "id", item.ID, "value", refDate)
		}
		item.ReferenceDate = date

		if err := json.Unmarshal([]byte(payload), &item.Payload); err != nil {
			slog.Warn("Invalid weekly history payload", "id", item.ID, "error", err)
			item.Payload = punctuality.WeeklyHistoryPayload{}
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate weekly history: %w", err)
	}

	return result, nil
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	slog.Warn("Invalid captured_at value", "value", s)
	return time.Time{}
}

func decodeNames(id, raw string) []string {
	var names []*string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		slog.Warn("Invalid series_names value", "id", id, "error", err)
		return []string{}
	}
	out := make([]string, len(names))
	for i, n := range names {
		if n != nil {
			out[i] = *n
		}
	}
	return out
}

func decodeValues(id, raw string) []punctuality.Value {
	var values []punctuality.Value
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		slog.Warn("Invalid values value", "id", id, "error", err)
		return []punctuality.Value{}
	}
	if values == nil {
		return []punctuality.Value{}
	}
	return values
}
