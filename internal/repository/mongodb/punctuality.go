// Package mongodb reads snapshot rows and weekly history from MongoDB
// collections named after the relational tables.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RowsCollection    = "div_colab_b_rows"
	HistoryCollection = "weekly_history"
)

type rowDoc struct {
	ID          interface{}   `bson:"_id"`
	RunID       interface{}   `bson:"runId"`
	CapturedAt  interface{}   `bson:"capturedAt"`
	Category    string        `bson:"category"`
	SeriesNames []interface{} `bson:"seriesNames"`
	Values      []interface{} `bson:"values"`
}

type seriesDoc struct {
	Name string        `bson:"name"`
	Data []interface{} `bson:"data"`
}

type historyDoc struct {
	ID            interface{} `bson:"_id"`
	ReferenceDate interface{} `bson:"reference_date"`
	Payload       struct {
		Categories []interface{} `bson:"categories"`
		Series     []seriesDoc   `bson:"series"`
	} `bson:"payload"`
}

type punctualityRepositoryImpl struct {
	rows    *mongo.Collection
	history *mongo.Collection
}

func NewPunctualityRepository(db *mongo.Database) punctuality.RowStore {
	return &punctualityRepositoryImpl{
		rows:    db.Collection(RowsCollection),
		history: db.Collection(HistoryCollection),
	}
}

func (r *punctualityRepositoryImpl) FetchLatestRows(ctx context.Context) ([]punctuality.SnapshotRow, error) {
	opts := options.Find().SetSort(bson.D{{Key: "capturedAt", Value: -1}})
	cur, err := r.rows.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot rows: %w", err)
	}
	defer cur.Close(ctx)

	result := []punctuality.SnapshotRow{}
	for cur.Next(ctx) {
		var doc rowDoc
		if err := cur.Decode(&doc); err != nil {
			slog.Warn("Skipping undecodable snapshot row", "error", err)
			continue
		}
		row := punctuality.SnapshotRow{
			ID:          idString(doc.ID),
			RunID:       idString(doc.RunID),
			CapturedAt:  toTime(doc.CapturedAt),
			Category:    doc.Category,
			SeriesNames: toStrings(doc.SeriesNames),
			Values:      toValues(doc.Values),
		}
		result = append(result, row)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot rows: %w", err)
	}

	return result, nil
}

func (r *punctualityRepositoryImpl) FetchWeeklyHistory(ctx context.Context) ([]punctuality.WeeklyHistoryItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "reference_date", Value: 1}})
	cur, err := r.history.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly history: %w", err)
	}
	defer cur.Close(ctx)

	result := []punctuality.WeeklyHistoryItem{}
	for cur.Next(ctx) {
		var doc historyDoc
		if err := cur.Decode(&doc); err != nil {
			slog.Warn("Skipping undecodable weekly history item", "error", err)
			continue
		}

		item := punctuality.WeeklyHistoryItem{
			ID:            idString(doc.ID),
			ReferenceDate: punctuality.NewDate(toTime(doc.ReferenceDate)),
			Payload: punctuality.WeeklyHistoryPayload{
				Categories: toStrings(doc.Payload.Categories),
				Series:     make([]punctuality.WeeklySeries, 0, len(doc.Payload.Series)),
			},
		}
		for _, s := range doc.Payload.Series {
			item.Payload.Series = append(item.Payload.Series, punctuality.WeeklySeries{
				Name: s.Name,
				Data: toValues(s.Data),
			})
		}
		result = append(result, item)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate weekly history: %w", err)
	}

	return result, nil
}

func idString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return x.Hex()
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// toTime accepts BSON dates and textual timestamps.
func toTime(v interface{}) time.Time {
	switch x := v.(type) {
	case primitive.DateTime:
		return x.Time().UTC()
	case time.Time:
		return x.UTC()
	case string:
		if d, err := punctuality.ParseDate(x); err == nil && len(x) == len("2006-01-02") {
			return d.Time
		}
		if t, err := time.Parse(time.RFC3339Nano, x); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		if s, ok := v.(string); ok {
			out[i] = s
		}
	}
	return out
}

// toValues converts BSON numbers leniently; anything non-numeric becomes 0.
func toValues(in []interface{}) []punctuality.Value {
	out := make([]punctuality.Value, len(in))
	for i, v := range in {
		switch x := v.(type) {
		case float64:
			out[i] = punctuality.Value(x)
		case int32:
			out[i] = punctuality.Value(x)
		case int64:
			out[i] = punctuality.Value(x)
		case primitive.Decimal128:
			out[i] = punctuality.ParseValue(x.String())
		case string:
			out[i] = punctuality.ParseValue(x)
		}
	}
	return out
}
