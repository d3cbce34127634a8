// Package aggregator turns snapshot rows and weekly history into display-ready
// aggregates. Every function is pure: same input, same output, no hidden state.
package aggregator

import (
	"github.com/amcontabilidade/punctuality-board/internal/domain/dashboard"
	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
)

// SumByWellKnownSeries sums seriesName across rows. Rows without the series contribute 0.
func SumByWellKnownSeries(rows []punctuality.SnapshotRow, seriesName string) float64 {
	var total float64
	for _, row := range rows {
		total += row.Metrics().Get(seriesName)
	}
	return total
}

// Totals computes the stat card sums over all rows.
func Totals(rows []punctuality.SnapshotRow) dashboard.Aggregate {
	var agg dashboard.Aggregate
	for _, row := range rows {
		m := row.Metrics()
		agg.Early += m.Get(punctuality.SeriesEarly)
		agg.OnTime += m.Get(punctuality.SeriesOnTime)
		agg.Late += m.Get(punctuality.SeriesLate)
		agg.JustifiedLate += m.Get(punctuality.SeriesJustifiedLate)
	}
	agg.Total = agg.JustifiedLate + agg.Late + agg.OnTime + agg.Early
	return agg
}

// Collaborators returns the distinct categories in first-seen order.
func Collaborators(rows []punctuality.SnapshotRow) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.Category]; ok {
			continue
		}
		seen[row.Category] = struct{}{}
		out = append(out, row.Category)
	}
	return out
}

// LatestRowFor returns the most recently captured row for category.
func LatestRowFor(rows []punctuality.SnapshotRow, category string) (punctuality.SnapshotRow, bool) {
	var (
		latest punctuality.SnapshotRow
		found  bool
	)
	for _, row := range rows {
		if row.Category != category {
			continue
		}
		if !found || row.CapturedAt.After(latest.CapturedAt) {
			latest = row
			found = true
		}
	}
	return latest, found
}
