package aggregator

import (
	"github.com/amcontabilidade/punctuality-board/internal/domain/dashboard"
	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
)

// BuildWeeklySeriesForCategory builds one trend point per weekly item that
// carries category. Items without the category are skipped, not zero-filled.
// Input order is preserved.
func BuildWeeklySeriesForCategory(category string, items []punctuality.WeeklyHistoryItem) []dashboard.WeeklyPoint {
	out := make([]dashboard.WeeklyPoint, 0, len(items))
	for _, item := range items {
		m, ok := item.Payload.Metrics(category)
		if !ok {
			continue
		}
		out = append(out, dashboard.WeeklyPoint{
			Time:          item.ReferenceDate.String(),
			Label:         item.ReferenceDate.Format("02/01"),
			Early:         m.Get(punctuality.SeriesEarly),
			OnTime:        m.Get(punctuality.SeriesOnTime),
			JustifiedLate: m.Get(punctuality.SeriesJustifiedLate),
			Late:          m.Get(punctuality.SeriesLate),
		})
	}
	return out
}
