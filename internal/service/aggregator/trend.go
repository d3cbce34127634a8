package aggregator

import (
	"fmt"

	"github.com/amcontabilidade/punctuality-board/internal/domain/dashboard"
	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
)

// Hourly slots of the collaborator trend view: 07:00 through 18:00.
const (
	TrendFirstHour = 7
	TrendHours     = 12
)

// LatestRow returns the most recently captured row of rows. Ties keep the
// first one seen.
func LatestRow(rows []punctuality.SnapshotRow) (punctuality.SnapshotRow, bool) {
	var (
		latest punctuality.SnapshotRow
		found  bool
	)
	for _, row := range rows {
		if !found || row.CapturedAt.After(latest.CapturedAt) {
			latest = row
			found = true
		}
	}
	return latest, found
}

// BuildCollaboratorTrend spreads the on-time, late and early values of the
// latest row across the hourly slots. An empty category considers every row.
// Without a matching row every slot is zero.
func BuildCollaboratorTrend(rows []punctuality.SnapshotRow, category string) dashboard.TrendResponse {
	var (
		latest punctuality.SnapshotRow
		found  bool
	)
	if category == "" {
		latest, found = LatestRow(rows)
	} else {
		latest, found = LatestRowFor(rows, category)
	}

	var base dashboard.TrendPoint
	resp := dashboard.TrendResponse{Category: category, HasData: found}
	if found {
		m := latest.Metrics()
		base.OnTime = m.Get(punctuality.SeriesOnTime)
		base.Late = m.Get(punctuality.SeriesLate)
		base.Early = m.Get(punctuality.SeriesEarly)

		capturedAt := latest.CapturedAt
		resp.RunID = latest.RunID
		resp.CapturedAt = &capturedAt
	}

	resp.Points = make([]dashboard.TrendPoint, TrendHours)
	for i := range resp.Points {
		p := base
		p.Time = fmt.Sprintf("%02d:00", TrendFirstHour+i)
		resp.Points[i] = p
	}
	return resp
}
