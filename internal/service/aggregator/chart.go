package aggregator

import (
	"sort"

	"github.com/amcontabilidade/punctuality-board/internal/domain/dashboard"
	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
)

// ChartOptions controls the bar chart filter and ordering policy.
type ChartOptions struct {
	// HidePseudoSeries drops the "M.E." and "M.E. (dias antes)" bars.
	HidePseudoSeries bool
	// PriorityOrder puts Antecipadas, Prazo técnico, Atrasadas justificadas and
	// Atrasadas first; the remaining bars keep their original order.
	PriorityOrder bool
}

var seriesPriority = map[string]int{
	punctuality.SeriesEarly:         0,
	punctuality.SeriesOnTime:        1,
	punctuality.SeriesJustifiedLate: 2,
	punctuality.SeriesLate:          3,
}

func priorityOf(label string) int {
	if p, ok := seriesPriority[label]; ok {
		return p
	}
	return len(seriesPriority)
}

func isPseudoSeries(label string) bool {
	return label == punctuality.PseudoSeriesME || label == punctuality.PseudoSeriesMEDaysAhead
}

// BuildCategoryChartData zips a row's series names with its values.
func BuildCategoryChartData(row punctuality.SnapshotRow, opts ChartOptions) []dashboard.ChartDatum {
	pairs := row.Metrics().Pairs()
	data := make([]dashboard.ChartDatum, 0, len(pairs))
	for _, p := range pairs {
		if opts.HidePseudoSeries && isPseudoSeries(p.Name) {
			continue
		}
		data = append(data, dashboard.ChartDatum{Label: p.Name, Value: p.Value})
	}

	if opts.PriorityOrder {
		sort.SliceStable(data, func(i, j int) bool {
			return priorityOf(data[i].Label) < priorityOf(data[j].Label)
		})
	}
	return data
}

// BuildCategoryChart wraps BuildCategoryChartData with the row's identity.
func BuildCategoryChart(row punctuality.SnapshotRow, opts ChartOptions) *dashboard.CategoryChart {
	return &dashboard.CategoryChart{
		Category:   row.Category,
		RunID:      row.RunID,
		CapturedAt: row.CapturedAt,
		Data:       BuildCategoryChartData(row, opts),
	}
}
