package aggregator

import (
	"math"
	"sort"

	"github.com/amcontabilidade/punctuality-board/internal/domain/dashboard"
	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
)

// Card titles in display order; Total has no backing series.
const (
	CardTotal         = "Total"
	CardEarly         = "Antecipados"
	CardOnTime        = "No prazo"
	CardLate          = "Atraso"
	CardJustifiedLate = "Justificado"
)

var deltaCards = []struct {
	title  string
	series string
}{
	{CardEarly, punctuality.SeriesEarly},
	{CardOnTime, punctuality.SeriesOnTime},
	{CardLate, punctuality.SeriesLate},
	{CardJustifiedLate, punctuality.SeriesJustifiedLate},
}

// ComputeDelta returns the percentage change from previous to current,
// rounded to one decimal. A zero previous value yields 0%.
func ComputeDelta(current, previous float64) dashboard.Delta {
	if previous == 0 {
		return dashboard.Delta{Percent: 0, IsPositive: current >= 0}
	}
	percent := round1((current - previous) / previous * 100)
	return dashboard.Delta{Percent: percent, IsPositive: percent >= 0}
}

func round1(f float64) float64 {
	r := math.Round(f*10) / 10
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// LastTwoWeeks returns the most recent and second most recent items by
// reference date. Missing items are nil.
func LastTwoWeeks(items []punctuality.WeeklyHistoryItem) (current, previous *punctuality.WeeklyHistoryItem) {
	sorted := make([]punctuality.WeeklyHistoryItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ReferenceDate.Before(sorted[j].ReferenceDate.Time)
	})

	n := len(sorted)
	if n >= 1 {
		current = &sorted[n-1]
	}
	if n >= 2 {
		previous = &sorted[n-2]
	}
	return current, previous
}

// weekValues reads the well-known series of one week, for a category or summed
// across all categories when category is empty.
func weekValues(item *punctuality.WeeklyHistoryItem, category string) map[string]float64 {
	values := make(map[string]float64, len(punctuality.WellKnownSeries))
	if item == nil {
		return values
	}
	if category == "" {
		for _, name := range punctuality.WellKnownSeries {
			values[name] = item.Payload.SeriesTotal(name)
		}
		return values
	}
	m, _ := item.Payload.Metrics(category)
	for _, name := range punctuality.WellKnownSeries {
		values[name] = m.Get(name)
	}
	return values
}

// WeeklyDeltas compares the two most recent weeks and produces the five stat
// cards (Total first). An empty category compares sums across all categories.
func WeeklyDeltas(items []punctuality.WeeklyHistoryItem, category string) dashboard.DeltaResponse {
	current, previous := LastTwoWeeks(items)
	cur := weekValues(current, category)
	prev := weekValues(previous, category)

	resp := dashboard.DeltaResponse{
		Category: category,
		Cards:    make([]dashboard.DeltaStat, 0, len(deltaCards)+1),
	}
	if current != nil {
		resp.CurrentWeek = current.ReferenceDate.String()
	}
	if previous != nil {
		resp.PreviousWeek = previous.ReferenceDate.String()
	}

	var curTotal, prevTotal float64
	for _, c := range deltaCards {
		curTotal += cur[c.series]
		prevTotal += prev[c.series]
	}
	resp.Cards = append(resp.Cards, deltaStat(CardTotal, "", curTotal, prevTotal))
	for _, c := range deltaCards {
		resp.Cards = append(resp.Cards, deltaStat(c.title, c.series, cur[c.series], prev[c.series]))
	}
	return resp
}

func deltaStat(title, series string, current, previous float64) dashboard.DeltaStat {
	d := ComputeDelta(current, previous)
	return dashboard.DeltaStat{
		Title:         title,
		Series:        series,
		CurrentValue:  current,
		PreviousValue: previous,
		PercentDelta:  d.Percent,
		IsPositive:    d.IsPositive,
	}
}
