package punctuality

import (
	"time"
)

// Well-known series names, exactly as the collector writes them.
const (
	SeriesJustifiedLate = "Atrasadas justificadas"
	SeriesLate          = "Atrasadas"
	SeriesOnTime        = "Prazo técnico"
	SeriesEarly         = "Antecipadas"
)

// Pseudo-series carried by some rows that are not punctuality buckets.
const (
	PseudoSeriesME          = "M.E."
	PseudoSeriesMEDaysAhead = "M.E. (dias antes)"
)

// WellKnownSeries lists the aggregated series in display priority order.
var WellKnownSeries = []string{SeriesEarly, SeriesOnTime, SeriesJustifiedLate, SeriesLate}

// SnapshotRow is one captured measurement for a collaborator (category).
// SeriesNames and Values are index-aligned on the wire; use Metrics for lookups.
type SnapshotRow struct {
	ID          string    `json:"id"`
	RunID       string    `json:"runId"`
	CapturedAt  time.Time `json:"capturedAt"`
	Category    string    `json:"category"`
	SeriesNames []string  `json:"seriesNames"`
	Values      []Value   `json:"values"`
}

// Metrics returns the row's series as a name-keyed view.
func (r SnapshotRow) Metrics() Metrics {
	return NewMetrics(r.SeriesNames, r.Values)
}

// WeeklySeries holds one named series, index-aligned with the payload categories.
type WeeklySeries struct {
	Name string  `json:"name"`
	Data []Value `json:"data"`
}

// WeeklyHistoryPayload is one week's values across all categories.
type WeeklyHistoryPayload struct {
	Categories []string       `json:"categories"`
	Series     []WeeklySeries `json:"series"`
}

// CategoryIndex returns the position of category in Categories, or -1.
func (p WeeklyHistoryPayload) CategoryIndex(category string) int {
	for i, c := range p.Categories {
		if c == category {
			return i
		}
	}
	return -1
}

// Metrics returns the series values for one category. ok is false when the
// payload does not carry the category.
func (p WeeklyHistoryPayload) Metrics(category string) (m Metrics, ok bool) {
	idx := p.CategoryIndex(category)
	if idx < 0 {
		return Metrics{}, false
	}

	names := make([]string, len(p.Series))
	values := make([]Value, len(p.Series))
	for i, s := range p.Series {
		names[i] = s.Name
		if idx < len(s.Data) {
			values[i] = s.Data[idx]
		}
	}
	return NewMetrics(names, values), true
}

// SeriesTotal sums every data point of the first series called name.
func (p WeeklyHistoryPayload) SeriesTotal(name string) float64 {
	for _, s := range p.Series {
		if s.Name != name {
			continue
		}
		var total float64
		for _, v := range s.Data {
			total += v.Float()
		}
		return total
	}
	return 0
}

// WeeklyHistoryItem is one week's aggregated payload.
type WeeklyHistoryItem struct {
	ID            string               `json:"id,omitempty"`
	ReferenceDate Date                 `json:"reference_date"`
	Payload       WeeklyHistoryPayload `json:"payload"`
}
