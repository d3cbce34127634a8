package aggregator

import (
	"testing"
	"time"

	"github.com/amcontabilidade/punctuality-board/internal/domain/dashboard"
	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
	"github.com/stretchr/testify/assert"
)

func row(category string, capturedAt time.Time, names []string, values ...float64) punctuality.SnapshotRow {
	return punctuality.SnapshotRow{
		ID:          category + capturedAt.Format(time.RFC3339),
		RunID:       "run-1",
		CapturedAt:  capturedAt,
		Category:    category,
		SeriesNames: names,
		Values:      punctuality.Values(values...),
	}
}

var base = time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

func TestTotals_SingleRow(t *testing.T) {
	rows := []punctuality.SnapshotRow{
		row("A", base, []string{"Antecipadas", "Atrasadas"}, 3, 2),
	}

	agg := Totals(rows)

	assert.Equal(t, dashboard.Aggregate{Total: 5, Early: 3, Late: 2}, agg)
}

func TestSumByWellKnownSeries_LooksUpByName(t *testing.T) {
	rows := []punctuality.SnapshotRow{
		row("A", base, []string{"Atrasadas justificadas", "Atrasadas", "Prazo técnico", "Antecipadas"}, 1, 2, 3, 4),
		row("B", base, []string{"Antecipadas", "Prazo técnico"}, 10, 20),
		row("C", base, []string{"M.E."}, 99),
	}

	assert.Equal(t, 14.0, SumByWellKnownSeries(rows, punctuality.SeriesEarly))
	assert.Equal(t, 23.0, SumByWellKnownSeries(rows, punctuality.SeriesOnTime))
	assert.Equal(t, 2.0, SumByWellKnownSeries(rows, punctuality.SeriesLate))
	assert.Equal(t, 1.0, SumByWellKnownSeries(rows, punctuality.SeriesJustifiedLate))
	assert.Equal(t, 0.0, SumByWellKnownSeries(nil, punctuality.SeriesLate))
}

func TestSumByWellKnownSeries_MisalignedRowDegradesToZero(t *testing.T) {
	rows := []punctuality.SnapshotRow{
		row("A", base, []string{"Antecipadas", "Atrasadas"}, 5),
	}

	assert.Equal(t, 5.0, SumByWellKnownSeries(rows, punctuality.SeriesEarly))
	assert.Equal(t, 0.0, SumByWellKnownSeries(rows, punctuality.SeriesLate))
}

func TestTotals_OrderIndependentAndIdempotent(t *testing.T) {
	rows := []punctuality.SnapshotRow{
		row("A", base, []string{"Antecipadas", "Atrasadas"}, 3, 2),
		row("B", base, []string{"Prazo técnico", "Atrasadas justificadas"}, 7, 1),
		row("C", base, []string{"Atrasadas", "Antecipadas", "Prazo técnico"}, 4, 6, 8),
	}
	reversed := []punctuality.SnapshotRow{rows[2], rows[1], rows[0]}
	rotated := []punctuality.SnapshotRow{rows[1], rows[2], rows[0]}

	want := Totals(rows)
	assert.Equal(t, want, Totals(reversed))
	assert.Equal(t, want, Totals(rotated))
	assert.Equal(t, want, Totals(rows))
	assert.Equal(t, 31.0, want.Total)
}

func TestCollaborators_FirstSeenOrder(t *testing.T) {
	rows := []punctuality.SnapshotRow{
		row("Maria", base, nil),
		row("João", base, nil),
		row("Maria", base.Add(time.Hour), nil),
	}

	assert.Equal(t, []string{"Maria", "João"}, Collaborators(rows))
	assert.Empty(t, Collaborators(nil))
}

func TestLatestRowFor(t *testing.T) {
	older := row("Maria", base, []string{"Atrasadas"}, 1)
	newer := row("Maria", base.Add(time.Hour), []string{"Atrasadas"}, 2)
	rows := []punctuality.SnapshotRow{older, row("João", base.Add(2*time.Hour), nil), newer}

	got, ok := LatestRowFor(rows, "Maria")
	assert.True(t, ok)
	assert.Equal(t, newer, got)

	_, ok = LatestRowFor(rows, "Ana")
	assert.False(t, ok)
}
