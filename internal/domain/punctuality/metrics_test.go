package punctuality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_MisalignedArrays(t *testing.T) {
	m := NewMetrics([]string{"Antecipadas", "Atrasadas", "Prazo técnico"}, Values(3, 2))

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 3.0, m.Get(SeriesEarly))
	assert.Equal(t, 2.0, m.Get(SeriesLate))
	assert.Equal(t, 0.0, m.Get(SeriesOnTime))
	assert.True(t, m.Has(SeriesOnTime))
	assert.False(t, m.Has(SeriesJustifiedLate))
	assert.Equal(t, 0.0, m.Get(SeriesJustifiedLate))
}

func TestMetrics_DuplicateNameFirstWins(t *testing.T) {
	m := NewMetrics([]string{"Atrasadas", "Atrasadas"}, Values(1, 9))

	assert.Equal(t, 1.0, m.Get(SeriesLate))
	assert.Equal(t, []Pair{{Name: "Atrasadas", Value: 1}, {Name: "Atrasadas", Value: 9}}, m.Pairs())
}

func TestMetrics_ExtraValuesIgnored(t *testing.T) {
	m := NewMetrics([]string{"Antecipadas"}, Values(1, 2, 3))
	assert.Equal(t, 1, m.Len())
}

func TestWeeklyHistoryPayload_Metrics(t *testing.T) {
	p := WeeklyHistoryPayload{
		Categories: []string{"A", "B"},
		Series: []WeeklySeries{
			{Name: SeriesEarly, Data: Values(10, 20)},
			{Name: SeriesLate, Data: Values(1)},
		},
	}

	m, ok := p.Metrics("B")
	assert.True(t, ok)
	assert.Equal(t, 20.0, m.Get(SeriesEarly))
	assert.Equal(t, 0.0, m.Get(SeriesLate))

	_, ok = p.Metrics("C")
	assert.False(t, ok)

	assert.Equal(t, 30.0, p.SeriesTotal(SeriesEarly))
	assert.Equal(t, 0.0, p.SeriesTotal(SeriesOnTime))
}
