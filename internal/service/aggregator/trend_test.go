package aggregator

import (
	"math"
	"testing"
	"time"

	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCollaboratorTrend(t *testing.T) {
	names := []string{"Prazo técnico", "Atrasadas", "Antecipadas", "M.E."}
	rows := []punctuality.SnapshotRow{
		row("Ana", base, names, 1, 2, 3, 50),
		row("Ana", base.Add(2*time.Hour), names, 4, 5, 6, 50),
		row("Bruno", base.Add(time.Hour), names, 7, 8, 9, 50),
		row("Carla", base.Add(3*time.Hour), []string{"Antecipadas"}, 11),
	}

	tests := []struct {
		name       string
		rows       []punctuality.SnapshotRow
		category   string
		wantData   bool
		wantOnTime float64
		wantLate   float64
		wantEarly  float64
	}{
		{name: "latest of one collaborator", rows: rows, category: "Ana", wantData: true, wantOnTime: 4, wantLate: 5, wantEarly: 6},
		{name: "other collaborator", rows: rows, category: "Bruno", wantData: true, wantOnTime: 7, wantLate: 8, wantEarly: 9},
		{name: "empty category takes latest overall", rows: rows, category: "", wantData: true, wantEarly: 11},
		{name: "unknown collaborator", rows: rows, category: "Zé"},
		{name: "no rows", rows: nil, category: ""},
		{
			name:     "non-finite values read as zero",
			rows:     []punctuality.SnapshotRow{row("Ana", base, names, math.NaN(), math.Inf(1), 2)},
			category: "Ana", wantData: true, wantEarly: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildCollaboratorTrend(tt.rows, tt.category)

			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.wantData, got.HasData)
			require.Len(t, got.Points, TrendHours)
			assert.Equal(t, "07:00", got.Points[0].Time)
			assert.Equal(t, "18:00", got.Points[TrendHours-1].Time)
			for _, p := range got.Points {
				assert.Equal(t, tt.wantOnTime, p.OnTime, p.Time)
				assert.Equal(t, tt.wantLate, p.Late, p.Time)
				assert.Equal(t, tt.wantEarly, p.Early, p.Time)
			}
			if tt.wantData {
				require.NotNil(t, got.CapturedAt)
			} else {
				assert.Nil(t, got.CapturedAt)
			}
		})
	}
}

func TestLatestRow(t *testing.T) {
	_, ok := LatestRow(nil)
	assert.False(t, ok)

	rows := []punctuality.SnapshotRow{
		row("A", base, nil),
		row("B", base.Add(time.Minute), nil),
		row("C", base.Add(time.Minute), nil),
	}
	got, ok := LatestRow(rows)
	require.True(t, ok)
	assert.Equal(t, "B", got.Category)
}
