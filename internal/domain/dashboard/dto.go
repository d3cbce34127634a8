package dashboard

import "time"

// ========== COMBINED DASHBOARD ==========

// DashboardResponse is the combined payload for the kiosk view
type DashboardResponse struct {
	HasData   bool                  `json:"has_data"`
	Stats     StatsResponse         `json:"stats"`
	Current   *CategoryChart        `json:"current"` // nil when no rows have ever loaded
	Rotation  RotationResponse      `json:"rotation"`
	Weekly    *WeeklySeriesResponse `json:"weekly,omitempty"`
	Deltas    DeltaResponse         `json:"deltas"`
	Freshness FreshnessResponse     `json:"freshness"`
}

// ========== STAT CARDS ==========

// Aggregate holds the global sums of the well-known series
type Aggregate struct {
	Total         float64 `json:"total"`
	Early         float64 `json:"early"`          // Antecipadas
	OnTime        float64 `json:"on_time"`        // Prazo técnico
	Late          float64 `json:"late"`           // Atrasadas
	JustifiedLate float64 `json:"justified_late"` // Atrasadas justificadas
}

// StatsResponse wraps the aggregate with the number of rows it was computed from
type StatsResponse struct {
	Aggregate
	Rows int `json:"rows"`
}

// ========== BAR CHART ==========

// ChartDatum is one bar of a collaborator chart
type ChartDatum struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CategoryChart is the bar chart for a single collaborator row
type CategoryChart struct {
	Category   string       `json:"category"`
	RunID      string       `json:"run_id"`
	CapturedAt time.Time    `json:"captured_at"`
	Data       []ChartDatum `json:"data"`
}

// ========== ROTATION ==========

// RotationResponse reports the rotating cursor and its progress bar
type RotationResponse struct {
	Index      int    `json:"index"`
	Count      int    `json:"count"`
	Category   string `json:"category,omitempty"`
	Progress   int    `json:"progress"`    // 0..100
	IntervalMs int64  `json:"interval_ms"` // rotation period
}

// ========== WEEKLY HISTORY ==========

// WeeklyPoint is one week of the trend lines for a collaborator
type WeeklyPoint struct {
	Time          string  `json:"time"`  // Format: "YYYY-MM-DD"
	Label         string  `json:"label"` // Format: "DD/MM"
	Early         float64 `json:"early"`
	OnTime        float64 `json:"on_time"`
	JustifiedLate float64 `json:"justified_late"`
	Late          float64 `json:"late"`
}

// WeeklySeriesResponse is the trend data for one collaborator
type WeeklySeriesResponse struct {
	Category string        `json:"category"`
	Points   []WeeklyPoint `json:"points"`
}

// ========== COLLABORATOR TREND ==========

// TrendPoint is one hourly slot of the collaborator trend view
type TrendPoint struct {
	Time   string  `json:"time"` // Format: "HH:00"
	OnTime float64 `json:"on_time"`
	Late   float64 `json:"late"`
	Early  float64 `json:"early"`
}

// TrendResponse is the hourly trend built from the latest row of a
// collaborator, or of all collaborators when Category is empty
type TrendResponse struct {
	Category   string       `json:"category,omitempty"`
	HasData    bool         `json:"has_data"`
	RunID      string       `json:"run_id,omitempty"`
	CapturedAt *time.Time   `json:"captured_at,omitempty"`
	Points     []TrendPoint `json:"points"`
}

// ========== DELTAS ==========

// Delta is a period-over-period percentage change
type Delta struct {
	Percent    float64 `json:"percent"`
	IsPositive bool    `json:"is_positive"`
}

// DeltaStat is one stat card comparing the two most recent weeks
type DeltaStat struct {
	Title         string  `json:"title"`
	Series        string  `json:"series,omitempty"` // empty for Total
	CurrentValue  float64 `json:"current_value"`
	PreviousValue float64 `json:"previous_value"`
	PercentDelta  float64 `json:"percent_delta"`
	IsPositive    bool    `json:"is_positive"`
}

// DeltaResponse holds the week-over-week cards, globally or for one category
type DeltaResponse struct {
	Category     string      `json:"category,omitempty"`
	CurrentWeek  string      `json:"current_week,omitempty"`  // Format: "YYYY-MM-DD"
	PreviousWeek string      `json:"previous_week,omitempty"` // Format: "YYYY-MM-DD"
	Cards        []DeltaStat `json:"cards"`
}

// ========== FRESHNESS ==========

// FreshnessResponse tells the display how old its data is
type FreshnessResponse struct {
	RowsLoaded       bool       `json:"rows_loaded"`
	RowsUpdatedAt    *time.Time `json:"rows_updated_at,omitempty"`
	HistoryLoaded    bool       `json:"history_loaded"`
	HistoryUpdatedAt *time.Time `json:"history_updated_at,omitempty"`
}
