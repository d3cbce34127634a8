package http

import (
	"log/slog"
	"net/http"

	"github.com/amcontabilidade/punctuality-board/internal/domain/dashboard"
	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
	"github.com/amcontabilidade/punctuality-board/internal/handler/http/response"
)

// RowsHandler serves the raw read endpoints. Their bodies are unwrapped so
// other instances can poll them as a row store.
type RowsHandler interface {
	// ListRows returns every snapshot row, newest first
	ListRows(w http.ResponseWriter, r *http.Request)
	// ListWeeklyHistory returns the weekly history, oldest first
	ListWeeklyHistory(w http.ResponseWriter, r *http.Request)
}

type rowsHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewRowsHandler(dashboardService dashboard.DashboardService) RowsHandler {
	return &rowsHandlerImpl{dashboardService: dashboardService}
}

type errorPayload struct {
	Error string `json:"error"`
}

// ListRows handles GET /api/divcolabbrows
func (h *rowsHandlerImpl) ListRows(w http.ResponseWriter, r *http.Request) {
	rows, err := h.dashboardService.ListLatestRows(r.Context())
	if err != nil {
		slog.Error("Failed to fetch rows", "error", err)
		response.JSON(w, http.StatusInternalServerError, errorPayload{Error: "failed_to_fetch_rows"})
		return
	}
	if rows == nil {
		rows = []punctuality.SnapshotRow{}
	}

	response.JSON(w, http.StatusOK, struct {
		Rows []punctuality.SnapshotRow `json:"rows"`
	}{Rows: rows})
}

// ListWeeklyHistory handles GET /api/weekly-history
func (h *rowsHandlerImpl) ListWeeklyHistory(w http.ResponseWriter, r *http.Request) {
	items, err := h.dashboardService.ListWeeklyHistory(r.Context())
	if err != nil {
		slog.Error("Failed to fetch weekly history", "error", err)
		response.JSON(w, http.StatusInternalServerError, errorPayload{Error: "failed_to_fetch_weekly_history"})
		return
	}
	if items == nil {
		items = []punctuality.WeeklyHistoryItem{}
	}

	response.JSON(w, http.StatusOK, struct {
		Items []punctuality.WeeklyHistoryItem `json:"items"`
	}{Items: items})
}
