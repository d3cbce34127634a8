package http

import (
	"net/http"

	"github.com/amcontabilidade/punctuality-board/internal/domain/dashboard"
	"github.com/amcontabilidade/punctuality-board/internal/handler/http/response"
	"github.com/amcontabilidade/punctuality-board/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type DashboardHandler interface {
	// GetDashboard returns combined dashboard data
	GetDashboard(w http.ResponseWriter, r *http.Request)
	// GetStats returns the global stat card sums
	GetStats(w http.ResponseWriter, r *http.Request)
	// GetCollaborators returns the categories of the loaded rows
	GetCollaborators(w http.ResponseWriter, r *http.Request)
	// GetRotation returns the rotating cursor
	GetRotation(w http.ResponseWriter, r *http.Request)
	// GetDeltas returns week-over-week cards
	GetDeltas(w http.ResponseWriter, r *http.Request)
	// GetTrend returns the hourly collaborator trend
	GetTrend(w http.ResponseWriter, r *http.Request)
	// GetCategoryChart returns the bar chart of one collaborator
	GetCategoryChart(w http.ResponseWriter, r *http.Request)
	// GetWeeklySeries returns the trend lines of one collaborator
	GetWeeklySeries(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetDashboard handles GET /dashboard
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetStats handles GET /dashboard/stats
func (h *dashboardHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetCollaborators handles GET /dashboard/collaborators
func (h *dashboardHandlerImpl) GetCollaborators(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetCollaborators(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetRotation handles GET /dashboard/rotation
func (h *dashboardHandlerImpl) GetRotation(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetRotation(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDeltas handles GET /dashboard/deltas?category=
func (h *dashboardHandlerImpl) GetDeltas(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category") // empty: all categories
	if err := validator.ValidateCategory("category", category, true); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dashboardService.GetDeltas(r.Context(), category)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetTrend handles GET /dashboard/trend?category=
func (h *dashboardHandlerImpl) GetTrend(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category") // empty: latest row of any collaborator
	if err := validator.ValidateCategory("category", category, true); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dashboardService.GetTrend(r.Context(), category)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetCategoryChart handles GET /dashboard/categories/{category}/chart
func (h *dashboardHandlerImpl) GetCategoryChart(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if err := validator.ValidateCategory("category", category, false); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dashboardService.GetCategoryChart(r.Context(), category)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetWeeklySeries handles GET /dashboard/categories/{category}/weekly
func (h *dashboardHandlerImpl) GetWeeklySeries(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if err := validator.ValidateCategory("category", category, false); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dashboardService.GetWeeklySeries(r.Context(), category)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
