package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterOptions carries the cross-cutting settings of the router
type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// Metrics serves /metrics when set
	Metrics http.Handler
}

func NewRouter(opts RouterOptions, dashboardHandler DashboardHandler, rowsHandler RowsHandler, streamHandler StreamHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Last-Event-ID"},
		MaxAge:         300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		// Read endpoints polled by kiosks and by other instances
		r.Get("/divcolabbrows", rowsHandler.ListRows)
		r.Get("/weekly-history", rowsHandler.ListWeeklyHistory)

		r.Route("/v1/dashboard", func(r chi.Router) {
			r.Get("/", dashboardHandler.GetDashboard)
			r.Get("/stats", dashboardHandler.GetStats)
			r.Get("/collaborators", dashboardHandler.GetCollaborators)
			r.Get("/rotation", dashboardHandler.GetRotation)
			r.Get("/deltas", dashboardHandler.GetDeltas)
			r.Get("/trend", dashboardHandler.GetTrend)
			r.Get("/stream", streamHandler.Stream)

			r.Route("/categories/{category}", func(r chi.Router) {
				r.Get("/chart", dashboardHandler.GetCategoryChart)
				r.Get("/weekly", dashboardHandler.GetWeeklySeries)
			})
		})
	})
	return r
}
