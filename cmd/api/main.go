package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amcontabilidade/punctuality-board/internal/config"
	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
	appHTTP "github.com/amcontabilidade/punctuality-board/internal/handler/http"
	"github.com/amcontabilidade/punctuality-board/internal/pkg/cron"
	"github.com/amcontabilidade/punctuality-board/internal/pkg/database"
	"github.com/amcontabilidade/punctuality-board/internal/pkg/metrics"
	"github.com/amcontabilidade/punctuality-board/internal/pkg/sse"
	"github.com/amcontabilidade/punctuality-board/internal/repository/mongodb"
	"github.com/amcontabilidade/punctuality-board/internal/repository/postgresql"
	"github.com/amcontabilidade/punctuality-board/internal/repository/sqlite"
	"github.com/amcontabilidade/punctuality-board/internal/repository/upstream"
	"github.com/amcontabilidade/punctuality-board/internal/service/aggregator"
	dashboardService "github.com/amcontabilidade/punctuality-board/internal/service/dashboard"
	"github.com/amcontabilidade/punctuality-board/internal/service/rotation"
	"github.com/amcontabilidade/punctuality-board/internal/service/snapshot"
	"github.com/go-chi/httplog/v3"
)

const (
	initialLoadTimeout = 20 * time.Second
	shutdownTimeout    = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "punctuality-board"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("Error opening row store: ", err)
	}
	defer closeStore()

	m := metrics.New()
	hub := sse.NewHub()
	cache := snapshot.NewCache()
	rotator := rotation.NewRotator(cfg.Schedule.RotationInterval)

	dashboardSvc := dashboardService.NewDashboardService(store, cache, rotator, hub, aggregator.ChartOptions{
		HidePseudoSeries: cfg.Chart.HidePseudoSeries,
		PriorityOrder:    cfg.Chart.PriorityOrder,
	})

	poller := snapshot.NewPoller(store, cache,
		snapshot.WithMetrics(m),
		snapshot.OnRowsUpdated(dashboardSvc.HandleRowsUpdated),
		snapshot.OnHistoryUpdated(dashboardSvc.HandleHistoryUpdated),
	)

	// Initial load; failures are retried by the scheduled polls
	loadCtx, cancelLoad := context.WithTimeout(ctx, initialLoadTimeout)
	if err := poller.RefreshAll(loadCtx); err != nil {
		slog.Warn("Initial snapshot load incomplete", "error", err)
	}
	cancelLoad()

	scheduler := cron.NewScheduler()
	poller.RegisterJobs(scheduler, cfg.Schedule.RowsPollInterval, cfg.Schedule.HistoryPollInterval)
	rotation.NewJobs(rotator, dashboardSvc.RowCount, dashboardSvc.HandleRotation).
		RegisterJobs(scheduler, cfg.Schedule.ProgressTick)
	scheduler.Start()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			AllowedOrigins: cfg.App.AllowedOrigins,
			Metrics:        m.Handler(),
		},
		appHTTP.NewDashboardHandler(dashboardSvc),
		appHTTP.NewRowsHandler(dashboardSvc),
		appHTTP.NewStreamHandler(dashboardSvc, hub, dashboardService.StreamTopic, m, appHTTP.DefaultKeepalive),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", srv.Addr, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	// Late fetch results are dropped from here on
	poller.Close()
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}

// openStore connects the configured row store backend.
func openStore(ctx context.Context, cfg *config.Config) (punctuality.RowStore, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return postgresql.NewPunctualityRepository(db), db.Close, nil

	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		store, err := sqlite.NewPunctualityRepository(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil

	case config.DriverMongo:
		mdb, err := database.NewMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mdb.Close(closeCtx)
		}
		return mongodb.NewPunctualityRepository(mdb.Database), closeFn, nil

	case config.DriverHTTP:
		client := upstream.NewClient(upstream.Config{
			BaseURL:     cfg.Upstream.BaseURL,
			Timeout:     cfg.Upstream.Timeout,
			MaxFailures: cfg.Upstream.MaxFailures,
			OpenTimeout: cfg.Upstream.OpenTimeout,
		}, nil)
		return client, func() {}, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", punctuality.ErrUnsupportedDriver, cfg.Store.Driver)
}
