package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/windatlas/windatlas/internal/controllers/restserver"
	"github.com/windatlas/windatlas/internal/database"
	"github.com/windatlas/windatlas/internal/geo"
	"github.com/windatlas/windatlas/internal/gfs"
	"github.com/windatlas/windatlas/internal/log"
	"github.com/windatlas/windatlas/internal/pipeline"
	"github.com/windatlas/windatlas/internal/render"
	"github.com/windatlas/windatlas/internal/scheduler"
	"github.com/windatlas/windatlas/pkg/config"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// buildPipeline wires the store, grid source, country dataset, and renderer
// into the two pipeline stages.
func (a *App) buildPipeline(cfg *config.ConfigData) (*pipeline.Extractor, *pipeline.Aggregator, error) {
	db, err := database.CreateConnection(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening forecast store: %w", err)
	}
	store := database.NewStore(db)

	countries, err := geo.LoadCountries(cfg.Countries.GeoJSONPath)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading country boundaries: %w", err)
	}
	log.Infof("loaded %d country boundaries from %s", len(countries), cfg.Countries.GeoJSONPath)

	source := gfs.NewClient(cfg.Source)
	extractor := pipeline.NewExtractor(store, source)
	aggregator := pipeline.NewAggregator(store, countries, render.New(), cfg.Artifacts.Dir)

	return extractor, aggregator, nil
}

// RunScheduler starts the periodic pipeline loop and blocks until shutdown
func (a *App) RunScheduler(ctx context.Context) error {
	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return err
	}

	extractor, aggregator, err := a.buildPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := scheduler.New(extractor, aggregator, cfg.Scheduler.IntervalHours)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("error starting scheduler: %w", err)
	}

	log.Info("Application started successfully")
	waitForShutdown(ctx, cancel)

	sched.Stop()
	log.Info("shutdown complete")
	return nil
}

// RunOnce runs a single extract-and-aggregate pass for one cycle
func (a *App) RunOnce(ctx context.Context, date, cycle string) error {
	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return err
	}

	extractor, aggregator, err := a.buildPipeline(cfg)
	if err != nil {
		return err
	}

	sched := scheduler.New(extractor, aggregator, cfg.Scheduler.IntervalHours)
	return sched.RunOnce(ctx, date, cycle)
}

// RunServer starts the query-serving HTTP layer and blocks until shutdown
func (a *App) RunServer(ctx context.Context) error {
	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return err
	}

	db, err := database.CreateConnection(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("error opening forecast store: %w", err)
	}
	store := database.NewStore(db)

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctrl, err := restserver.NewController(ctx, &wg, store, cfg.REST, a.logger)
	if err != nil {
		return fmt.Errorf("error creating REST controller: %w", err)
	}
	if err := ctrl.StartController(); err != nil {
		return err
	}

	log.Info("Application started successfully")
	waitForShutdown(ctx, cancel)

	// Wait for the HTTP server to drain
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")
	return nil
}

// waitForShutdown blocks until a termination signal arrives or ctx is
// cancelled, then cancels the application context.
func waitForShutdown(ctx context.Context, cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	cancel()
}
