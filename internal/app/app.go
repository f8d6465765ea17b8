package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/stanrun/internal/config"
	"github.com/vk/stanrun/internal/ctxlog"
	"github.com/vk/stanrun/internal/notify"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	loader     config.Loader
	counter    *notify.Counter
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns an App with
// its own isolated logger; run files are loaded lazily by Run.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		loader:  loader,
		counter: &notify.Counter{},
	}
}

// Status returns the chain counters fed by the running jobs.
func (a *App) Status() notify.Snapshot {
	return a.counter.Snapshot()
}

// ChainFailureError reports that a run finished but some chains produced no
// samples.
type ChainFailureError struct {
	Failed int
	Total  int
}

func (e *ChainFailureError) Error() string {
	return fmt.Sprintf("%d of %d chains failed", e.Failed, e.Total)
}

func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
