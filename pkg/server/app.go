package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apexlob/internal/handler/api"
	"apexlob/internal/usecase"
	"apexlob/pkg/config"
	xhttp "apexlob/pkg/http"
	applogger "apexlob/pkg/logger"
)

// App encapsulates the application lifecycle: trade collector, HTTP status
// surface, and the console ticker.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	collector  *usecase.TradeCollector
	handler    *api.StatusEchoHandler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	collector *usecase.TradeCollector,
	handler *api.StatusEchoHandler,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		collector: collector,
		handler:   handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start collector
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			a.logger.Error("collector error", applogger.Error(err))
		}
	}()
	a.logger.Info("collector started",
		applogger.String("source", a.cfg.Feed.Source),
		applogger.String("symbol", a.cfg.Feed.Symbol))

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	// Console ticker
	if a.cfg.Logging.Format == "console" {
		go a.runTicker(ctx)
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

func (a *App) runTicker(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			renderTicker(os.Stdout, a.collector.Processor())
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if err := a.collector.Shutdown(ctx); err != nil {
		a.logger.Warn("collector stop error", applogger.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	// Close processor sinks (tape, signal bus)
	a.collector.Processor().Close()

	a.logger.Info("shutdown complete")
	return nil
}
