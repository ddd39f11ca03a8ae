package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "FxPulse/internal/domain/repository"
	"FxPulse/internal/scheduler"
	"FxPulse/internal/usecase"
	pkgch "FxPulse/pkg/clickhouse"
	"FxPulse/pkg/config"
	xhttp "FxPulse/pkg/http"
	applogger "FxPulse/pkg/logger"
)

// App encapsulates the application lifecycle: startup backfill, the daily
// refresh scheduler, and the HTTP server, with graceful teardown.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	rates      *usecase.RatesUseCase
	sched      *scheduler.Scheduler
	handler    xhttp.Handler
	store      domrepo.RateStore
	publisher  domrepo.RatePublisher
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates the application with all dependencies injected.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	rates *usecase.RatesUseCase,
	sched *scheduler.Scheduler,
	handler xhttp.Handler,
	store domrepo.RateStore,
	publisher domrepo.RatePublisher,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		rates:     rates,
		sched:     sched,
		handler:   handler,
		store:     store,
		publisher: publisher,
		chClient:  chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Seed the store with the trailing series when empty. Startup survives a
	// failed backfill; the next acquisition fills the store lazily.
	if err := a.rates.Backfill(ctx); err != nil {
		a.l.Warn("startup backfill failed", applogger.Error(err))
	}

	if a.sched != nil {
		a.sched.Start()
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.l),
	)
	if err := a.httpServer.Start(); err != nil {
		return err
	}
	a.l.Info("listening", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	if a.sched != nil {
		a.sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.publisher.Close(); err != nil {
		a.l.Error("publisher close error", applogger.Error(err))
	}
	if err := a.store.Close(); err != nil {
		a.l.Error("store close error", applogger.Error(err))
	}
	if err := a.chClient.Close(); err != nil {
		a.l.Error("clickhouse close error", applogger.Error(err))
	}

	a.l.Info("stopped")
	return nil
}
