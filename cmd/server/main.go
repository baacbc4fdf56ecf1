package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/charleira/b3penny/internal/config"
	"github.com/charleira/b3penny/internal/metrics"
	"github.com/charleira/b3penny/internal/options"
	"github.com/charleira/b3penny/internal/scheduler"
	"github.com/charleira/b3penny/internal/server"
	"github.com/charleira/b3penny/internal/snapshot"
	"github.com/charleira/b3penny/internal/status"
	"github.com/charleira/b3penny/internal/updater"
	"github.com/charleira/b3penny/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/server.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting dashboard server",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"addr", cfg.HTTP.Addr,
		"stocks_path", cfg.Data.StocksPath,
		"derivatives_path", cfg.Data.DerivativesPath,
	)

	// Validate guarantees these parse.
	defaultMaxPrice := decimal.RequireFromString(cfg.Updater.DefaultMaxPrice)
	windowOpen, windowClose, err := cfg.Scheduler.WindowMinutes()
	if err != nil {
		logger.Error("invalid trading window", "error", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	m := metrics.New()

	store := snapshot.New(cfg.Data.StocksPath, cfg.Data.DerivativesPath, logger, m)
	resolver := options.NewResolver(logger)

	orchestrator := updater.New(updater.Config{
		Command: cfg.Updater.Command,
		WorkDir: cfg.Updater.WorkDir,
		Timeout: cfg.Updater.Timeout,
	}, logger, m)

	sched := scheduler.New(scheduler.Config{
		Interval:    cfg.Scheduler.Interval,
		WindowOpen:  windowOpen,
		WindowClose: windowClose,
	}, orchestrator, logger, m)

	srv := server.New(cfg.HTTP, cfg.Metrics.Path, server.Deps{
		Store:           store,
		Resolver:        resolver,
		Updates:         orchestrator,
		Reporter:        status.NewReporter(store, orchestrator),
		DefaultMaxPrice: defaultMaxPrice,
		Logger:          logger,
		Metrics:         m,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		return nil
	})

	g.Go(func() error {
		if err := sched.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		return nil
	})

	logger.Info("dashboard server running", "addr", cfg.HTTP.Addr)

	if err := g.Wait(); err != nil {
		logger.Error("component failed", "error", err)
	}

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop accepting requests first, then the trigger sources, then any
	// in-flight regeneration.
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Error("scheduler shutdown failed", "error", err)
	}
	if err := orchestrator.Stop(shutdownCtx); err != nil {
		logger.Error("updater shutdown failed", "error", err)
	}

	logger.Info("dashboard server stopped")
}
