package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/tradecal/internal/calendar"
	"github.com/aristath/tradecal/internal/config"
	"github.com/aristath/tradecal/internal/exchanges"
	"github.com/aristath/tradecal/internal/registry"
	"github.com/aristath/tradecal/internal/scheduler"
	"github.com/aristath/tradecal/internal/server"
	"github.com/aristath/tradecal/internal/store"
	"github.com/aristath/tradecal/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet; fall back to stderr.
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting trading calendar service")

	// Registry with all built-in calendars and aliases
	reg := registry.New(log)
	for _, spec := range exchanges.All() {
		reg.Register(spec)
	}
	for alias, target := range exchanges.Aliases {
		if err := reg.RegisterAlias(alias, target); err != nil {
			log.Fatal().Err(err).Str("alias", alias).Msg("Failed to register alias")
		}
	}

	// Snapshot store
	st, err := store.Open(cfg.SnapshotDBPath(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open snapshot store")
	}
	defer st.Close()

	// Warm the default calendars so the first request is fast
	for _, name := range cfg.Calendars {
		if _, err := reg.Get(name, calendar.Options{}); err != nil {
			log.Warn().Err(err).Str("calendar", name).Msg("Failed to warm calendar")
		}
	}

	// Scheduler with the daily refresh job
	sched := scheduler.New(log)
	refresh := scheduler.NewRefreshJob(reg, st, cfg.Calendars, log)
	if err := sched.AddJob(cfg.RefreshCron, refresh); err != nil {
		log.Fatal().Err(err).Msg("Failed to register refresh job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Log:       log,
		Registry:  reg,
		Store:     st,
		Scheduler: sched,
		Config:    cfg,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
