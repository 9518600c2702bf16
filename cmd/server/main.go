package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/splitbase/splitbase/internal/config"
	"github.com/splitbase/splitbase/internal/events"
	"github.com/splitbase/splitbase/internal/ledger"
	"github.com/splitbase/splitbase/internal/server"
	"github.com/splitbase/splitbase/internal/service"
	"github.com/splitbase/splitbase/internal/storage/sqlite"
	"github.com/splitbase/splitbase/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	snap, err := store.Load(context.Background())
	if err != nil {
		slog.Error("Failed to replay ledger state", "error", err)
		os.Exit(1)
	}
	led := ledger.Restore(snap.Profiles, snap.Expenses)
	slog.Info("Ledger restored",
		"profiles", len(snap.Profiles),
		"expenses", len(snap.Expenses),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	bus := events.NewBus()
	defer bus.Close()
	bus.Subscribe("log", events.LogSubscriber{})
	bus.Subscribe("metrics", events.NewMetricsSubscriber(reg))

	svc := service.New(led, store, bus)
	router := server.NewRouter(svc, reg, cfg.AuthSecret)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server starting", "address", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
