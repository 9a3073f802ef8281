package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"finance-ledger/internal/config"
	"finance-ledger/internal/database"
	"finance-ledger/internal/middleware"
	"finance-ledger/internal/repositories"
	"finance-ledger/internal/server"
	"finance-ledger/internal/services"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()

	db, err := database.Initialize(cfg)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	repo := repositories.NewTransactionRepository(db.DB)
	service := services.NewTransactionService(repo, services.NewPrometheusMetrics(), slog.Default())

	limiter := middleware.NewIPRateLimiter(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitBurst)
	stopCleanup := make(chan struct{})
	go limiter.Run(stopCleanup)

	e := server.New(cfg, server.Dependencies{
		Transactions: service,
		Health:       db,
		RateLimiter:  limiter,
		Logger:       slog.Default(),
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	go func() {
		slog.Info("ledger API listening", "address", cfg.Server.Address(), "environment", cfg.Server.Environment)
		if err := e.Start(cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop
	slog.Info("shutting down")

	close(stopCleanup)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}

	if err := db.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}
