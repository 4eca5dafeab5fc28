package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scorum/internal/platform/config"
	"scorum/internal/platform/httpserver"
	"scorum/internal/platform/logger"
	"scorum/internal/platform/middleware"
	platformredis "scorum/internal/platform/redis"
	"scorum/internal/scoring/handler"
	"scorum/internal/scoring/service"
	"scorum/internal/scoring/store"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	redisClient := platformredis.New(cfg.Store)
	defer redisClient.Close()

	storage := store.NewRedis(redisClient.Client,
		store.WithRetry(cfg.Store.RetryAttempts, cfg.Store.RetryBackoff),
		store.WithLogger(log),
	)

	svc, err := service.New(storage,
		service.WithCacheTTL(cfg.Store.CacheTTL),
		service.WithLogger(log),
	)
	if err != nil {
		log.Error("failed to build scoring service", "error", err)
		os.Exit(1)
	}

	h := handler.New(svc, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	r.Handle("/metrics", promhttp.Handler())
	h.Register(r)

	srv := httpserver.New(cfg.Addr, r)

	log.Info("starting scorum", "addr", cfg.Addr, "store", cfg.Store.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
