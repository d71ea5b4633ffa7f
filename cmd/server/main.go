package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/reviewsense/config"
	"github.com/spacesedan/reviewsense/internal/api"
	"github.com/spacesedan/reviewsense/internal/artifacts"
	"github.com/spacesedan/reviewsense/internal/clients"
	"github.com/spacesedan/reviewsense/internal/logging"
	"github.com/spacesedan/reviewsense/internal/monitoring"
	"github.com/spacesedan/reviewsense/internal/sentiment"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := initStore(cfg)
	storeHealthy := &atomic.Bool{}
	storeHealthy.Store(true)
	go monitoring.MonitorStoreHealth(ctx, store, storeHealthy, monitoring.HEALTHCHECK_TIMER)

	analyzer := sentiment.NewAnalyzer(sentiment.NewVADERScorer(), sentiment.Options{
		StripMarkup: cfg.StripMarkup,
	})

	server := api.NewServer(api.Config{
		AllowedOrigins: cfg.AllowedOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, analyzer, store, storeHealthy)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("[Main] HTTP server listening",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("env", cfg.Env),
			slog.String("artifact_store", store.Name()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] HTTP server failed",
				slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("[Main] Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed",
			slog.String("error", err.Error()))
	}

	if closer, ok := store.(interface{ Close() }); ok {
		slog.Info("[Main] Closing artifact store",
			slog.String("artifact_store", store.Name()))
		closer.Close()
	}
}

// initStore prefers Valkey and falls back to process memory when it is not
// configured or unreachable.
func initStore(cfg config.Config) artifacts.Store {
	if !cfg.Valkey.Enabled() {
		slog.Info("[Main] VALKEY_INIT_ADDRESS not set, keeping results in memory")
		return artifacts.NewMemoryStore(cfg.ResultTTL).WithMaxBytes(cfg.MemoryMaxBytes)
	}

	vc, err := clients.NewValkeyClient(cfg.Valkey, cfg.ResultTTL)
	if err != nil {
		slog.Warn("[Main] Valkey unavailable, keeping results in memory",
			slog.String("error", err.Error()))
		return artifacts.NewMemoryStore(cfg.ResultTTL).WithMaxBytes(cfg.MemoryMaxBytes)
	}
	return vc
}
