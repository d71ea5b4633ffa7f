package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/reviewsense/internal/artifacts"
)

const HEALTHCHECK_TIMER = 15 * time.Second

// MonitorStoreHealth pings the artifact store until ctx is done and keeps
// healthy in sync with the result.
func MonitorStoreHealth(ctx context.Context, store artifacts.Store, healthy *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkStore(ctx, store, healthy)
		}
	}
}

func checkStore(ctx context.Context, store artifacts.Store, healthy *atomic.Bool) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err := store.Ping(pingCtx)
	wasHealthy := healthy.Swap(err == nil)
	if err != nil {
		slog.Warn("[HealthCheck] Artifact store is unhealthy",
			slog.String("store", store.Name()),
			slog.String("error", err.Error()))
	} else if !wasHealthy {
		slog.Info("[HealthCheck] Artifact store recovered",
			slog.String("store", store.Name()))
	}
}
