package cli

import (
	"context"
	"time"
)

const pingTimeout = 3 * time.Second

// StartOnlineStatusWatcher pings the service every interval and tracks the
// mode. Coming back online reloads the voter's votes. It returns when ctx
// is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.api.Ping(pingCtx)
	cancel()

	if err != nil {
		if a.setMode(ModeOffline) {
			a.logger.Debug(ctx, "service unreachable", "error", err)
		}
		return
	}

	if a.setMode(ModeOnline) {
		if err := a.coordinator.Refresh(ctx); err != nil {
			a.logger.Warn(ctx, "refresh after reconnect failed", "error", err)
		}
	}
}
