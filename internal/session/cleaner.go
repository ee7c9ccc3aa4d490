package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartCleaner purges expired sessions on a fixed interval until ctx is
// cancelled.
func StartCleaner(ctx context.Context, store *Store, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := store.PurgeExpired(ctx)
				if err != nil {
					log.Warn("session purge failed", zap.Error(err))
					continue
				}
				if n > 0 {
					log.Info("purged expired sessions", zap.Int64("count", n))
				}
			}
		}
	}()
}
