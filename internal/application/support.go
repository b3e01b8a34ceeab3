package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hotelbooking/service-booking/internal/platform/cache"
	"github.com/hotelbooking/service-booking/internal/platform/metrics"
)

// Clock returns the current time. Services derive "today" from it.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }

func today(clock Clock) time.Time {
	now := clock().UTC()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// readThrough returns the cached value for ns/key or loads, caches and returns
// it. Cache failures are logged and never fail the call.
func readThrough[T any](ctx context.Context, c cache.Cache, log *zap.Logger, ns, key string, load func() (T, error)) (T, error) {
	var cached T
	hit, err := c.Get(ctx, ns, key, &cached)
	if err != nil {
		log.Warn("cache read failed", zap.String("namespace", ns), zap.String("key", key), zap.Error(err))
	}
	metrics.IncCacheRequest(ns, hit)
	if hit {
		return cached, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	if err := c.Set(ctx, ns, key, value); err != nil {
		log.Warn("cache write failed", zap.String("namespace", ns), zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

func evict(ctx context.Context, c cache.Cache, log *zap.Logger, ns, key string) {
	if err := c.Evict(ctx, ns, key); err != nil {
		log.Warn("cache evict failed", zap.String("namespace", ns), zap.String("key", key), zap.Error(err))
	}
}

func evictNamespace(ctx context.Context, c cache.Cache, log *zap.Logger, namespaces ...string) {
	for _, ns := range namespaces {
		if err := c.EvictNamespace(ctx, ns); err != nil {
			log.Warn("cache namespace evict failed", zap.String("namespace", ns), zap.Error(err))
		}
	}
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
