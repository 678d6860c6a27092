// Package cache carries invalidation signals from webhook handlers to the
// read-side views.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/metinatakli/storefront/internal/debounce"
)

const (
	viewKeyPrefix       = "views:"
	invalidationChannel = "cache.invalidations"
)

// RedisInvalidator drops the cached view for a scope and announces the
// invalidation on a pub/sub channel for interested read-side processes.
//
// The key deletion is synchronous so a failed signal surfaces to the webhook
// handler and the delivery gets retried. The pub/sub announcement is advisory
// and debounced per scope: bursts of events for the same scope collapse into
// one notification.
type RedisInvalidator struct {
	client   redis.UniversalClient
	logger   *slog.Logger
	interval time.Duration

	mu        sync.Mutex
	announcer map[string]*debounce.Debouncer
}

func NewRedisInvalidator(client redis.UniversalClient, logger *slog.Logger, interval time.Duration) *RedisInvalidator {
	return &RedisInvalidator{
		client:    client,
		logger:    logger,
		interval:  interval,
		announcer: make(map[string]*debounce.Debouncer),
	}
}

func (i *RedisInvalidator) Invalidate(ctx context.Context, scope string) error {
	err := i.client.Del(ctx, viewKeyPrefix+scope).Err()
	if err != nil {
		return err
	}

	i.scopeDebouncer(scope).Do(func() {
		// detached from the request context: the announcement may fire after
		// the webhook response has been written
		pubCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := i.client.Publish(pubCtx, invalidationChannel, scope).Err(); err != nil {
			i.logger.Warn("failed to announce cache invalidation", "scope", scope, "error", err)
		}
	})

	return nil
}

func (i *RedisInvalidator) scopeDebouncer(scope string) *debounce.Debouncer {
	i.mu.Lock()
	defer i.mu.Unlock()

	d, ok := i.announcer[scope]
	if !ok {
		d = debounce.New(i.interval)
		i.announcer[scope] = d
	}

	return d
}
