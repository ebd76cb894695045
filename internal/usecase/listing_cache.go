package usecase

import (
	"context"
	"log/slog"

	"github.com/geocoder89/sewasanjal/internal/cache"
	"github.com/geocoder89/sewasanjal/internal/observability"
)

// ListingCache fronts read-heavy listings. Failures are logged and treated as misses.
// A nil *ListingCache disables caching.
type ListingCache struct {
	store cache.Store
	prom  *observability.Prom
	log   *slog.Logger
}

func NewListingCache(store cache.Store, prom *observability.Prom, log *slog.Logger) *ListingCache {
	if store == nil {
		return nil
	}
	if log == nil {
		log = slog.Default()
	}
	return &ListingCache{store: store, prom: prom, log: log}
}

func (c *ListingCache) get(ctx context.Context, family, key string, dst any) bool {
	if c == nil {
		return false
	}

	ok, err := c.store.Get(ctx, key, dst)
	switch {
	case err != nil:
		c.prom.ObserveCache(family, "error")
		c.log.WarnContext(ctx, "cache get failed", "key", key, "err", err)
		return false
	case ok:
		c.prom.ObserveCache(family, "hit")
		return true
	default:
		c.prom.ObserveCache(family, "miss")
		return false
	}
}

func (c *ListingCache) set(ctx context.Context, key string, val any) {
	if c == nil {
		return
	}
	if err := c.store.Set(ctx, key, val); err != nil {
		c.log.WarnContext(ctx, "cache set failed", "key", key, "err", err)
	}
}

func (c *ListingCache) invalidate(ctx context.Context, prefixes ...string) {
	if c == nil {
		return
	}
	for _, p := range prefixes {
		if err := c.store.DeletePrefix(ctx, p); err != nil {
			c.log.WarnContext(ctx, "cache invalidate failed", "prefix", p, "err", err)
		}
	}
}
