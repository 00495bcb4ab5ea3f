package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"guest_manual/internal/domain"
)

type nopCache struct{}

func (nopCache) Get(ctx context.Context, key string, dst any) (bool, error)   { return false, nil }
func (nopCache) Set(ctx context.Context, key string, v any, ttlSec int) error { return nil }
func (nopCache) Del(ctx context.Context, key string) error                    { return nil }

// manualCache stores whole manuals under manual:<slug>.
type manualCache struct {
	c   domain.Cache
	ttl time.Duration
}

func newManualCache(c domain.Cache, ttl time.Duration) manualCache {
	if c == nil {
		c = nopCache{}
	}
	return manualCache{c: c, ttl: ttl}
}

func manualKey(slug string) string { return "manual:" + slug }

func (m manualCache) get(ctx context.Context, slug string, dst *domain.Manual) bool {
	ok, err := m.c.Get(ctx, manualKey(slug), dst)
	if err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("manual cache get")
		return false
	}
	return ok
}

func (m manualCache) set(ctx context.Context, man domain.Manual) {
	if err := m.c.Set(ctx, manualKey(man.Property.Slug), man, int(m.ttl.Seconds())); err != nil {
		log.Warn().Err(err).Str("slug", man.Property.Slug).Msg("manual cache set")
	}
}

func (m manualCache) evict(ctx context.Context, slugs ...string) {
	for _, s := range slugs {
		if s == "" {
			continue
		}
		if err := m.c.Del(ctx, manualKey(s)); err != nil {
			log.Warn().Err(err).Str("slug", s).Msg("manual cache evict")
		}
	}
}
