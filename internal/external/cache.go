package external

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	sharedredis "github.com/mperez230-ship-it/MiniBanco/shared/redis"
)

const ratesKeyPrefix = "rates:latest:"

// CachedRateLookup serves rates from Redis and falls back to the wrapped
// lookup on a miss, storing the answer for ttl.
type CachedRateLookup struct {
	next  RateLookup
	cache *sharedredis.ViewCache[Rates]
}

func NewCachedRateLookup(next RateLookup, client *goredis.Client, ttl time.Duration) *CachedRateLookup {
	return &CachedRateLookup{
		next:  next,
		cache: sharedredis.NewViewCache[Rates](client, ratesKeyPrefix, ttl),
	}
}

func (c *CachedRateLookup) Fetch(ctx context.Context, base string) (*Rates, error) {
	base = NormalizeCurrency(base)
	if rates, ok := c.cache.Get(ctx, base); ok {
		return rates, nil
	}

	rates, err := c.next.Fetch(ctx, base)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, base, rates)
	return rates, nil
}
