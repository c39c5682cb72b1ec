package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Cached memoizes vectors by text so repeated lookups for the same query do
// not hit the provider.
type Cached struct {
	next  Embedder
	cache *cache.Cache
}

// NewCached wraps next. A non-positive ttl disables caching.
func NewCached(next Embedder, ttl time.Duration) *Cached {
	c := &Cached{next: next}
	if ttl > 0 {
		c.cache = cache.New(ttl, 2*ttl)
	}
	return c
}

func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.cache == nil {
		return c.next.Embed(ctx, text)
	}
	key := cacheKey(text)
	if v, found := c.cache.Get(key); found {
		return clone(v.([]float32)), nil
	}
	vector, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, clone(vector), cache.DefaultExpiration)
	return vector, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func clone(v []float32) []float32 {
	return append([]float32(nil), v...)
}
