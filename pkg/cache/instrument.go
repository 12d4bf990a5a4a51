package cache

import (
	"context"
	"time"

	"github.com/matzehuels/piesweep/pkg/observability"
)

// instrumented reports every lookup and write through the cache hooks.
type instrumented struct {
	Cache
}

// Instrument wraps c so hits, misses and writes reach
// observability.Cache().
func Instrument(c Cache) Cache {
	if c == nil {
		return nil
	}
	return instrumented{Cache: c}
}

func (c instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, KeyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyType(key))
		}
	}
	return data, ok, err
}

func (c instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	return nil
}
