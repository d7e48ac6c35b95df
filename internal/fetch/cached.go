package fetch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rankscope/rankscope/internal/cache"
	"github.com/rankscope/rankscope/internal/model"
)

// CachedFetcher is a read-through snapshot cache in front of another
// fetcher. Errors are never cached; a blocked or failed fetch is retried on
// the next call.
type CachedFetcher struct {
	inner Fetcher
	store cache.Cache
	ttl   time.Duration
}

// NewCachedFetcher wraps inner with the given cache store and TTL.
func NewCachedFetcher(inner Fetcher, store cache.Cache, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{
		inner: inner,
		store: store,
		ttl:   ttl,
	}
}

func (f *CachedFetcher) Fetch(ctx context.Context, rawURL string) (*model.PageSnapshot, error) {
	key := cache.Key(rawURL)

	if data, found := f.store.Get(key); found {
		var snap model.PageSnapshot
		if err := json.Unmarshal(data, &snap); err == nil {
			return &snap, nil
		}
		// Undecodable entry: drop it and fetch fresh.
		_ = f.store.Delete(key)
	}

	snap, err := f.inner.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(snap); err == nil {
		_ = f.store.Set(key, data, f.ttl)
	}

	return snap, nil
}
