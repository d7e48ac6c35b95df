package fetch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rankscope/rankscope/internal/cache"
	"github.com/rankscope/rankscope/internal/model"
)

// countingFetcher counts inner fetches and can be switched to fail.
type countingFetcher struct {
	calls int
	err   error
}

func (f *countingFetcher) Fetch(ctx context.Context, rawURL string) (*model.PageSnapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &model.PageSnapshot{
		URL:        rawURL,
		HTML:       fmt.Sprintf("<html>call %d</html>", f.calls),
		StatusCode: 200,
		FetchedAt:  time.Now().UTC(),
	}, nil
}

func newTestCache() cache.Cache {
	return cache.NewMemoryCache(time.Minute, time.Minute)
}

func TestCachedFetcher_ServesFromCache(t *testing.T) {
	inner := &countingFetcher{}
	fetcher := NewCachedFetcher(inner, newTestCache(), time.Minute)

	first, err := fetcher.Fetch(context.Background(), "https://site.example/a")
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	second, err := fetcher.Fetch(context.Background(), "https://site.example/a")
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("expected 1 inner fetch, got %d", inner.calls)
	}
	if first.HTML != second.HTML {
		t.Errorf("cached snapshot differs: %q vs %q", first.HTML, second.HTML)
	}
}

func TestCachedFetcher_DistinctURLs(t *testing.T) {
	inner := &countingFetcher{}
	fetcher := NewCachedFetcher(inner, newTestCache(), time.Minute)

	if _, err := fetcher.Fetch(context.Background(), "https://site.example/a"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if _, err := fetcher.Fetch(context.Background(), "https://site.example/b"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if inner.calls != 2 {
		t.Errorf("expected 2 inner fetches for distinct URLs, got %d", inner.calls)
	}
}

func TestCachedFetcher_ErrorsNotCached(t *testing.T) {
	inner := &countingFetcher{err: &model.FetchError{URL: "https://site.example/a", StatusCode: 429, Blocked: true}}
	store := newTestCache()
	fetcher := NewCachedFetcher(inner, store, time.Minute)

	if _, err := fetcher.Fetch(context.Background(), "https://site.example/a"); err == nil {
		t.Fatal("expected the inner error to surface")
	}

	// The failure must not poison the cache: the next call retries.
	inner.err = nil
	snap, err := fetcher.Fetch(context.Background(), "https://site.example/a")
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("expected a fresh inner fetch after the error, got %d calls", inner.calls)
	}
	if snap == nil || snap.HTML == "" {
		t.Error("expected a real snapshot on retry")
	}
}

func TestCachedFetcher_DropsUndecodableEntries(t *testing.T) {
	inner := &countingFetcher{}
	store := newTestCache()
	fetcher := NewCachedFetcher(inner, store, time.Minute)

	key := cache.Key("https://site.example/a")
	if err := store.Set(key, []byte("not json"), time.Minute); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	snap, err := fetcher.Fetch(context.Background(), "https://site.example/a")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected the corrupt entry to trigger a real fetch, got %d calls", inner.calls)
	}
	if snap.HTML == "" {
		t.Error("expected a real snapshot")
	}
}
