package cache

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestKey_StableAndVersioned(t *testing.T) {
	a := Key("https://site.example/page")
	b := Key("https://site.example/page")
	c := Key("https://site.example/other")

	if a != b {
		t.Error("same URL must produce the same key")
	}
	if a == c {
		t.Error("different URLs must produce different keys")
	}
	if !strings.HasPrefix(a, "rankscope:v1:") {
		t.Errorf("key missing version prefix: %s", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	key := Key("https://site.example/")

	if _, found := c.Get(key); found {
		t.Fatal("empty cache must miss")
	}

	if err := c.Set(key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	val, found := c.Get(key)
	if !found || !bytes.Equal(val, []byte("payload")) {
		t.Fatalf("expected payload, got %q found=%v", val, found)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("deleted key must miss")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	key := Key("https://site.example/")

	if err := c.Set(key, []byte("payload"), 10*time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get(key); found {
		t.Error("expired entry must miss")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)
	key := Key("https://site.example/")

	if err := c.Set(key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// A fresh instance over the same directory sees the entry.
	reopened := NewDiskCache(dir, time.Minute)
	val, found := reopened.Get(key)
	if !found || !bytes.Equal(val, []byte("payload")) {
		t.Fatalf("expected payload after reopen, got %q found=%v", val, found)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("cleared cache must miss")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	key := Key("https://site.example/")

	if err := c.Set(key, []byte("payload"), 10*time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get(key); found {
		t.Error("expired entry must miss")
	}
}

func TestDiskCache_ZeroTTLUsesDefault(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	key := Key("https://site.example/")

	if err := c.Set(key, []byte("payload"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, found := c.Get(key); !found {
		t.Error("entry with default TTL must be readable")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	key := Key("https://site.example/")

	// Seed disk only, simulating a previous process run.
	if err := NewDiskCache(dir, time.Minute).Set(key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("seed disk: %v", err)
	}

	layered := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := layered.Get(key)
	if !found || !bytes.Equal(val, []byte("payload")) {
		t.Fatalf("expected disk hit, got %q found=%v", val, found)
	}

	// The promoted entry must now be in memory.
	if _, found := layered.memory.Get(key); !found {
		t.Error("expected the disk hit to be promoted into memory")
	}
}

func TestLayeredCache_SetWritesBothLayers(t *testing.T) {
	dir := t.TempDir()
	layered := NewLayeredCache(time.Minute, dir, time.Minute)
	key := Key("https://site.example/")

	if err := layered.Set(key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if _, found := layered.memory.Get(key); !found {
		t.Error("expected memory layer hit")
	}
	if _, found := NewDiskCache(dir, time.Minute).Get(key); !found {
		t.Error("expected disk layer hit")
	}
}
