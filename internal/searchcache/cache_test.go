package searchcache_test

import (
	"context"
	"path/filepath"
	"testing"

	"gamedex/internal/searchcache"
)

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	cache, err := searchcache.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cache.Close()

	ctx := context.Background()
	if _, hit, err := cache.Get(ctx, "hades", true); err != nil || hit {
		t.Fatalf("expected miss on empty cache, hit=%v err=%v", hit, err)
	}

	payload := []byte(`[{"game_name":"Hades"}]`)
	if err := cache.Put(ctx, "hades", true, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, hit, err := cache.Get(ctx, "hades", true)
	if err != nil || !hit {
		t.Fatalf("expected hit, hit=%v err=%v", hit, err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload = %s, want %s", got, payload)
	}

	// The hide-DLC modifier is part of the key.
	if _, hit, err := cache.Get(ctx, "hades", false); err != nil || hit {
		t.Fatalf("expected miss for different modifier, hit=%v err=%v", hit, err)
	}
}

func TestCachePutReplaces(t *testing.T) {
	cache, err := searchcache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cache.Close()

	ctx := context.Background()
	if err := cache.Put(ctx, "doom", false, []byte("old")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cache.Put(ctx, "doom", false, []byte("new")); err != nil {
		t.Fatalf("Put replace: %v", err)
	}

	got, hit, err := cache.Get(ctx, "doom", false)
	if err != nil || !hit {
		t.Fatalf("expected hit, err=%v", err)
	}
	if string(got) != "new" {
		t.Fatalf("payload = %s, want replacement", got)
	}
}

func TestCachePurge(t *testing.T) {
	cache, err := searchcache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cache.Close()

	ctx := context.Background()
	if err := cache.Put(ctx, "celeste", true, []byte("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cache.Purge(ctx); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if _, hit, err := cache.Get(ctx, "celeste", true); err != nil || hit {
		t.Fatalf("expected miss after purge, hit=%v err=%v", hit, err)
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	cache, err := searchcache.Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if cache.Enabled() {
		t.Fatal("empty path must disable the cache")
	}

	ctx := context.Background()
	if err := cache.Put(ctx, "anything", true, []byte("x")); err != nil {
		t.Fatalf("Put on disabled cache: %v", err)
	}
	if _, hit, err := cache.Get(ctx, "anything", true); err != nil || hit {
		t.Fatalf("disabled cache must always miss, hit=%v err=%v", hit, err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestCachePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	first, err := searchcache.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.Put(ctx, "hollow knight", true, []byte("payload")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := searchcache.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	got, hit, err := second.Get(ctx, "hollow knight", true)
	if err != nil || !hit {
		t.Fatalf("expected hit after reopen, hit=%v err=%v", hit, err)
	}
	if string(got) != "payload" {
		t.Fatalf("payload = %s", got)
	}
}
