package cache

import (
	"context"
	"testing"
	"time"

	"example.com/assettrack/internal/domain"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, ok := m.Get(ctx, "feed:v1:all:1:100"); ok {
		t.Fatal("expected a miss on an empty cache")
	}

	m.Set(ctx, "feed:v1:all:1:100", []byte(`{"activities":[]}`), time.Minute)
	payload, ok := m.Get(ctx, "feed:v1:all:1:100")
	if !ok {
		t.Fatal("expected a hit")
	}
	if string(payload) != `{"activities":[]}` {
		t.Fatalf("unexpected payload: %s", payload)
	}
}

func TestMemoryExpiresLazily(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.Set(ctx, "k", []byte("v"), 10*time.Second)

	now = now.Add(5 * time.Second)
	if _, ok := m.Get(ctx, "k"); !ok {
		t.Fatal("entry expired too early")
	}

	now = now.Add(10 * time.Second)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Fatal("expected the stale entry to read as a miss")
	}

	m.mu.RLock()
	_, stillThere := m.entries["k"]
	m.mu.RUnlock()
	if stillThere {
		t.Fatal("stale entry should have been evicted on read")
	}
}

func TestMemoryZeroTTLDisablesWrite(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), 0)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Fatal("zero TTL writes should be dropped")
	}
}

func TestKeyIsDeterministic(t *testing.T) {
	if got := Key(nil, 2, 100); got != "feed:v1:all:2:100" {
		t.Fatalf("unexpected key: %s", got)
	}
	filter := domain.ActivityCheckout
	if got := Key(&filter, 1, 500); got != "feed:v1:checkout:1:500" {
		t.Fatalf("unexpected key: %s", got)
	}
}
