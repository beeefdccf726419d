package cache

import (
	"context"
	"testing"
	"time"

	"github.com/mikey/phish-detect/internal/core"
	"go.uber.org/zap"
)

func newTestEntry(digest string, expiresAt time.Time) *core.CacheEntry {
	return &core.CacheEntry{
		ContentDigest: digest,
		ContentType:   core.ContentTypeEmail,
		Verdict: &core.Verdict{
			PhishingScore: 42,
			RiskLevel:     core.RiskLevelMedium,
		},
		LastSeen:  time.Now(),
		ExpiresAt: expiresAt,
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	ctx := context.Background()
	entry := newTestEntry("digest-1", time.Now().Add(time.Hour))

	if err := c.Set(ctx, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.Get(ctx, "digest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Verdict.PhishingScore != 42 {
		t.Errorf("expected cached verdict, got %+v", got.Verdict)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	if _, err := c.Get(context.Background(), "absent"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	ctx := context.Background()
	if err := c.Set(ctx, newTestEntry("stale", time.Now().Add(-time.Minute))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Get(ctx, "stale"); err != ErrExpired {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	ctx := context.Background()
	if err := c.Set(ctx, newTestEntry("gone", time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Delete(ctx, "gone"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Get(ctx, "gone"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryCacheCleanup(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	ctx := context.Background()
	if err := c.Set(ctx, newTestEntry("stale", time.Now().Add(-time.Minute))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Set(ctx, newTestEntry("fresh", time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := c.Cleanup(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Get(ctx, "stale"); err != ErrNotFound {
		t.Errorf("expected stale entry removed, got %v", err)
	}
	if _, err := c.Get(ctx, "fresh"); err != nil {
		t.Errorf("expected fresh entry kept, got %v", err)
	}
}
