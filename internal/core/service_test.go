package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeCache struct {
	entries map[string]*CacheEntry
	gets    int
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*CacheEntry)}
}

func (c *fakeCache) Get(_ context.Context, digest string) (*CacheEntry, error) {
	c.gets++
	entry, ok := c.entries[digest]
	if !ok {
		return nil, errors.New("not found")
	}
	return entry, nil
}

func (c *fakeCache) Set(_ context.Context, entry *CacheEntry) error {
	c.sets++
	c.entries[entry.ContentDigest] = entry
	return nil
}

func (c *fakeCache) Delete(_ context.Context, digest string) error {
	delete(c.entries, digest)
	return nil
}

func (c *fakeCache) Cleanup(_ context.Context) error {
	return nil
}

func TestContentDigestDistinguishesTypes(t *testing.T) {
	content := "identical content"

	asEmail := ContentDigest(ContentTypeEmail, content)
	asSMS := ContentDigest(ContentTypeSMS, content)

	if asEmail == asSMS {
		t.Error("digests for different content types must differ")
	}
	if asEmail != ContentDigest(ContentTypeEmail, content) {
		t.Error("digest must be stable for identical input")
	}
}

func TestAnalyzeContentTrustedDomainBypass(t *testing.T) {
	cache := newFakeCache()
	service := NewAnalysisService(cache, zap.NewNop(), true, time.Hour, []string{"example.com"})

	report, err := service.AnalyzeContent(context.Background(),
		"Weekly digest: https://news.example.com/stories", ContentTypeEmail)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Source != ReportSourceTrustlist {
		t.Errorf("expected trustlist source, got %s", report.Source)
	}
	if report.Verdict.PhishingScore != 0 {
		t.Errorf("expected score 0 on bypass, got %d", report.Verdict.PhishingScore)
	}
	if len(report.Verdict.Explanations) != 1 ||
		report.Verdict.Explanations[0] != "Linked domain is on the trusted list" {
		t.Errorf("unexpected bypass explanations: %v", report.Verdict.Explanations)
	}
	if cache.gets != 0 || cache.sets != 0 {
		t.Error("bypass must not touch the cache")
	}
}

func TestAnalyzeContentCacheRoundTrip(t *testing.T) {
	cache := newFakeCache()
	service := NewAnalysisService(cache, zap.NewNop(), true, time.Hour, nil)
	content := "URGENT: verify your password at http://192.168.1.1/login"

	first, err := service.AnalyzeContent(context.Background(), content, ContentTypeEmail)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Source != ReportSourceEngine {
		t.Errorf("expected engine source on miss, got %s", first.Source)
	}
	if cache.sets != 1 {
		t.Errorf("expected one cache write, got %d", cache.sets)
	}

	second, err := service.AnalyzeContent(context.Background(), content, ContentTypeEmail)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Source != ReportSourceCache {
		t.Errorf("expected cache source on hit, got %s", second.Source)
	}
	if second.Verdict.PhishingScore != first.Verdict.PhishingScore {
		t.Error("cached verdict must match the original")
	}
	if cache.sets != 1 {
		t.Errorf("cache hit must not write again, got %d writes", cache.sets)
	}
}

func TestAnalyzeContentCacheDisabled(t *testing.T) {
	cache := newFakeCache()
	service := NewAnalysisService(cache, zap.NewNop(), false, time.Hour, nil)

	if _, err := service.AnalyzeContent(context.Background(), "plain note", ContentTypeSMS); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.gets != 0 || cache.sets != 0 {
		t.Error("disabled cache must never be touched")
	}
}

func TestAnalyzeContentReportMetadata(t *testing.T) {
	service := NewAnalysisService(nil, zap.NewNop(), false, 0, nil)
	content := "Hi John, see you at lunch."

	first, err := service.AnalyzeContent(context.Background(), content, ContentTypeSocial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := service.AnalyzeContent(context.Background(), content, ContentTypeSocial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ProcessingID == "" || first.ProcessingID == second.ProcessingID {
		t.Error("each report needs its own processing ID")
	}
	if first.Verdict.PhishingScore != second.Verdict.PhishingScore ||
		first.Verdict.RiskLevel != second.Verdict.RiskLevel {
		t.Error("verdicts for identical input must agree")
	}
	if first.ContentType != ContentTypeSocial {
		t.Errorf("expected social content type, got %s", first.ContentType)
	}
	if first.AnalyzedAt.IsZero() {
		t.Error("expected a populated analysis timestamp")
	}
}
