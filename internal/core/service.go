package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnalysisService wraps the pure detection engine with operational
// concerns: trusted-domain bypass and verdict caching. The engine itself
// stays stateless; everything here is per-call metadata.
type AnalysisService struct {
	cache          CacheRepository
	logger         *zap.Logger
	cacheEnabled   bool
	cacheTTL       time.Duration
	trustedDomains []string
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(
	cache CacheRepository,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
	trustedDomains []string,
) *AnalysisService {
	return &AnalysisService{
		cache:          cache,
		logger:         logger,
		cacheEnabled:   cacheEnabled,
		cacheTTL:       cacheTTL,
		trustedDomains: trustedDomains,
	}
}

// ContentDigest returns the cache key for a (contentType, content) pair.
func ContentDigest(contentType ContentType, content string) string {
	h := sha256.New()
	h.Write([]byte(contentType))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

// isDomainTrusted checks whether the first URL in the content points at a
// trusted domain or one of its subdomains.
func (s *AnalysisService) isDomainTrusted(content string) bool {
	host := FirstURLHost(content)
	if host == "" {
		return false
	}

	for _, trusted := range s.trustedDomains {
		trusted = strings.ToLower(strings.TrimSpace(trusted))
		if trusted == "" {
			continue
		}
		if host == trusted || strings.HasSuffix(host, "."+trusted) {
			return true
		}
	}

	return false
}

// AnalyzeContent classifies one piece of content. Trusted domains bypass
// scoring, cached verdicts are reused when caching is enabled, and every
// path returns a valid report.
func (s *AnalysisService) AnalyzeContent(ctx context.Context, content string, contentType ContentType) (*AnalysisReport, error) {
	if s.isDomainTrusted(content) {
		s.logger.Info("Skipping analysis for trusted domain",
			zap.String("host", FirstURLHost(content)),
			zap.String("action", "trustlist_bypass"))

		verdict := Score(&FeatureRecord{}, contentType)
		verdict.Explanations = []string{"Linked domain is on the trusted list"}
		return s.newReport(contentType, verdict, ReportSourceTrustlist), nil
	}

	digest := ContentDigest(contentType, content)

	if s.cacheEnabled {
		if entry, err := s.cache.Get(ctx, digest); err == nil && entry.Verdict != nil {
			s.logger.Debug("Cache hit for content digest", zap.String("digest", digest))
			return s.newReport(contentType, entry.Verdict, ReportSourceCache), nil
		}
	}

	verdict := Analyze(content, contentType)

	if s.cacheEnabled {
		entry := &CacheEntry{
			ContentDigest: digest,
			ContentType:   contentType,
			Verdict:       verdict,
			LastSeen:      time.Now(),
			ExpiresAt:     time.Now().Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return s.newReport(contentType, verdict, ReportSourceEngine), nil
}

// ExtractOnly exposes bare feature extraction for callers that want the
// feature record without a verdict.
func (s *AnalysisService) ExtractOnly(content string, contentType ContentType) *FeatureRecord {
	return ExtractFeatures(content, contentType)
}

func (s *AnalysisService) newReport(contentType ContentType, verdict *Verdict, source string) *AnalysisReport {
	return &AnalysisReport{
		ContentType:  contentType,
		Verdict:      verdict,
		Source:       source,
		ProcessingID: uuid.NewString(),
		AnalyzedAt:   time.Now(),
	}
}
