package core

import (
	"time"
)

// ContentType identifies the kind of content being analyzed. It selects
// which type-specific scoring rules apply; the feature schema is the same
// for every type.
type ContentType string

const (
	ContentTypeEmail  ContentType = "email"
	ContentTypeURL    ContentType = "url"
	ContentTypeSMS    ContentType = "sms"
	ContentTypeSocial ContentType = "social"
)

// RiskLevel is the discrete severity label derived from the phishing score.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// FeatureRecord is the structured set of signals extracted from one piece
// of content. All counts are non-negative, sentiment is clamped to
// [-10, 10] and readability to [0, 100].
type FeatureRecord struct {
	// URL-derived signals. Length, domain, subdomain, IP and HTTPS fields
	// describe the first URL found; LinkCount counts all URL matches and
	// the shortener/TLD checks consider every URL in the content.
	URLLength        int  `json:"url_length"`
	DomainLength     int  `json:"domain_length"`
	SubdomainCount   int  `json:"subdomain_count"`
	HasIPAddress     bool `json:"has_ip_address"`
	HasShortener     bool `json:"has_shortener"`
	HasSuspiciousTLD bool `json:"has_suspicious_tld"`
	UsesHTTPS        bool `json:"uses_https"`

	// Lexical counts.
	UrgencyWords    int `json:"urgency_words"`
	SuspiciousWords int `json:"suspicious_words"`
	GrammarErrors   int `json:"grammar_errors"`
	SpellingErrors  int `json:"spelling_errors"`
	LinkCount       int `json:"link_count"`
	ImageCount      int `json:"image_count"`

	// Structural flags.
	HasPersonalGreeting  bool `json:"has_personal_greeting"`
	HasGenericGreeting   bool `json:"has_generic_greeting"`
	RequestsPersonalInfo bool `json:"requests_personal_info"`
	HasAttachmentRef     bool `json:"has_attachment_ref"`

	// Social-engineering flags.
	CreatesUrgency      bool `json:"creates_urgency"`
	OffersReward        bool `json:"offers_reward"`
	ThreatensPunishment bool `json:"threatens_punishment"`
	RequestsAction      bool `json:"requests_action"`

	// Extended signals.
	SentimentScore     int      `json:"sentiment_score"`
	ReadabilityScore   float64  `json:"readability_score"`
	ImpersonatedBrands []string `json:"impersonated_brands,omitempty"`
	CryptoKeywords     int      `json:"crypto_keywords"`
	SocialProofCount   int      `json:"social_proof_count"`
	TimeUrgencyCount   int      `json:"time_urgency_count"`
	TechSophistication int      `json:"tech_sophistication"`

	// Phone signals, used by the SMS premium-rate rule.
	PhoneNumbers       []string `json:"phone_numbers,omitempty"`
	PremiumRateNumbers int      `json:"premium_rate_numbers"`
}

// RiskFactor records one evaluated scoring rule and whether it fired.
// The scorer emits one RiskFactor per rule regardless of the outcome so
// callers can audit the full rule set.
type RiskFactor struct {
	Name     string `json:"name"`
	Weight   int    `json:"weight"`
	Detected bool   `json:"detected"`
}

// Verdict is the result of scoring a feature record. It is a pure value:
// scoring identical input twice yields identical verdicts.
type Verdict struct {
	PhishingScore  int          `json:"phishing_score"`
	RiskLevel      RiskLevel    `json:"risk_level"`
	Confidence     int          `json:"confidence"`
	Explanations   []string     `json:"explanations"`
	ThreatCategory string       `json:"threat_category"`
	AttackVectors  []string     `json:"attack_vectors"`
	SimilarAttacks []string     `json:"similar_attacks"`
	PreventionTips []string     `json:"prevention_tips"`
	RiskFactors    []RiskFactor `json:"risk_factors"`
}

// Report sources.
const (
	ReportSourceEngine    = "engine"
	ReportSourceCache     = "cache"
	ReportSourceTrustlist = "trustlist"
)

// AnalysisReport wraps a Verdict with service-level metadata. The metadata
// varies per call; the embedded Verdict does not.
type AnalysisReport struct {
	ContentType  ContentType `json:"content_type"`
	Verdict      *Verdict    `json:"verdict"`
	Source       string      `json:"source"`
	ProcessingID string      `json:"processing_id"`
	AnalyzedAt   time.Time   `json:"analyzed_at"`
}

// Advice is the response of the advisory assistant.
type Advice struct {
	Text        string    `json:"text"`
	ModelUsed   string    `json:"model_used"`
	GeneratedAt time.Time `json:"generated_at"`
}

// CacheEntry is a cached verdict keyed by the digest of the analyzed content.
type CacheEntry struct {
	ContentDigest string
	ContentType   ContentType
	Verdict       *Verdict
	LastSeen      time.Time
	ExpiresAt     time.Time
}
