package core

import (
	"fmt"
)

// scoringRule is one entry in the ordered rule table. hits returns how many
// times the rule applies: 0 means not detected, 1 for flat rules, the
// keyword count for magnitude rules. The contribution is weight × hits.
type scoringRule struct {
	name    string
	weight  int
	hits    func(f *FeatureRecord, contentType ContentType) int
	explain func(hits int) string
	vector  string
	tip     string
	similar string
}

func flat(explanation string) func(int) string {
	return func(int) string { return explanation }
}

func counted(format string) func(int) string {
	return func(hits int) string { return fmt.Sprintf(format, hits) }
}

func boolHit(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

// ruleTable drives the scorer. Evaluation order is fixed: explanations are
// reported in this order, and every rule contributes one RiskFactor whether
// or not it fired.
var ruleTable = []scoringRule{
	{
		name:    "ip_address_url",
		weight:  25,
		hits:    func(f *FeatureRecord, _ ContentType) int { return boolHit(f.HasIPAddress) },
		explain: flat("URL uses a raw IP address instead of a domain name"),
		vector:  "Malicious Link",
		tip:     "Never open links that point at raw IP addresses",
		similar: "Fake bank login hosted on a residential IP",
	},
	{
		name:    "url_shortener",
		weight:  20,
		hits:    func(f *FeatureRecord, _ ContentType) int { return boolHit(f.HasShortener) },
		explain: flat("Link hides its destination behind a URL shortener"),
		vector:  "Malicious Link",
		tip:     "Expand shortened links before opening them",
		similar: "Shortened-link credential phish on social media",
	},
	{
		name:    "suspicious_tld",
		weight:  30,
		hits:    func(f *FeatureRecord, _ ContentType) int { return boolHit(f.HasSuspiciousTLD) },
		explain: flat("Domain uses a top-level domain favored by phishing campaigns"),
		vector:  "Malicious Link",
		tip:     "Treat unusual top-level domains with suspicion",
		similar: "Free .tk domain credential harvest",
	},
	{
		name:    "no_https",
		weight:  15,
		hits:    func(f *FeatureRecord, _ ContentType) int { return boolHit(!f.UsesHTTPS && f.LinkCount >= 1) },
		explain: flat("Links are served over plain HTTP without encryption"),
		vector:  "Malicious Link",
		tip:     "Only enter information on HTTPS pages",
	},
	{
		name:    "long_url",
		weight:  10,
		hits:    func(f *FeatureRecord, _ ContentType) int { return boolHit(f.URLLength > 100) },
		explain: flat("Unusually long URL obscures its true destination"),
	},
	{
		name:    "many_subdomains",
		weight:  15,
		hits:    func(f *FeatureRecord, _ ContentType) int { return boolHit(f.SubdomainCount > 3) },
		explain: flat("Excessive subdomains imitate a legitimate domain name"),
		vector:  "Malicious Link",
	},
	{
		name:    "urgency_language",
		weight:  8,
		hits:    func(f *FeatureRecord, _ ContentType) int { return f.UrgencyWords },
		explain: counted("Contains %d urgency keyword(s) pressuring a quick response"),
		vector:  "Urgency Manipulation",
		tip:     "Slow down; legitimate organizations do not rush you",
		similar: "Account-suspension rush scam",
	},
	{
		name:    "suspicious_keywords",
		weight:  6,
		hits:    func(f *FeatureRecord, _ ContentType) int { return f.SuspiciousWords },
		explain: counted("Contains %d keyword(s) typical of phishing lures"),
	},
	{
		name:    "grammar_errors",
		weight:  5,
		hits:    func(f *FeatureRecord, _ ContentType) int { return f.GrammarErrors },
		explain: counted("Contains %d grammar error(s) common in mass-produced scams"),
	},
	{
		name:    "spelling_errors",
		weight:  7,
		hits:    func(f *FeatureRecord, _ ContentType) int { return f.SpellingErrors },
		explain: counted("Contains %d spelling error(s) common in phishing templates"),
	},
	{
		name:    "personal_info_request",
		weight:  35,
		hits:    func(f *FeatureRecord, _ ContentType) int { return boolHit(f.RequestsPersonalInfo) },
		explain: flat("Requests passwords, card numbers or other personal information"),
		vector:  "Credential Harvesting",
		tip:     "Never share credentials or card details via links or replies",
		similar: "Tax-refund detail harvesting campaign",
	},
	{
		name:    "generic_greeting",
		weight:  10,
		hits:    func(f *FeatureRecord, _ ContentType) int { return boolHit(f.HasGenericGreeting && !f.HasPersonalGreeting) },
		explain: flat("Uses a generic greeting instead of your name"),
	},
	{
		name:    "reward_offer",
		weight:  20,
		hits:    func(f *FeatureRecord, _ ContentType) int { return boolHit(f.OffersReward) },
		explain: flat("Promises a prize or reward to lure engagement"),
		vector:  "Reward Lure",
		tip:     "If an offer sounds too good to be true, it is",
		similar: "Gift-card survey scam",
	},
	{
		name:    "punishment_threat",
		weight:  25,
		hits:    func(f *FeatureRecord, _ ContentType) int { return boolHit(f.ThreatensPunishment) },
		explain: flat("Threatens penalties or account loss to force compliance"),
		vector:  "Fear and Intimidation",
		similar: "Arrest-warrant threat campaign",
	},
	{
		name:    "brand_impersonation",
		weight:  20,
		hits:    func(f *FeatureRecord, _ ContentType) int { return len(f.ImpersonatedBrands) },
		explain: counted("Impersonates %d well-known brand(s)"),
		vector:  "Brand Impersonation",
		tip:     "Contact the brand through its official website or app",
		similar: "PayPal account-limited phish",
	},
	{
		name:    "crypto_scam",
		weight:  15,
		hits:    func(f *FeatureRecord, _ ContentType) int { return f.CryptoKeywords },
		explain: counted("Contains %d cryptocurrency scam indicator(s)"),
		vector:  "Cryptocurrency Fraud",
		tip:     "Ignore unsolicited cryptocurrency investment offers",
		similar: "Sextortion Bitcoin demand",
	},
	{
		name:    "social_proof",
		weight:  10,
		hits:    func(f *FeatureRecord, _ ContentType) int { return f.SocialProofCount },
		explain: counted("Uses %d social-proof manipulation phrase(s)"),
		vector:  "Social Proof Manipulation",
	},
	{
		name:    "time_pressure",
		weight:  12,
		hits:    func(f *FeatureRecord, _ ContentType) int { return f.TimeUrgencyCount },
		explain: counted("Applies %d time-pressure deadline(s)"),
		vector:  "Urgency Manipulation",
		similar: "Expiring-offer countdown scam",
	},
	{
		name:    "technical_sophistication",
		weight:  25,
		hits:    func(f *FeatureRecord, _ ContentType) int { return boolHit(f.TechSophistication > 5) },
		explain: flat("Embeds obfuscated or executable markup"),
		vector:  "Code Injection",
		tip:     "Do not open HTML attachments from unknown senders",
		similar: "HTML-smuggled payload mail",
	},
	{
		name:    "negative_sentiment",
		weight:  15,
		hits:    func(f *FeatureRecord, _ ContentType) int { return boolHit(f.SentimentScore < -3) },
		explain: flat("Overall tone relies on fear and negative emotion"),
		vector:  "Fear and Intimidation",
	},
	{
		name:   "low_readability",
		weight: 10,
		// Readability 0 also stands for empty content, which must not fire.
		hits:    func(f *FeatureRecord, _ ContentType) int { return boolHit(f.ReadabilityScore > 0 && f.ReadabilityScore < 30) },
		explain: flat("Text is convoluted in a way typical of obfuscated scams"),
	},
	{
		name:   "email_attachment",
		weight: 15,
		hits: func(f *FeatureRecord, t ContentType) int {
			return boolHit(t == ContentTypeEmail && f.HasAttachmentRef)
		},
		explain: flat("Email references an attachment, a common malware carrier"),
		vector:  "Malware Delivery",
		tip:     "Scan attachments before opening them",
	},
	{
		name:   "sms_link",
		weight: 20,
		hits: func(f *FeatureRecord, t ContentType) int {
			return boolHit(t == ContentTypeSMS && f.LinkCount > 0)
		},
		explain: flat("Text message carries a link, the primary smishing vehicle"),
		vector:  "Smishing",
		tip:     "Do not tap links in unsolicited text messages",
		similar: "Fake parcel-delivery SMS",
	},
	{
		name:   "social_action",
		weight: 15,
		hits: func(f *FeatureRecord, t ContentType) int {
			return boolHit(t == ContentTypeSocial && f.RequestsAction)
		},
		explain: flat("Social post pushes an immediate call to action"),
		vector:  "Social Media Manipulation",
	},
	{
		name:   "premium_rate_sms",
		weight: 20,
		hits: func(f *FeatureRecord, t ContentType) int {
			return boolHit(t == ContentTypeSMS && f.PremiumRateNumbers > 0)
		},
		explain: flat("Message advertises a premium-rate phone number"),
		vector:  "Premium-Rate Fraud",
		tip:     "Never call back unknown premium-rate numbers",
		similar: "Ringtone subscription trap",
	},
}

// threatCategoryPriority resolves the single best-fit category. Most
// specific first, first match wins; the order is the explicit form of the
// original positional override chain.
var threatCategoryPriority = []struct {
	category string
	applies  func(f *FeatureRecord) bool
}{
	{"Advanced Persistent Threat", func(f *FeatureRecord) bool { return f.TechSophistication > 5 }},
	{"Credential Harvesting", func(f *FeatureRecord) bool { return f.RequestsPersonalInfo }},
	{"Cryptocurrency Scam", func(f *FeatureRecord) bool { return f.CryptoKeywords > 0 }},
	{"Brand Impersonation", func(f *FeatureRecord) bool { return len(f.ImpersonatedBrands) > 0 }},
}

const defaultThreatCategory = "General Phishing"

// typePreventionTips are appended for the analyzed content type regardless
// of which rules fired.
var typePreventionTips = map[ContentType][]string{
	ContentTypeEmail: {
		"Check the sender's address carefully for lookalike domains",
		"Hover over links to preview their destination before clicking",
	},
	ContentTypeURL: {
		"Compare the domain against the official site character by character",
	},
	ContentTypeSMS: {
		"Contact the company directly using a number you already have",
	},
	ContentTypeSocial: {
		"Verify offers on the brand's verified profile before engaging",
	},
}

// generalPreventionTips close every verdict.
var generalPreventionTips = []string{
	"Verify requests through official channels before acting",
	"Enable two-factor authentication on your accounts",
	"Keep your software and devices up to date",
}
