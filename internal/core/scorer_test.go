package core

import (
	"reflect"
	"strings"
	"testing"
)

func TestScoreEmptyRecord(t *testing.T) {
	verdict := Score(&FeatureRecord{}, ContentTypeEmail)

	if verdict.PhishingScore != 0 {
		t.Errorf("expected score 0, got %d", verdict.PhishingScore)
	}
	if verdict.RiskLevel != RiskLevelLow {
		t.Errorf("expected low risk, got %s", verdict.RiskLevel)
	}
	if verdict.Confidence != 65 {
		t.Errorf("expected base confidence 65, got %d", verdict.Confidence)
	}
	if len(verdict.Explanations) != 0 {
		t.Errorf("expected no explanations, got %v", verdict.Explanations)
	}
	if verdict.ThreatCategory != "General Phishing" {
		t.Errorf("expected default category, got %s", verdict.ThreatCategory)
	}
	if len(verdict.RiskFactors) != len(ruleTable) {
		t.Errorf("expected %d risk factors, got %d", len(ruleTable), len(verdict.RiskFactors))
	}
	for _, factor := range verdict.RiskFactors {
		if factor.Detected {
			t.Errorf("rule %s should not fire on an empty record", factor.Name)
		}
	}
	// Type tips for email plus the three general tips.
	if len(verdict.PreventionTips) != 5 {
		t.Errorf("expected 5 prevention tips, got %v", verdict.PreventionTips)
	}
}

func TestRiskLevelBands(t *testing.T) {
	tests := []struct {
		name     string
		features *FeatureRecord
		score    int
		level    RiskLevel
	}{
		{
			name:     "readability only stays low",
			features: &FeatureRecord{ReadabilityScore: 10},
			score:    10,
			level:    RiskLevelLow,
		},
		{
			name:     "lower medium boundary",
			features: &FeatureRecord{HasIPAddress: true},
			score:    25,
			level:    RiskLevelMedium,
		},
		{
			name:     "upper medium boundary",
			features: &FeatureRecord{HasIPAddress: true, UrgencyWords: 3},
			score:    49,
			level:    RiskLevelMedium,
		},
		{
			name:     "lower high boundary",
			features: &FeatureRecord{HasShortener: true, HasSuspiciousTLD: true},
			score:    50,
			level:    RiskLevelHigh,
		},
		{
			name:     "upper high boundary",
			features: &FeatureRecord{HasIPAddress: true, HasSuspiciousTLD: true, UrgencyWords: 3},
			score:    79,
			level:    RiskLevelHigh,
		},
		{
			name:     "lower critical boundary",
			features: &FeatureRecord{HasIPAddress: true, RequestsPersonalInfo: true, HasShortener: true},
			score:    80,
			level:    RiskLevelCritical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Score(tt.features, ContentTypeURL)
			if verdict.PhishingScore != tt.score {
				t.Errorf("expected score %d, got %d", tt.score, verdict.PhishingScore)
			}
			if verdict.RiskLevel != tt.level {
				t.Errorf("expected %s, got %s", tt.level, verdict.RiskLevel)
			}
		})
	}
}

func TestScoreClampedAt100(t *testing.T) {
	content := "URGENT: verify your password now at http://192.168.1.1/login"
	verdict := Analyze(content, ContentTypeEmail)

	// ip_address_url 25 + no_https 15 + urgency 8 + 3 suspicious keywords 18
	// + personal_info_request 35 = 101, clamped.
	if verdict.PhishingScore != 100 {
		t.Errorf("expected clamped score 100, got %d", verdict.PhishingScore)
	}
	if verdict.RiskLevel != RiskLevelCritical {
		t.Errorf("expected critical risk, got %s", verdict.RiskLevel)
	}
	if verdict.ThreatCategory != "Credential Harvesting" {
		t.Errorf("expected credential harvesting category, got %s", verdict.ThreatCategory)
	}
	if verdict.Confidence != 85 {
		t.Errorf("expected confidence 85 from 5 fired rules, got %d", verdict.Confidence)
	}
}

func TestBenignContentScoresZero(t *testing.T) {
	verdict := Analyze("Hi John, let's meet for coffee tomorrow.", ContentTypeSocial)

	if verdict.PhishingScore != 0 {
		t.Errorf("expected score 0 for benign content, got %d", verdict.PhishingScore)
	}
	if verdict.RiskLevel != RiskLevelLow {
		t.Errorf("expected low risk, got %s", verdict.RiskLevel)
	}
	if len(verdict.Explanations) != 0 {
		t.Errorf("expected no explanations, got %v", verdict.Explanations)
	}
}

func TestShortenerAndSuspiciousTLDTogether(t *testing.T) {
	content := "Check http://bit.ly/x2 or http://promo.example.tk/session"
	verdict := Analyze(content, ContentTypeURL)

	if verdict.PhishingScore < 50 {
		t.Errorf("expected score >= 50, got %d", verdict.PhishingScore)
	}

	detected := make(map[string]bool)
	for _, factor := range verdict.RiskFactors {
		detected[factor.Name] = factor.Detected
	}
	if !detected["url_shortener"] {
		t.Error("expected url_shortener to fire")
	}
	if !detected["suspicious_tld"] {
		t.Error("expected suspicious_tld to fire")
	}
	if !detected["no_https"] {
		t.Error("expected no_https to fire for plain http links")
	}
}

func TestThreatCategoryPriority(t *testing.T) {
	tests := []struct {
		name     string
		features *FeatureRecord
		want     string
	}{
		{
			name: "tech sophistication wins over everything",
			features: &FeatureRecord{
				TechSophistication:   6,
				RequestsPersonalInfo: true,
				CryptoKeywords:       2,
				ImpersonatedBrands:   []string{"paypal"},
			},
			want: "Advanced Persistent Threat",
		},
		{
			name: "personal info beats crypto and brands",
			features: &FeatureRecord{
				RequestsPersonalInfo: true,
				CryptoKeywords:       2,
				ImpersonatedBrands:   []string{"paypal"},
			},
			want: "Credential Harvesting",
		},
		{
			name: "crypto beats brands",
			features: &FeatureRecord{
				CryptoKeywords:     1,
				ImpersonatedBrands: []string{"paypal"},
			},
			want: "Cryptocurrency Scam",
		},
		{
			name:     "brands alone",
			features: &FeatureRecord{ImpersonatedBrands: []string{"paypal"}},
			want:     "Brand Impersonation",
		},
		{
			name:     "nothing specific",
			features: &FeatureRecord{UrgencyWords: 2},
			want:     "General Phishing",
		},
		{
			name:     "tech sophistication at the boundary stays general",
			features: &FeatureRecord{TechSophistication: 5},
			want:     "General Phishing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Score(tt.features, ContentTypeEmail)
			if verdict.ThreatCategory != tt.want {
				t.Errorf("expected %q, got %q", tt.want, verdict.ThreatCategory)
			}
		})
	}
}

func TestConfidenceCappedAt98(t *testing.T) {
	features := &FeatureRecord{
		HasIPAddress:     true,
		HasShortener:     true,
		HasSuspiciousTLD: true,
		LinkCount:        1,
		URLLength:        150,
		SubdomainCount:   4,
		UrgencyWords:     1,
		SuspiciousWords:  1,
		GrammarErrors:    1,
		SpellingErrors:   1,
	}

	verdict := Score(features, ContentTypeURL)

	// Ten fired rules would put 65 + 4*10 over the cap.
	if len(verdict.Explanations) != 10 {
		t.Fatalf("expected 10 fired rules, got %d: %v", len(verdict.Explanations), verdict.Explanations)
	}
	if verdict.Confidence != 98 {
		t.Errorf("expected confidence capped at 98, got %d", verdict.Confidence)
	}
}

func TestContentTypeSpecificRules(t *testing.T) {
	smsContent := "Your parcel is waiting: http://track.example.com/p"

	sms := Analyze(smsContent, ContentTypeSMS)
	email := Analyze(smsContent, ContentTypeEmail)

	if !ruleDetected(sms, "sms_link") {
		t.Error("expected sms_link to fire for SMS content with a link")
	}
	if ruleDetected(email, "sms_link") {
		t.Error("sms_link must not fire for email content")
	}
}

func TestPremiumRateRuleIsSMSOnly(t *testing.T) {
	features := &FeatureRecord{PremiumRateNumbers: 1}

	if !ruleDetected(Score(features, ContentTypeSMS), "premium_rate_sms") {
		t.Error("expected premium_rate_sms to fire for SMS")
	}
	if ruleDetected(Score(features, ContentTypeEmail), "premium_rate_sms") {
		t.Error("premium_rate_sms must not fire for email")
	}
}

func TestPreventionTipsDeduplicatedWithGeneralSuffix(t *testing.T) {
	features := &FeatureRecord{HasIPAddress: true, HasShortener: true}
	verdict := Score(features, ContentTypeEmail)

	seen := make(map[string]bool)
	for _, tip := range verdict.PreventionTips {
		if seen[tip] {
			t.Errorf("duplicate prevention tip: %q", tip)
		}
		seen[tip] = true
	}

	n := len(verdict.PreventionTips)
	if n < 3 {
		t.Fatalf("expected at least the general tips, got %v", verdict.PreventionTips)
	}
	want := []string{
		"Verify requests through official channels before acting",
		"Enable two-factor authentication on your accounts",
		"Keep your software and devices up to date",
	}
	if !reflect.DeepEqual(verdict.PreventionTips[n-3:], want) {
		t.Errorf("expected general tips as suffix, got %v", verdict.PreventionTips[n-3:])
	}
}

func TestAttackVectorsDeduplicated(t *testing.T) {
	// ip_address_url, url_shortener and suspicious_tld all map to the same
	// vector.
	features := &FeatureRecord{HasIPAddress: true, HasShortener: true, HasSuspiciousTLD: true}
	verdict := Score(features, ContentTypeURL)

	count := 0
	for _, vector := range verdict.AttackVectors {
		if vector == "Malicious Link" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one Malicious Link vector, got %v", verdict.AttackVectors)
	}
}

func TestVerdictDeterminism(t *testing.T) {
	content := "URGENT: your PayPal account is suspended, verify at http://bit.ly/a1"

	first := Analyze(content, ContentTypeEmail)
	second := Analyze(content, ContentTypeEmail)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical input must yield identical verdicts")
	}
}

func TestExplanationsFollowRuleOrder(t *testing.T) {
	features := &FeatureRecord{HasIPAddress: true, RequestsPersonalInfo: true}
	verdict := Score(features, ContentTypeURL)

	if len(verdict.Explanations) != 2 {
		t.Fatalf("expected 2 explanations, got %v", verdict.Explanations)
	}
	if !strings.Contains(verdict.Explanations[0], "IP address") {
		t.Errorf("expected the IP rule first, got %q", verdict.Explanations[0])
	}
	if !strings.Contains(verdict.Explanations[1], "personal information") {
		t.Errorf("expected the personal-info rule second, got %q", verdict.Explanations[1])
	}
}

func TestLowReadabilityRequiresNonZeroScore(t *testing.T) {
	zero := Score(&FeatureRecord{ReadabilityScore: 0}, ContentTypeEmail)
	if ruleDetected(zero, "low_readability") {
		t.Error("low_readability must not fire when readability is 0")
	}

	low := Score(&FeatureRecord{ReadabilityScore: 15}, ContentTypeEmail)
	if !ruleDetected(low, "low_readability") {
		t.Error("expected low_readability to fire for readability 15")
	}
}

func ruleDetected(v *Verdict, name string) bool {
	for _, factor := range v.RiskFactors {
		if factor.Name == name {
			return factor.Detected
		}
	}
	return false
}
