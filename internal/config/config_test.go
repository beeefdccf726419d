package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	if got := cfg.GetString("server.frontend_type"); got != "http" {
		t.Errorf("expected http frontend default, got %q", got)
	}
	if got := cfg.GetString("advisory.provider"); got != "bedrock" {
		t.Errorf("expected bedrock provider default, got %q", got)
	}
	if got := cfg.GetString("cache.type"); got != "memory" {
		t.Errorf("expected memory cache default, got %q", got)
	}

	smtp := cfg.GetSMTP()
	if smtp.RiskHeader != "X-Phishing-Risk" ||
		smtp.ScoreHeader != "X-Phishing-Score" ||
		smtp.ReasonHeader != "X-Phishing-Reason" {
		t.Errorf("unexpected default detection headers: %+v", smtp)
	}

	httpCfg := cfg.GetHTTP()
	if httpCfg.ListenAddress != "0.0.0.0:8080" {
		t.Errorf("unexpected default HTTP listen address: %q", httpCfg.ListenAddress)
	}
	if httpCfg.MaxBodyBytes != 1048576 {
		t.Errorf("unexpected default max body bytes: %d", httpCfg.MaxBodyBytes)
	}
}

func TestGetDuration(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	ttl, err := cfg.GetDuration("cache.ttl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl != 24*time.Hour {
		t.Errorf("expected 24h default TTL, got %v", ttl)
	}

	cfg.GetViper().Set("cache.ttl", "not-a-duration")
	if _, err := cfg.GetDuration("cache.ttl"); err == nil {
		t.Error("expected error for malformed duration")
	}
}

func TestProviderOverrides(t *testing.T) {
	v := NewEmptyViper()
	v.Set("openai.model_name", "gpt-4o-mini")
	v.Set("openai.max_question_size", 512)
	cfg := NewFromViper(v)

	openaiCfg := cfg.GetOpenAI()
	if openaiCfg.ModelName != "gpt-4o-mini" {
		t.Errorf("expected override to win, got %q", openaiCfg.ModelName)
	}
	if openaiCfg.MaxQuestionSize != 512 {
		t.Errorf("expected overridden question size, got %d", openaiCfg.MaxQuestionSize)
	}
	// Untouched keys keep their defaults.
	if openaiCfg.MaxTokens != 1000 {
		t.Errorf("expected default max tokens, got %d", openaiCfg.MaxTokens)
	}
}
