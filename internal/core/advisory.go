package core

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AdvisoryService answers user questions about an analysis. It is total:
// any client fault (unreachable, malformed response, rate limit) degrades
// to fixed fallback text instead of an error. The detection engine never
// depends on this service.
type AdvisoryService struct {
	client AdvisoryClient
	logger *zap.Logger
}

// NewAdvisoryService creates a new advisory service. A nil client is
// allowed and always yields fallback text.
func NewAdvisoryService(client AdvisoryClient, logger *zap.Logger) *AdvisoryService {
	return &AdvisoryService{
		client: client,
		logger: logger,
	}
}

// Advise answers the question, falling back to canned guidance on any
// client failure.
func (s *AdvisoryService) Advise(ctx context.Context, question string, report *AnalysisReport) *Advice {
	if s.client != nil {
		advice, err := s.client.Advise(ctx, question, report)
		if err == nil && advice != nil && strings.TrimSpace(advice.Text) != "" {
			return advice
		}
		if err != nil {
			s.logger.Warn("Advisory client failed, using fallback text", zap.Error(err))
		}
	}

	return fallbackAdvice(report)
}

func fallbackAdvice(report *AnalysisReport) *Advice {
	text := "I could not reach the advisory service. As a rule of thumb: verify requests through official channels, never share credentials, and enable two-factor authentication."

	if report != nil && report.Verdict != nil {
		switch report.Verdict.RiskLevel {
		case RiskLevelCritical, RiskLevelHigh:
			text = "This content shows strong phishing indicators. Do not click its links, reply, or share any information, and report it to your security team or provider."
		case RiskLevelMedium:
			text = "This content shows some phishing indicators. Verify the sender through an official channel before acting on it."
		case RiskLevelLow:
			text = "This content shows few phishing indicators, but stay careful: verify unexpected requests through official channels."
		}
	}

	return &Advice{
		Text:        text,
		ModelUsed:   "fallback",
		GeneratedAt: time.Now(),
	}
}
