package frontend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/phish-detect/internal/core"
	"github.com/mikey/phish-detect/internal/utils"
	"go.uber.org/zap"
)

// CLIFrontend implements a command-line interface for one-shot analysis
type CLIFrontend struct {
	service       *core.AnalysisService
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
	verbose       bool
	jsonOutput    bool
}

// NewCLIFrontend creates a new CLI frontend
func NewCLIFrontend(service *core.AnalysisService, textProcessor *utils.TextProcessor, logger *zap.Logger, verbose bool, jsonOutput bool) (*CLIFrontend, error) {
	return &CLIFrontend{
		service:       service,
		textProcessor: textProcessor,
		logger:        logger,
		verbose:       verbose,
		jsonOutput:    jsonOutput,
	}, nil
}

// ProcessContent analyzes one piece of content and displays the results
func (f *CLIFrontend) ProcessContent(ctx context.Context, content string, contentType core.ContentType) (*core.AnalysisReport, error) {
	f.logger.Debug("Processing content", zap.String("content_type", string(contentType)))

	content = f.textProcessor.PrepareContent(content)

	startTime := time.Now()
	report, err := f.service.AnalyzeContent(ctx, content, contentType)
	if err != nil {
		f.logger.Error("Failed to analyze content", zap.Error(err))
		fmt.Printf("Error: %v\n", err)
		return nil, err
	}
	duration := time.Since(startTime)

	if f.jsonOutput {
		encoded, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		fmt.Println(string(encoded))
		return report, nil
	}

	fmt.Printf("\n=== Content Summary ===\n")
	fmt.Printf("Type: %s\n", contentType)
	fmt.Printf("Length: %d bytes\n", len(content))

	if f.verbose {
		preview := content
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Printf("\nContent preview:\n%s\n", preview)
	}

	verdict := report.Verdict

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Phishing score: %d/100\n", verdict.PhishingScore)
	fmt.Printf("Risk level: %s\n", verdict.RiskLevel)
	fmt.Printf("Confidence: %d%%\n", verdict.Confidence)
	fmt.Printf("Threat category: %s\n", verdict.ThreatCategory)
	fmt.Printf("Source: %s\n", report.Source)
	fmt.Printf("Processing time: %v\n", duration)

	if len(verdict.Explanations) > 0 {
		fmt.Printf("\n=== Findings ===\n")
		for _, explanation := range verdict.Explanations {
			fmt.Printf("  - %s\n", explanation)
		}
	}

	if f.verbose && len(verdict.AttackVectors) > 0 {
		fmt.Printf("\nAttack vectors: %s\n", strings.Join(verdict.AttackVectors, ", "))
	}

	if len(verdict.PreventionTips) > 0 {
		fmt.Printf("\n=== Prevention Tips ===\n")
		for _, tip := range verdict.PreventionTips {
			fmt.Printf("  - %s\n", tip)
		}
	}

	return report, nil
}

// Start is a no-op for the CLI frontend
func (f *CLIFrontend) Start() error {
	return nil
}

// Stop is a no-op for the CLI frontend
func (f *CLIFrontend) Stop() error {
	return nil
}
