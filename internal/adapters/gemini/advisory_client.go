package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/phish-detect/internal/core"
	"github.com/mikey/phish-detect/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiClient is an implementation of the AdvisoryClient interface using Google Gemini
type GeminiClient struct {
	client          *genai.Client
	model           *genai.GenerativeModel
	modelName       string
	maxQuestionSize int
	logger          *zap.Logger
	textProcessor   *utils.TextProcessor
}

const geminiPromptFormat = `You are a phishing-awareness assistant. Answer the user's question in plain language,
give practical safety advice, and never ask for credentials or personal information.
Keep the answer short and actionable.

%s`

const geminiContextFormat = `The user's content was analyzed with this result:
Content type: %s
Risk level: %s
Phishing score: %d/100
Threat category: %s
Findings: %s

Question: %s`

// NewGeminiClient creates a new Gemini advisory client
func NewGeminiClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxQuestionSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &GeminiClient{
		client:          client,
		model:           model,
		modelName:       modelName,
		maxQuestionSize: maxQuestionSize,
		logger:          logger,
		textProcessor:   textProcessor,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *GeminiClient) buildPrompt(question string, report *core.AnalysisReport) string {
	processed := c.textProcessor.ProcessText(question, c.maxQuestionSize)

	if report != nil && report.Verdict != nil {
		processed = fmt.Sprintf(geminiContextFormat,
			report.ContentType,
			report.Verdict.RiskLevel,
			report.Verdict.PhishingScore,
			report.Verdict.ThreatCategory,
			strings.Join(report.Verdict.Explanations, "; "),
			processed)
	}

	return fmt.Sprintf(geminiPromptFormat, processed)
}

// Advise answers a user question about an analysis
func (c *GeminiClient) Advise(ctx context.Context, question string, report *core.AnalysisReport) (*core.Advice, error) {
	prompt := c.buildPrompt(question, report)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	return &core.Advice{
		Text:        strings.TrimSpace(sb.String()),
		ModelUsed:   c.modelName,
		GeneratedAt: time.Now(),
	}, nil
}
