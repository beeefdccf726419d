package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/phish-detect/internal/core"
	"github.com/mikey/phish-detect/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient is an implementation of the AdvisoryClient interface using OpenAI
type OpenAIClient struct {
	client          *openai.Client
	modelName       string
	maxTokens       int
	temperature     float32
	topP            float32
	maxQuestionSize int
	logger          *zap.Logger
	textProcessor   *utils.TextProcessor
}

const openaiSystemPrompt = `You are a phishing-awareness assistant. Answer the user's question in plain language,
give practical safety advice, and never ask for credentials or personal information.
Keep the answer short and actionable.`

const openaiContextFormat = `The user's content was analyzed with this result:
Content type: %s
Risk level: %s
Phishing score: %d/100
Threat category: %s
Findings: %s

Question: %s`

// NewOpenAIClient creates a new OpenAI advisory client
func NewOpenAIClient(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxQuestionSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClient {
	return &OpenAIClient{
		client:          client,
		modelName:       modelName,
		maxTokens:       maxTokens,
		temperature:     temperature,
		topP:            topP,
		maxQuestionSize: maxQuestionSize,
		logger:          logger,
		textProcessor:   textProcessor,
	}
}

// buildPrompt folds the analysis context, when present, into the question
func (c *OpenAIClient) buildPrompt(question string, report *core.AnalysisReport) string {
	processed := c.textProcessor.ProcessText(question, c.maxQuestionSize)

	if report != nil && report.Verdict != nil {
		return fmt.Sprintf(openaiContextFormat,
			report.ContentType,
			report.Verdict.RiskLevel,
			report.Verdict.PhishingScore,
			report.Verdict.ThreatCategory,
			strings.Join(report.Verdict.Explanations, "; "),
			processed)
	}

	return processed
}

// Advise answers a user question about an analysis
func (c *OpenAIClient) Advise(ctx context.Context, question string, report *core.AnalysisReport) (*core.Advice, error) {
	prompt := c.buildPrompt(question, report)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: openaiSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	return &core.Advice{
		Text:        strings.TrimSpace(resp.Choices[0].Message.Content),
		ModelUsed:   c.modelName,
		GeneratedAt: time.Now(),
	}, nil
}
