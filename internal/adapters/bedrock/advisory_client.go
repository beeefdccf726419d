package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/phish-detect/internal/core"
	"github.com/mikey/phish-detect/internal/utils"
	"go.uber.org/zap"
)

// BedrockClient is an implementation of the AdvisoryClient interface using Amazon Bedrock
type BedrockClient struct {
	client          *bedrockruntime.Client
	modelID         string
	maxTokens       int
	temperature     float32
	topP            float32
	maxQuestionSize int
	logger          *zap.Logger
	textProcessor   *utils.TextProcessor
}

const bedrockPromptFormat = `You are a phishing-awareness assistant. Answer the user's question in plain language,
give practical safety advice, and never ask for credentials or personal information.
Keep the answer short and actionable.

%s`

const bedrockContextFormat = `The user's content was analyzed with this result:
Content type: %s
Risk level: %s
Phishing score: %d/100
Threat category: %s
Findings: %s

Question: %s`

// NewBedrockClient creates a new Bedrock advisory client
func NewBedrockClient(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxQuestionSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *BedrockClient {
	return &BedrockClient{
		client:          client,
		modelID:         modelID,
		maxTokens:       maxTokens,
		temperature:     temperature,
		topP:            topP,
		maxQuestionSize: maxQuestionSize,
		logger:          logger,
		textProcessor:   textProcessor,
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (c *BedrockClient) isAnthropicModel() bool {
	return strings.Contains(strings.ToLower(c.modelID), "anthropic")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *BedrockClient) isAmazonTitanModel() bool {
	return strings.Contains(strings.ToLower(c.modelID), "titan")
}

func (c *BedrockClient) buildPrompt(question string, report *core.AnalysisReport) string {
	processed := c.textProcessor.ProcessText(question, c.maxQuestionSize)

	if report != nil && report.Verdict != nil {
		processed = fmt.Sprintf(bedrockContextFormat,
			report.ContentType,
			report.Verdict.RiskLevel,
			report.Verdict.PhishingScore,
			report.Verdict.ThreatCategory,
			strings.Join(report.Verdict.Explanations, "; "),
			processed)
	}

	return fmt.Sprintf(bedrockPromptFormat, processed)
}

// Advise answers a user question about an analysis
func (c *BedrockClient) Advise(ctx context.Context, question string, report *core.AnalysisReport) (*core.Advice, error) {
	prompt := c.buildPrompt(question, report)

	// Create the request based on the model
	var payload []byte
	var err error

	if c.isAnthropicModel() {
		// Anthropic Claude models
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	} else if c.isAmazonTitanModel() {
		// Amazon Titan models
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	} else {
		// Default to a generic format
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	// Parse the response based on the model
	var responseText string

	if c.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(resp.Body, &claudeResp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		responseText = claudeResp.Completion
	} else if c.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(resp.Body, &titanResp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return nil, fmt.Errorf("empty response from Titan model")
		}
		responseText = titanResp.Results[0].OutputText
	} else {
		var genericResp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(resp.Body, &genericResp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal generic response: %w", err)
		}

		switch {
		case genericResp.Output != "":
			responseText = genericResp.Output
		case genericResp.Text != "":
			responseText = genericResp.Text
		case genericResp.Response != "":
			responseText = genericResp.Response
		default:
			responseText = string(resp.Body)
		}
	}

	return &core.Advice{
		Text:        strings.TrimSpace(responseText),
		ModelUsed:   c.modelID,
		GeneratedAt: time.Now(),
	}, nil
}
