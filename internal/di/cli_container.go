package di

import (
	"flag"
	"strings"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phish-detect/internal/config"
	"github.com/mikey/phish-detect/internal/core"
	"github.com/mikey/phish-detect/internal/factory"
	"github.com/mikey/phish-detect/internal/logging"
	"github.com/mikey/phish-detect/internal/ports"
	"github.com/mikey/phish-detect/internal/utils"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Content flags
	ContentType string
	InputFile   string

	// Advisory flags
	Question        string
	Provider        string
	MaxTokens       int
	Temperature     float64
	TopP            float64
	MaxQuestionSize int

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// Analysis flags
	TrustedDomains string

	// Output flags
	Verbose    bool
	JSONOutput bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Content flags
	flag.StringVar(&flags.ContentType, "type", "email", "Content type (email, url, sms, social)")
	flag.StringVar(&flags.InputFile, "file", "", "Input content file (use stdin if not specified)")

	// Advisory flags
	flag.StringVar(&flags.Question, "question", "", "Optional question for the advisory assistant")
	flag.StringVar(&flags.Provider, "provider", "", "Advisory provider (bedrock, gemini, openai); empty disables the assistant")
	flag.IntVar(&flags.MaxTokens, "max-tokens", 1000, "Maximum tokens for the advisory response")
	flag.Float64Var(&flags.Temperature, "temperature", 0.1, "Temperature for advisory generation")
	flag.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for advisory generation")
	flag.IntVar(&flags.MaxQuestionSize, "max-question-size", 2048, "Maximum question size to send to the advisory provider")

	// Bedrock flags
	flag.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	flag.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	flag.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	flag.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	flag.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	flag.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4", "OpenAI model name")

	// Analysis flags
	flag.StringVar(&flags.TrustedDomains, "trusted", "", "Comma-separated list of trusted domains")

	// Output flags
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose output")
	flag.BoolVar(&flags.JSONOutput, "json", false, "Print the report as JSON")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewAdvisoryFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register advisory client
	if err := container.Provide(func(f *factory.AdvisoryFactory) (core.AdvisoryClient, error) {
		return f.CreateAdvisoryClient()
	}); err != nil {
		return nil, err
	}

	// Register trusted domains
	if err := container.Provide(func(cfg *config.Config) []string {
		return cfg.GetStringSlice("analysis.trusted_domains")
	}); err != nil {
		return nil, err
	}

	// Register analysis service with no cache
	if err := container.Provide(func(
		logger *zap.Logger,
		trustedDomains []string,
	) *core.AnalysisService {
		return core.NewAnalysisService(
			nil, // No cache for CLI
			logger,
			false,            // Cache disabled
			time.Duration(0), // No TTL
			trustedDomains,
		)
	}); err != nil {
		return nil, err
	}

	// Register advisory service
	if err := container.Provide(core.NewAdvisoryService); err != nil {
		return nil, err
	}

	// Register content frontend
	if err := container.Provide(func(f *factory.FrontendFactory) (ports.ContentFrontend, error) {
		return f.CreateContentFrontend()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set some cli specific settings
	v.Set("server.frontend_type", "cli")
	v.Set("cli.verbose", flags.Verbose)
	v.Set("cli.json_output", flags.JSONOutput)

	// Set the advisory provider; an empty provider disables the assistant
	v.Set("advisory.enabled", flags.Provider != "")
	v.Set("advisory.provider", flags.Provider)

	// Set provider-specific configuration
	switch flags.Provider {
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
		v.Set("bedrock.max_question_size", flags.MaxQuestionSize)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
		v.Set("gemini.max_question_size", flags.MaxQuestionSize)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
		v.Set("openai.max_question_size", flags.MaxQuestionSize)
	}

	// Set trusted domains
	if flags.TrustedDomains != "" {
		v.Set("analysis.trusted_domains", splitCommaList(flags.TrustedDomains))
	}

	return config.NewFromViper(v)
}

func splitCommaList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
