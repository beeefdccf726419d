package factory

import (
	"fmt"

	"github.com/mikey/phish-detect/internal/adapters/bedrock"
	"github.com/mikey/phish-detect/internal/adapters/gemini"
	"github.com/mikey/phish-detect/internal/adapters/openai"
	"github.com/mikey/phish-detect/internal/config"
	"github.com/mikey/phish-detect/internal/core"
	"github.com/mikey/phish-detect/internal/utils"
	"go.uber.org/zap"
)

// AdvisoryFactory creates advisory clients
type AdvisoryFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewAdvisoryFactory creates a new advisory factory
func NewAdvisoryFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *AdvisoryFactory {
	return &AdvisoryFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateAdvisoryClient creates an advisory client based on the configuration.
// A disabled advisory section yields a nil client; the advisory service
// treats that as "always answer with fallback text".
func (f *AdvisoryFactory) CreateAdvisoryClient() (core.AdvisoryClient, error) {
	advisoryCfg := f.cfg.GetAdvisory()

	if !advisoryCfg.Enabled {
		f.logger.Info("Advisory assistant disabled, fallback answers only")
		return nil, nil
	}

	switch advisoryCfg.Provider {
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateClient()
	case "gemini":
		if f.cfg.GetGemini().APIKey == "" {
			return nil, fmt.Errorf("gemini API key is required")
		}
		factory := gemini.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateClient()
	case "openai":
		if f.cfg.GetOpenAI().APIKey == "" {
			return nil, fmt.Errorf("openai API key is required")
		}
		factory := openai.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateClient()
	default:
		return nil, fmt.Errorf("unsupported advisory provider: %s", advisoryCfg.Provider)
	}
}
