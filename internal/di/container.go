package di

import (
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

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewAdvisoryFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
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

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register cache TTL and enabled flag
	if err := container.Provide(func(f *factory.CacheFactory) (time.Duration, error) {
		return f.GetCacheTTL()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return nil, err
	}

	// Register trusted domains
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) []string {
		trustedDomains := cfg.GetStringSlice("analysis.trusted_domains")
		if len(trustedDomains) > 0 {
			logger.Info("Loaded trusted domains", zap.Strings("domains", trustedDomains))
		}
		return trustedDomains
	}); err != nil {
		return nil, err
	}

	// Register analysis and advisory services
	if err := container.Provide(core.NewAnalysisService); err != nil {
		return nil, err
	}
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
