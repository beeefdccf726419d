package factory

import (
	"fmt"
	"time"

	"github.com/mikey/phish-detect/internal/adapters/frontend"
	"github.com/mikey/phish-detect/internal/config"
	"github.com/mikey/phish-detect/internal/core"
	"github.com/mikey/phish-detect/internal/ports"
	"github.com/mikey/phish-detect/internal/utils"
	"go.uber.org/zap"
)

// FrontendFactory creates content frontends based on configuration
type FrontendFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	service       *core.AnalysisService
	advisory      *core.AdvisoryService
	textProcessor *utils.TextProcessor
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(
	cfg *config.Config,
	logger *zap.Logger,
	service *core.AnalysisService,
	advisory *core.AdvisoryService,
	textProcessor *utils.TextProcessor,
) *FrontendFactory {
	return &FrontendFactory{
		cfg:           cfg,
		logger:        logger,
		service:       service,
		advisory:      advisory,
		textProcessor: textProcessor,
	}
}

// CreateContentFrontend creates a content frontend based on the configuration
func (f *FrontendFactory) CreateContentFrontend() (ports.ContentFrontend, error) {
	frontendType := f.cfg.GetString("server.frontend_type")

	switch frontendType {
	case "http":
		httpCfg := f.cfg.GetHTTP()

		readTimeout, err := time.ParseDuration(httpCfg.ReadTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP read timeout: %w", err)
		}
		writeTimeout, err := time.ParseDuration(httpCfg.WriteTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP write timeout: %w", err)
		}

		return frontend.NewHTTPFrontend(
			f.service,
			f.advisory,
			f.textProcessor,
			f.logger,
			httpCfg.ListenAddress,
			httpCfg.AllowedOrigins,
			readTimeout,
			writeTimeout,
			int64(httpCfg.MaxBodyBytes),
		), nil
	case "smtp":
		smtpCfg := f.cfg.GetSMTP()

		return frontend.NewSMTPFrontend(
			f.service,
			f.textProcessor,
			f.logger,
			smtpCfg.ListenAddress,
			smtpCfg.BlockCritical,
			smtpCfg.RiskHeader,
			smtpCfg.ScoreHeader,
			smtpCfg.ReasonHeader,
			smtpCfg.PostfixAddress,
			smtpCfg.PostfixPort,
			smtpCfg.PostfixEnabled,
			smtpCfg.SubjectPrefix,
			smtpCfg.ModifySubject,
		), nil
	case "cli":
		return frontend.NewCLIFrontend(
			f.service,
			f.textProcessor,
			f.logger,
			f.cfg.GetBool("cli.verbose"),
			f.cfg.GetBool("cli.json_output"),
		)
	default:
		return nil, fmt.Errorf("unsupported frontend type: %s", frontendType)
	}
}
