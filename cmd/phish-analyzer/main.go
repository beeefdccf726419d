package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mikey/phish-detect/internal/core"
	"github.com/mikey/phish-detect/internal/di"
	"github.com/mikey/phish-detect/internal/ports"
	"github.com/mikey/phish-detect/internal/trustlist"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(runAnalyzer); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// runAnalyzer reads one piece of content, analyzes it and prints the report
func runAnalyzer(
	flags *di.CLIFlags,
	logger *zap.Logger,
	frontend ports.ContentFrontend,
	advisory *core.AdvisoryService,
	advisoryClient core.AdvisoryClient,
	trustedDomains []string,
) error {
	defer logger.Sync()

	contentType, err := parseContentType(flags.ContentType)
	if err != nil {
		return err
	}

	content, err := readContent(flags, logger)
	if err != nil {
		return err
	}

	// Announce a trustlist hit before analysis so the bypass is visible
	checker := trustlist.NewChecker(trustedDomains, logger)
	if host := core.FirstURLHost(content); host != "" && checker.IsTrusted(host) {
		logger.Info("First linked domain is trusted, scoring will be bypassed",
			zap.String("host", host))
	}

	report, err := frontend.ProcessContent(context.Background(), content, contentType)
	if err != nil {
		return err
	}

	if flags.Question != "" {
		advice := advisory.Advise(context.Background(), flags.Question, report)
		fmt.Printf("\n=== Advice ===\n")
		fmt.Printf("%s\n", advice.Text)
		fmt.Printf("(model: %s)\n", advice.ModelUsed)
	}

	// Close any resources that need closing
	if closer, ok := advisoryClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close advisory client", zap.Error(err))
		}
	}

	return nil
}

// readContent reads the content to analyze from the input file or stdin
func readContent(flags *di.CLIFlags, logger *zap.Logger) (string, error) {
	if flags.InputFile != "" {
		data, err := os.ReadFile(flags.InputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		logger.Debug("Read content from file", zap.String("file", flags.InputFile))
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	logger.Debug("Read content from stdin")
	return string(data), nil
}

func parseContentType(value string) (core.ContentType, error) {
	switch core.ContentType(strings.ToLower(strings.TrimSpace(value))) {
	case core.ContentTypeEmail:
		return core.ContentTypeEmail, nil
	case core.ContentTypeURL:
		return core.ContentTypeURL, nil
	case core.ContentTypeSMS:
		return core.ContentTypeSMS, nil
	case core.ContentTypeSocial:
		return core.ContentTypeSocial, nil
	default:
		return "", fmt.Errorf("unknown content type %q (expected email, url, sms or social)", value)
	}
}
