package ports

import (
	"context"

	"github.com/mikey/phish-detect/internal/core"
)

// ContentFrontend defines the interface for the presentation boundary that
// feeds content into the analysis service
type ContentFrontend interface {
	// ProcessContent analyzes one piece of content and returns the report
	ProcessContent(ctx context.Context, content string, contentType core.ContentType) (*core.AnalysisReport, error)

	// Start starts the frontend
	Start() error

	// Stop stops the frontend
	Stop() error
}
