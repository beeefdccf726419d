package ports

import (
	"context"

	"github.com/mikey/phish-detect/internal/core"
)

// AdvisoryClient defines the interface for the conversational advisory
// backend
type AdvisoryClient interface {
	// Advise returns advisory text for a free-text question
	Advise(ctx context.Context, question string, report *core.AnalysisReport) (*core.Advice, error)
}
