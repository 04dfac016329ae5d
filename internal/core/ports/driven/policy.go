package driven

import (
	"context"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

// PolicyLoader reads weighting policies.
type PolicyLoader interface {
	// Load always returns a usable configuration. A non-nil error reports
	// the problems that caused a fallback to defaults.
	Load(ctx context.Context) (*domain.PolicyConfig, error)
}
