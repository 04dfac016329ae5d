package driving

import (
	"context"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

// IndexService is the retrieval index façade.
type IndexService interface {
	// Upsert inserts or replaces a document, quarantining contaminated content.
	Upsert(ctx context.Context, req domain.UpsertRequest) (domain.UpsertResult, error)

	// Search returns ranked matches for a query.
	Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error)

	// Related returns documents sharing vocabulary with a document.
	Related(ctx context.Context, req domain.RelatedRequest) ([]domain.SearchMatch, error)

	// Forget deletes documents matching a filter, subject to safety gates.
	Forget(ctx context.Context, req domain.ForgetRequest) (domain.ForgetResult, error)

	// SetRetentionConfig replaces the retention config of a namespace.
	SetRetentionConfig(ctx context.Context, namespace string, cfg domain.RetentionConfig) error

	// RetentionConfig returns the retention config of a namespace.
	RetentionConfig(ctx context.Context, namespace string) (domain.RetentionConfig, bool)

	// RetentionConfigs returns a copy of every retention config.
	RetentionConfigs(ctx context.Context) map[string]domain.RetentionConfig

	// PreviewDecay reports decay state without mutating anything.
	// An empty namespace previews every namespace.
	PreviewDecay(ctx context.Context, namespace string) ([]domain.DecayPreview, error)

	// Stats summarises the index.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// ApplyPolicies swaps the active weighting policies.
	ApplyPolicies(cfg *domain.PolicyConfig)

	// Policies returns the active weighting policies.
	Policies() *domain.PolicyConfig
}
