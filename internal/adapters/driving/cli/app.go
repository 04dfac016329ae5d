package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	promrecorder "github.com/custodia-labs/indexd/internal/adapters/driven/metrics/prometheus"
	"github.com/custodia-labs/indexd/internal/adapters/driven/policy/file"
	"github.com/custodia-labs/indexd/internal/adapters/driven/similarity/lexical"
	"github.com/custodia-labs/indexd/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/indexd/internal/config"
	"github.com/custodia-labs/indexd/internal/core/services"
	"github.com/custodia-labs/indexd/internal/postprocessors/chunker"
)

// app holds the wired services shared by serve and mcp.
type app struct {
	index    *services.IndexService
	audit    *services.AuditTrail
	registry *prometheus.Registry
	loader   *file.Loader
}

// newApp wires the in-memory index from configuration.
// Policy load failures are logged and never fatal.
func newApp(ctx context.Context, c *config.Config) (*app, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := promrecorder.NewRecorder(registry)

	audit := services.NewAuditTrail(memory.NewDecisionStore(c.Audit.MaxSnapshots, c.Audit.MaxOutcomes))
	audit.SetMetrics(recorder)

	index := services.NewIndexService(memory.NewDocumentStore(), lexical.New(), audit)
	index.SetMetrics(recorder)
	index.SetLimits(c.Search.DefaultK, c.Search.MaxK)
	index.SetChunker(chunker.New(chunker.WithChunkSize(c.Chunking.Size), chunker.WithOverlap(c.Chunking.Overlap)))

	loader := file.NewLoader(c.Policy.TrustPath, c.Policy.ContextPath)
	policies, err := loader.Load(ctx)
	if err != nil {
		zap.L().Warn("policy load failed, using defaults", zap.Error(err))
	}
	index.ApplyPolicies(policies)

	for _, ns := range c.RetentionNamespaces() {
		rc, err := c.Retention[ns].ToDomain()
		if err != nil {
			return nil, eris.Wrapf(err, "retention config for namespace %q", ns)
		}
		if err := index.SetRetentionConfig(ctx, ns, rc); err != nil {
			return nil, eris.Wrapf(err, "apply retention for namespace %q", ns)
		}
	}

	return &app{
		index:    index,
		audit:    audit,
		registry: registry,
		loader:   loader,
	}, nil
}
