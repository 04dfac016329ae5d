package mcp

import (
	"github.com/custodia-labs/indexd/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Index provides upsert, search and forget.
	Index driving.IndexService

	// Audit exposes decision snapshots and outcome feedback.
	Audit driving.AuditService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Index == nil {
		return ErrMissingIndexService
	}
	// Audit is optional; without it the outcome tool and decision resources are absent.
	return nil
}
