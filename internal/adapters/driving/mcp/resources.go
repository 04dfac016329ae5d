package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rotisserie/eris"
)

const (
	// uriScheme is the custom URI scheme for indexd resources.
	uriScheme = "indexd://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "stats",
		Description: "Index statistics",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "policies",
		Name:        "policies",
		Description: "Active trust and context policies",
		MIMEType:    "application/json",
	}, s.handlePoliciesResource)

	if s.ports.Audit != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "decisions/{decisionId}",
			Name:        "decision-snapshot",
			Description: "Audit snapshot of one search decision",
			MIMEType:    "application/json",
		}, s.handleDecisionResource)
	}
}

// handleStatsResource returns index statistics.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Index.Stats(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "reading stats")
	}
	return jsonResource(req.Params.URI, stats)
}

// handlePoliciesResource returns the active policies.
func (s *Server) handlePoliciesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.ports.Index.Policies())
}

// handleDecisionResource returns one decision snapshot.
func (s *Server) handleDecisionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// indexd://decisions/{decisionId}
	id := extractDecisionID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	snap, err := s.ports.Audit.Snapshot(ctx, id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, snap)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "marshalling resource")
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDecisionID extracts the decision ID from a URI like indexd://decisions/{decisionId}.
func extractDecisionID(uri string) string {
	const prefix = uriScheme + "decisions/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
