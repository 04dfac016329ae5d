package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query                string   `json:"query" jsonschema:"the search query"`
	K                    int      `json:"k,omitempty" jsonschema:"maximum number of results to return (default 20)"`
	Namespace            string   `json:"namespace,omitempty" jsonschema:"namespace to search (default: default)"`
	ExcludeFlags         []string `json:"exclude_flags,omitempty" jsonschema:"content flags to exclude; omit to exclude possible_prompt_injection, pass [] to disable"`
	MinTrustLevel        string   `json:"min_trust_level,omitempty" jsonschema:"drop documents below this trust level (low, medium, high)"`
	ExcludeOrigins       []string `json:"exclude_origins,omitempty" jsonschema:"source origins to exclude"`
	ContextProfile       string   `json:"context_profile,omitempty" jsonschema:"context weight profile name"`
	IncludeWeights       bool     `json:"include_weights,omitempty" jsonschema:"return the weight breakdown of every match"`
	EmitDecisionSnapshot bool     `json:"emit_decision_snapshot,omitempty" jsonschema:"record an auditable decision snapshot"`
	Intent               string   `json:"intent,omitempty" jsonschema:"intent recorded in the decision snapshot (default: the query)"`
}

// SearchOutput is the output schema for the search and related tools.
type SearchOutput struct {
	Matches    []MatchOutput `json:"matches"`
	Count      int           `json:"count"`
	DecisionID string        `json:"decision_id,omitempty"`
}

// MatchOutput represents a single match.
type MatchOutput struct {
	DocID      string                  `json:"doc_id"`
	Namespace  string                  `json:"namespace"`
	ChunkID    string                  `json:"chunk_id"`
	Score      float64                 `json:"score"`
	Text       string                  `json:"text"`
	Origin     string                  `json:"origin"`
	SourceID   string                  `json:"source_id"`
	TrustLevel string                  `json:"trust_level"`
	IngestedAt string                  `json:"ingested_at"`
	Flags      []string                `json:"flags,omitempty"`
	Weights    *domain.WeightBreakdown `json:"weights,omitempty"`
}

// ChunkInput is one chunk of an upserted document.
type ChunkInput struct {
	ID   string `json:"chunk_id,omitempty" jsonschema:"chunk id (default: doc_id#index)"`
	Text string `json:"text" jsonschema:"chunk text"`
}

// UpsertInput is the input schema for the upsert tool.
type UpsertInput struct {
	DocID      string       `json:"doc_id" jsonschema:"document id, unique within the namespace"`
	Namespace  string       `json:"namespace,omitempty" jsonschema:"target namespace (default: default)"`
	Chunks     []ChunkInput `json:"chunks,omitempty" jsonschema:"document chunks"`
	Text       string       `json:"text,omitempty" jsonschema:"raw text split into chunks by the server when chunks is empty"`
	Origin     string       `json:"origin" jsonschema:"where the content came from, e.g. chat or web"`
	SourceID   string       `json:"source_id" jsonschema:"identifier of the content at its origin"`
	Offset     string       `json:"offset,omitempty" jsonschema:"position within the source"`
	TrustLevel string       `json:"trust_level,omitempty" jsonschema:"low, medium or high (default medium)"`
	InjectedBy string       `json:"injected_by,omitempty" jsonschema:"agent or user that wrote the content"`
}

// UpsertOutput is the output schema for the upsert tool.
type UpsertOutput struct {
	Status    string   `json:"status"`
	Namespace string   `json:"namespace"`
	Ingested  int      `json:"ingested"`
	Flags     []string `json:"flags,omitempty"`
}

// RelatedInput is the input schema for the related tool.
type RelatedInput struct {
	DocID     string `json:"doc_id" jsonschema:"source document id"`
	Namespace string `json:"namespace,omitempty" jsonschema:"namespace of the source document"`
	K         int    `json:"k,omitempty" jsonschema:"maximum number of results"`
}

// ForgetInput is the input schema for the forget tool.
type ForgetInput struct {
	Namespace          string `json:"namespace,omitempty" jsonschema:"restrict to one namespace"`
	OlderThan          string `json:"older_than,omitempty" jsonschema:"RFC 3339 timestamp; match documents ingested before it"`
	SourceRefOrigin    string `json:"source_ref_origin,omitempty" jsonschema:"match documents from this origin"`
	DocID              string `json:"doc_id,omitempty" jsonschema:"match this document id"`
	AllowNamespaceWipe bool   `json:"allow_namespace_wipe,omitempty" jsonschema:"allow deleting a whole namespace"`
	Reason             string `json:"reason,omitempty" jsonschema:"audit reason, required unless dry_run"`
	Confirm            bool   `json:"confirm,omitempty" jsonschema:"must be true to delete"`
	DryRun             bool   `json:"dry_run,omitempty" jsonschema:"report matches without deleting"`
}

// ForgetOutput is the output schema for the forget tool.
type ForgetOutput struct {
	MatchedCount int      `json:"matched_count"`
	DeletedCount int      `json:"deleted_count"`
	DocIDs       []string `json:"doc_ids"`
	DryRun       bool     `json:"dry_run"`
}

// StatsInput is the empty input of the stats tool.
type StatsInput struct{}

// OutcomeInput is the input schema for the record_outcome tool.
type OutcomeInput struct {
	DecisionID   string `json:"decision_id" jsonschema:"decision id returned by search"`
	Outcome      string `json:"outcome" jsonschema:"success, failure or neutral"`
	SignalSource string `json:"signal_source" jsonschema:"user, system or policy"`
	Notes        string `json:"notes,omitempty" jsonschema:"free-form notes"`
}

// OutcomeOutput is the output schema for the record_outcome tool.
type OutcomeOutput struct {
	Status     string `json:"status"`
	DecisionID string `json:"decision_id"`
	Timestamp  string `json:"timestamp"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search memory with trust, recency and context weighting",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "upsert",
		Description: "Store a document with its provenance; contaminated content may be quarantined",
	}, s.handleUpsert)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "related",
		Description: "Find documents that share vocabulary with a stored document",
	}, s.handleRelated)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "forget",
		Description: "Delete documents by filter; run with dry_run first, then confirm",
	}, s.handleForget)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "stats",
		Description: "Summarise index contents and active policies",
	}, s.handleStats)

	if s.ports.Audit != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "record_outcome",
			Description: "Record whether a search decision worked out",
		}, s.handleRecordOutcome)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	req := domain.SearchRequest{
		Query:                input.Query,
		K:                    input.K,
		Namespace:            input.Namespace,
		ExcludeOrigins:       input.ExcludeOrigins,
		ContextProfile:       input.ContextProfile,
		IncludeWeights:       input.IncludeWeights,
		EmitDecisionSnapshot: input.EmitDecisionSnapshot,
		Intent:               input.Intent,
	}
	if input.ExcludeFlags != nil {
		req.ExcludeFlags = make([]domain.ContentFlag, 0, len(input.ExcludeFlags))
		for _, name := range input.ExcludeFlags {
			flag, err := domain.ParseContentFlag(name)
			if err != nil {
				return nil, SearchOutput{}, domain.NewValidationError(domain.CodeInvalidValue, "exclude_flags", err.Error())
			}
			req.ExcludeFlags = append(req.ExcludeFlags, flag)
		}
	}
	if input.MinTrustLevel != "" {
		level, err := domain.ParseTrustLevel(input.MinTrustLevel)
		if err != nil {
			return nil, SearchOutput{}, domain.NewValidationError(domain.CodeInvalidValue, "min_trust_level", err.Error())
		}
		req.MinTrustLevel = &level
	}

	resp, err := s.ports.Index.Search(ctx, req)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	output := toSearchOutput(resp.Matches)
	output.DecisionID = resp.DecisionID
	return nil, output, nil
}

// handleUpsert handles the upsert tool invocation.
func (s *Server) handleUpsert(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpsertInput,
) (*mcp.CallToolResult, UpsertOutput, error) {
	level, err := domain.ParseTrustLevel(input.TrustLevel)
	if err != nil {
		return nil, UpsertOutput{}, domain.NewValidationError(domain.CodeInvalidValue, "trust_level", err.Error())
	}
	chunks := make([]domain.Chunk, len(input.Chunks))
	for i, c := range input.Chunks {
		chunks[i] = domain.Chunk{ID: c.ID, Text: c.Text}
	}

	res, err := s.ports.Index.Upsert(ctx, domain.UpsertRequest{
		DocID:     input.DocID,
		Namespace: input.Namespace,
		Chunks:    chunks,
		Text:      input.Text,
		SourceRef: &domain.SourceRef{
			Origin:     input.Origin,
			ID:         input.SourceID,
			Offset:     input.Offset,
			TrustLevel: level,
			InjectedBy: input.InjectedBy,
		},
	})
	if err != nil {
		return nil, UpsertOutput{}, err
	}
	return nil, UpsertOutput{
		Status:    string(res.Status),
		Namespace: res.Namespace,
		Ingested:  res.Ingested,
		Flags:     flagNames(res.Flags),
	}, nil
}

// handleRelated handles the related tool invocation.
func (s *Server) handleRelated(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RelatedInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	matches, err := s.ports.Index.Related(ctx, domain.RelatedRequest{
		DocID:     input.DocID,
		Namespace: input.Namespace,
		K:         input.K,
	})
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, toSearchOutput(matches), nil
}

// handleForget handles the forget tool invocation.
func (s *Server) handleForget(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ForgetInput,
) (*mcp.CallToolResult, ForgetOutput, error) {
	filter := domain.ForgetFilter{
		Namespace:          input.Namespace,
		SourceRefOrigin:    input.SourceRefOrigin,
		DocID:              input.DocID,
		AllowNamespaceWipe: input.AllowNamespaceWipe,
	}
	if input.OlderThan != "" {
		ts, err := time.Parse(time.RFC3339, input.OlderThan)
		if err != nil {
			return nil, ForgetOutput{}, domain.NewValidationError(domain.CodeInvalidValue, "older_than",
				"older_than must be an RFC 3339 timestamp")
		}
		filter.OlderThan = &ts
	}

	res, err := s.ports.Index.Forget(ctx, domain.ForgetRequest{
		Filter:  filter,
		Reason:  input.Reason,
		Confirm: input.Confirm,
		DryRun:  input.DryRun,
	})
	if err != nil {
		return nil, ForgetOutput{}, err
	}
	return nil, ForgetOutput{
		MatchedCount: res.MatchedCount,
		DeletedCount: res.DeletedCount,
		DocIDs:       res.DocIDs,
		DryRun:       res.DryRun,
	}, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, domain.IndexStats, error) {
	stats, err := s.ports.Index.Stats(ctx)
	if err != nil {
		return nil, domain.IndexStats{}, err
	}
	return nil, stats, nil
}

// handleRecordOutcome handles the record_outcome tool invocation.
func (s *Server) handleRecordOutcome(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input OutcomeInput,
) (*mcp.CallToolResult, OutcomeOutput, error) {
	out, err := s.ports.Audit.RecordOutcome(ctx, domain.DecisionOutcome{
		DecisionID:   input.DecisionID,
		Outcome:      domain.Outcome(input.Outcome),
		SignalSource: domain.SignalSource(input.SignalSource),
		Notes:        input.Notes,
	})
	if err != nil {
		return nil, OutcomeOutput{}, err
	}
	return nil, OutcomeOutput{
		Status:     "recorded",
		DecisionID: out.DecisionID,
		Timestamp:  out.Timestamp.Format(time.RFC3339Nano),
	}, nil
}

func toSearchOutput(matches []domain.SearchMatch) SearchOutput {
	output := SearchOutput{
		Matches: make([]MatchOutput, len(matches)),
		Count:   len(matches),
	}
	for i := range matches {
		m := &matches[i]
		output.Matches[i] = MatchOutput{
			DocID:      m.DocID,
			Namespace:  m.Namespace,
			ChunkID:    m.ChunkID,
			Score:      m.Score,
			Text:       m.Text,
			Origin:     m.SourceRef.Origin,
			SourceID:   m.SourceRef.ID,
			TrustLevel: m.SourceRef.TrustLevel.Effective().String(),
			IngestedAt: m.IngestedAt.Format(time.RFC3339Nano),
			Flags:      flagNames(m.Flags),
			Weights:    m.Weights,
		}
	}
	return output
}

func flagNames(flags []domain.ContentFlag) []string {
	if len(flags) == 0 {
		return nil
	}
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = f.String()
	}
	return names
}
