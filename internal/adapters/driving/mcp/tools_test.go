package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

func newTestServer(t *testing.T, index *mockIndexService, audit *mockAuditService) *Server {
	t.Helper()
	ports := &Ports{Index: index}
	if audit != nil {
		ports.Audit = audit
	}
	server, err := NewServer(ports, "test")
	require.NoError(t, err)
	return server
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()
	ingested := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("returns matches", func(t *testing.T) {
		index := &mockIndexService{
			searchResp: domain.SearchResponse{
				Matches: []domain.SearchMatch{{
					DocID:      "doc-1",
					Namespace:  "notes",
					ChunkID:    "doc-1#0",
					Score:      0.42,
					Text:       "matched text",
					SourceRef:  domain.SourceRef{Origin: "chat", ID: "m1"},
					IngestedAt: ingested,
					Flags:      []domain.ContentFlag{domain.FlagImperativeLanguage},
				}},
				DecisionID: "dec-1",
			},
		}
		server := newTestServer(t, index, nil)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "text", MinTrustLevel: "high"})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "dec-1", output.DecisionID)
		m := output.Matches[0]
		assert.Equal(t, "doc-1", m.DocID)
		assert.Equal(t, "chat", m.Origin)
		assert.Equal(t, "medium", m.TrustLevel)
		assert.Equal(t, "2025-05-01T08:00:00Z", m.IngestedAt)
		assert.Equal(t, []string{"imperative_language"}, m.Flags)
		require.NotNil(t, index.searchReq.MinTrustLevel)
		assert.Equal(t, domain.TrustHigh, *index.searchReq.MinTrustLevel)
		assert.Nil(t, index.searchReq.ExcludeFlags)
	})

	t.Run("empty exclude flags disables filtering", func(t *testing.T) {
		index := &mockIndexService{}
		server := newTestServer(t, index, nil)

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "x", ExcludeFlags: []string{}})

		require.NoError(t, err)
		assert.NotNil(t, index.searchReq.ExcludeFlags)
		assert.Empty(t, index.searchReq.ExcludeFlags)
	})

	t.Run("rejects unknown flag", func(t *testing.T) {
		server := newTestServer(t, &mockIndexService{}, nil)

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "x", ExcludeFlags: []string{"spicy"}})

		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("rejects unknown trust level", func(t *testing.T) {
		server := newTestServer(t, &mockIndexService{}, nil)

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "x", MinTrustLevel: "absolute"})

		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		server := newTestServer(t, &mockIndexService{err: errors.New("search failed")}, nil)

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleUpsert(t *testing.T) {
	ctx := context.Background()
	index := &mockIndexService{
		upsertRes: domain.UpsertResult{
			Status:    domain.UpsertQuarantined,
			Namespace: domain.QuarantineNamespace,
			Ingested:  1,
			Flags:     []domain.ContentFlag{domain.FlagPossiblePromptInjection},
		},
	}
	server := newTestServer(t, index, nil)

	_, output, err := server.handleUpsert(ctx, nil, UpsertInput{
		DocID:      "a",
		Chunks:     []ChunkInput{{Text: "hello"}},
		Origin:     "web",
		SourceID:   "https://example.com",
		TrustLevel: "low",
	})

	require.NoError(t, err)
	assert.Equal(t, "quarantined", output.Status)
	assert.Equal(t, []string{"possible_prompt_injection"}, output.Flags)
	require.NotNil(t, index.upsertReq.SourceRef)
	assert.Equal(t, domain.TrustLow, index.upsertReq.SourceRef.TrustLevel)
	assert.Equal(t, "web", index.upsertReq.SourceRef.Origin)

	_, _, err = server.handleUpsert(ctx, nil, UpsertInput{DocID: "a", TrustLevel: "bogus"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestServer_handleForget(t *testing.T) {
	ctx := context.Background()
	index := &mockIndexService{forgetRes: domain.ForgetResult{MatchedCount: 2, DocIDs: []string{"a", "b"}, DryRun: true}}
	server := newTestServer(t, index, nil)

	_, output, err := server.handleForget(ctx, nil, ForgetInput{
		OlderThan: "2025-01-01T00:00:00Z",
		DryRun:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, output.MatchedCount)
	assert.True(t, output.DryRun)
	require.NotNil(t, index.forgetReq.Filter.OlderThan)
	assert.Equal(t, 2025, index.forgetReq.Filter.OlderThan.Year())

	_, _, err = server.handleForget(ctx, nil, ForgetInput{OlderThan: "yesterday"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestServer_handleRelatedAndStats(t *testing.T) {
	ctx := context.Background()
	index := &mockIndexService{
		related: []domain.SearchMatch{{DocID: "b", Score: 0.2}},
		stats:   domain.IndexStats{TotalDocs: 3},
	}
	server := newTestServer(t, index, nil)

	_, related, err := server.handleRelated(ctx, nil, RelatedInput{DocID: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, related.Count)

	_, stats, err := server.handleStats(ctx, nil, StatsInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalDocs)
}

func TestServer_handleRecordOutcome(t *testing.T) {
	ctx := context.Background()
	audit := &mockAuditService{}
	server := newTestServer(t, &mockIndexService{}, audit)

	_, output, err := server.handleRecordOutcome(ctx, nil, OutcomeInput{
		DecisionID:   "dec-1",
		Outcome:      "success",
		SignalSource: "user",
	})

	require.NoError(t, err)
	assert.Equal(t, "recorded", output.Status)
	assert.Equal(t, domain.OutcomeSuccess, audit.outcome.Outcome)
	assert.Equal(t, domain.SignalUser, audit.outcome.SignalSource)
}
