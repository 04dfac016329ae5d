package mcp

import (
	"context"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	searchReq  domain.SearchRequest
	searchResp domain.SearchResponse
	upsertReq  domain.UpsertRequest
	upsertRes  domain.UpsertResult
	forgetReq  domain.ForgetRequest
	forgetRes  domain.ForgetResult
	related    []domain.SearchMatch
	stats      domain.IndexStats
	policies   *domain.PolicyConfig
	err        error
}

func (m *mockIndexService) Upsert(_ context.Context, req domain.UpsertRequest) (domain.UpsertResult, error) {
	m.upsertReq = req
	return m.upsertRes, m.err
}

func (m *mockIndexService) Search(_ context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	m.searchReq = req
	return m.searchResp, m.err
}

func (m *mockIndexService) Related(_ context.Context, _ domain.RelatedRequest) ([]domain.SearchMatch, error) {
	return m.related, m.err
}

func (m *mockIndexService) Forget(_ context.Context, req domain.ForgetRequest) (domain.ForgetResult, error) {
	m.forgetReq = req
	return m.forgetRes, m.err
}

func (m *mockIndexService) SetRetentionConfig(_ context.Context, _ string, _ domain.RetentionConfig) error {
	return m.err
}

func (m *mockIndexService) RetentionConfig(_ context.Context, _ string) (domain.RetentionConfig, bool) {
	return domain.RetentionConfig{}, false
}

func (m *mockIndexService) RetentionConfigs(_ context.Context) map[string]domain.RetentionConfig {
	return nil
}

func (m *mockIndexService) PreviewDecay(_ context.Context, _ string) ([]domain.DecayPreview, error) {
	return nil, m.err
}

func (m *mockIndexService) Stats(_ context.Context) (domain.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockIndexService) ApplyPolicies(cfg *domain.PolicyConfig) {
	m.policies = cfg
}

func (m *mockIndexService) Policies() *domain.PolicyConfig {
	if m.policies == nil {
		return domain.DefaultPolicyConfig()
	}
	return m.policies
}

// mockAuditService is a mock implementation of driving.AuditService.
type mockAuditService struct {
	snapshot *domain.DecisionSnapshot
	outcome  domain.DecisionOutcome
	err      error
}

func (m *mockAuditService) Snapshot(_ context.Context, _ string) (*domain.DecisionSnapshot, error) {
	return m.snapshot, m.err
}

func (m *mockAuditService) Snapshots(_ context.Context) ([]domain.DecisionSnapshot, error) {
	if m.snapshot == nil {
		return nil, m.err
	}
	return []domain.DecisionSnapshot{*m.snapshot}, m.err
}

func (m *mockAuditService) RecordOutcome(_ context.Context, o domain.DecisionOutcome) (domain.DecisionOutcome, error) {
	if m.err != nil {
		return domain.DecisionOutcome{}, m.err
	}
	m.outcome = o
	return o, nil
}

func (m *mockAuditService) Outcome(_ context.Context, _ string) (*domain.DecisionOutcome, error) {
	return &m.outcome, m.err
}

func (m *mockAuditService) Outcomes(_ context.Context) ([]domain.DecisionOutcome, error) {
	return []domain.DecisionOutcome{m.outcome}, m.err
}
