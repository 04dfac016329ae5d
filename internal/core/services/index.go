package services

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/custodia-labs/indexd/internal/core/domain"
	"github.com/custodia-labs/indexd/internal/core/ports/driven"
	"github.com/custodia-labs/indexd/internal/core/ports/driving"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

const (
	defaultSearchK = 20
	maxSearchK     = 100

	// relatedMinWordLen is the rune length a word must exceed to count
	// towards related-document overlap.
	relatedMinWordLen = 3
	relatedWordScore  = 0.1
)

// IndexService is the decision-weighted retrieval index.
//
// One RWMutex guards the document store and the retention configs: reads
// (search, related, preview, stats) share it, while upsert with its purge,
// forget and retention updates hold it exclusively. Policies are swapped
// atomically and never block readers.
type IndexService struct {
	mu        sync.RWMutex
	store     driven.DocumentStore
	retention map[string]domain.RetentionConfig

	scorer   driven.SimilarityScorer
	chunker  driven.Chunker
	audit    *AuditTrail
	metrics  driven.MetricsRecorder
	policies atomic.Pointer[domain.PolicyConfig]

	now      func() time.Time
	defaultK int
	maxK     int
	log      *zap.Logger
}

// NewIndexService creates an index over the given store.
// The audit trail is optional; without it decision snapshots are skipped.
func NewIndexService(
	store driven.DocumentStore,
	scorer driven.SimilarityScorer,
	audit *AuditTrail,
) *IndexService {
	s := &IndexService{
		store:     store,
		retention: make(map[string]domain.RetentionConfig),
		scorer:    scorer,
		audit:     audit,
		metrics:   nopMetrics{},
		now:       time.Now,
		defaultK:  defaultSearchK,
		maxK:      maxSearchK,
		log:       zap.L().Named("index"),
	}
	s.policies.Store(domain.DefaultPolicyConfig())
	return s
}

// SetMetrics sets the metrics recorder.
func (s *IndexService) SetMetrics(m driven.MetricsRecorder) {
	if m == nil {
		m = nopMetrics{}
	}
	s.metrics = m
}

// SetClock overrides the time source.
func (s *IndexService) SetClock(now func() time.Time) {
	s.now = now
}

// SetLimits sets the default and maximum result counts.
func (s *IndexService) SetLimits(defaultK, maxK int) {
	if defaultK > 0 {
		s.defaultK = defaultK
	}
	if maxK > 0 {
		s.maxK = maxK
	}
}

// SetChunker sets the splitter used for upserts that carry raw text.
// Without one the text becomes a single chunk.
func (s *IndexService) SetChunker(c driven.Chunker) {
	s.chunker = c
}

func (s *IndexService) splitText(text string) []domain.Chunk {
	if s.chunker == nil {
		return []domain.Chunk{{Text: text}}
	}
	parts := s.chunker.Split(text)
	chunks := make([]domain.Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = domain.Chunk{Text: p}
	}
	return chunks
}

// SetLogger replaces the service logger.
func (s *IndexService) SetLogger(l *zap.Logger) {
	s.log = l
}

// ApplyPolicies swaps the active policies. A nil config restores defaults.
func (s *IndexService) ApplyPolicies(cfg *domain.PolicyConfig) {
	if cfg == nil {
		cfg = domain.DefaultPolicyConfig()
	}
	prev := s.policies.Swap(cfg)
	if prev == nil || prev.Hash != cfg.Hash {
		s.log.Info("policies applied",
			zap.String("policy_hash", cfg.Hash),
			zap.String("policy_source", string(cfg.Source)))
	}
}

// Policies returns the active policies.
func (s *IndexService) Policies() *domain.PolicyConfig {
	return s.policies.Load()
}

// Upsert inserts or replaces a document.
// Contaminated content from insufficiently trusted sources is written to the
// quarantine namespace instead of the requested one.
func (s *IndexService) Upsert(ctx context.Context, req domain.UpsertRequest) (domain.UpsertResult, error) {
	if err := req.SourceRef.Validate(); err != nil {
		return domain.UpsertResult{}, err
	}
	docID := strings.TrimSpace(req.DocID)
	if docID == "" {
		return domain.UpsertResult{}, domain.NewValidationError(domain.CodeMissingDocID, "doc_id", "doc_id is required")
	}
	namespace := domain.NormalizeNamespace(req.Namespace)
	if namespace == domain.QuarantineNamespace {
		return domain.UpsertResult{}, domain.NewValidationError(domain.CodeReservedNamespace, "namespace",
			"the quarantine namespace is reserved")
	}

	ref := *req.SourceRef
	if ref.TrustLevel == domain.TrustUnspecified {
		s.log.Info("trust level unspecified, assuming medium",
			zap.String("doc_id", docID),
			zap.String("origin", ref.Origin))
	}

	raw := req.Chunks
	if len(raw) == 0 && strings.TrimSpace(req.Text) != "" {
		raw = s.splitText(req.Text)
	}
	chunks := make([]domain.Chunk, len(raw))
	for i, c := range raw {
		if strings.TrimSpace(c.ID) == "" {
			c.ID = domain.DefaultChunkID(docID, i)
		}
		chunks[i] = c
	}

	flags := ScanChunks(chunks)
	status := domain.UpsertStored
	target := namespace
	if ShouldQuarantine(flags, ref.TrustLevel) {
		status = domain.UpsertQuarantined
		target = domain.QuarantineNamespace
		s.log.Warn("document quarantined",
			zap.String("doc_id", docID),
			zap.String("original_namespace", namespace),
			zap.Stringer("trust_level", ref.TrustLevel.Effective()),
			zap.Stringers("flags", flags))
	} else if len(flags) > 0 {
		s.log.Info("content flags detected",
			zap.String("doc_id", docID),
			zap.String("namespace", namespace),
			zap.Stringer("trust_level", ref.TrustLevel.Effective()),
			zap.Stringers("flags", flags))
	}

	doc := &domain.Document{
		ID:        docID,
		Namespace: target,
		Chunks:    chunks,
		Meta:      req.Meta,
		SourceRef: ref,
		Flags:     flags,
	}

	s.mu.Lock()
	doc.IngestedAt = s.now()
	if err := s.store.Put(ctx, doc); err != nil {
		s.mu.Unlock()
		return domain.UpsertResult{}, err
	}
	purged, err := s.purgeLocked(ctx, target, doc.IngestedAt)
	if err != nil {
		s.mu.Unlock()
		return domain.UpsertResult{}, err
	}
	quarantined, err := s.store.Count(ctx, domain.QuarantineNamespace)
	s.mu.Unlock()
	if err != nil {
		return domain.UpsertResult{}, err
	}

	for _, f := range flags {
		s.metrics.ContentFlagged(f)
	}
	if status == domain.UpsertQuarantined {
		s.metrics.Quarantined()
	}
	s.metrics.QuarantineSize(quarantined)
	if len(purged) > 0 {
		s.metrics.Forgotten(domain.ForgetRetention, len(purged))
	}

	s.log.Debug("document upserted",
		zap.String("doc_id", docID),
		zap.String("namespace", target),
		zap.Int("chunks", len(chunks)))

	return domain.UpsertResult{
		Status:    status,
		Namespace: target,
		Ingested:  len(chunks),
		Flags:     flags,
	}, nil
}

// Search returns the top-k weighted matches for a query.
// Every chunk with non-zero similarity in an admitted document is a
// candidate; the audit snapshot records all candidates before truncation.
func (s *IndexService) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	resp := domain.SearchResponse{Matches: []domain.SearchMatch{}}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return resp, nil
	}
	namespace := domain.NormalizeNamespace(req.Namespace)
	k := clampK(req.K, s.defaultK, s.maxK)
	policies := s.policies.Load()
	now := s.now()

	w, known := newWeigher(policies, req.ContextProfile, now)
	if !known {
		s.log.Warn("unknown context profile, using default",
			zap.String("context_profile", req.ContextProfile))
	}
	filter := newSecurityFilter(&req)

	var (
		matches  []domain.SearchMatch
		filtered []domain.FilterReason
		applied  appliedFactors
	)

	s.mu.RLock()
	docs, err := s.store.List(ctx, namespace)
	if err != nil {
		s.mu.RUnlock()
		return resp, err
	}
	halfLife := s.halfLifeLocked(namespace, policies)
	for _, doc := range docs {
		if reason, ok := filter.admit(doc); !ok {
			filtered = append(filtered, reason)
			continue
		}
		for _, chunk := range doc.Chunks {
			sim := s.scorer.Score(query, chunk.Text)
			if sim <= 0 {
				continue
			}
			wb := w.weigh(doc, sim, halfLife)
			applied.observe(wb)
			m := newMatch(doc, chunk, wb.Final())
			m.Weights = &wb
			matches = append(matches, m)
		}
	}
	s.mu.RUnlock()

	for _, reason := range filtered {
		s.metrics.QueryFiltered(reason)
	}
	if len(filtered) > 0 {
		s.log.Debug("documents filtered by security policy",
			zap.String("namespace", namespace),
			zap.Int("filtered", len(filtered)))
	}

	rankMatches(matches)

	if len(matches) > 0 {
		for _, f := range applied.names() {
			s.metrics.WeightApplied(f)
		}
		s.metrics.FinalScore(matches[0].Score)
	}

	if req.EmitDecisionSnapshot && len(matches) > 0 {
		id, err := s.emitSnapshot(ctx, &req, query, namespace, policies, matches)
		if err != nil {
			return resp, err
		}
		resp.DecisionID = id
	}

	if len(matches) > k {
		matches = matches[:k]
	}
	if !req.IncludeWeights {
		for i := range matches {
			matches[i].Weights = nil
		}
	}
	if len(matches) > 0 {
		resp.Matches = matches
	}
	return resp, nil
}

func (s *IndexService) emitSnapshot(
	ctx context.Context,
	req *domain.SearchRequest,
	query, namespace string,
	policies *domain.PolicyConfig,
	ranked []domain.SearchMatch,
) (string, error) {
	if s.audit == nil {
		s.log.Warn("decision snapshot requested without an audit trail")
		return "", nil
	}
	candidates := make([]domain.DecisionCandidate, len(ranked))
	for i, m := range ranked {
		candidates[i] = domain.DecisionCandidate{
			ID:         m.DocID,
			ChunkID:    m.ChunkID,
			Similarity: m.Weights.Similarity,
			Weights:    *m.Weights,
			FinalScore: m.Score,
		}
	}
	intent := req.Intent
	if intent == "" {
		intent = query
	}
	snap := &domain.DecisionSnapshot{
		Intent:         intent,
		Namespace:      namespace,
		ContextProfile: req.ContextProfile,
		Candidates:     candidates,
		SelectedID:     ranked[0].DocID,
		PolicyHash:     policies.Hash,
	}
	return s.audit.Emit(ctx, snap)
}

// Related returns chunks of other documents in the same namespace that share
// vocabulary with the given document. Results are unweighted.
func (s *IndexService) Related(ctx context.Context, req domain.RelatedRequest) ([]domain.SearchMatch, error) {
	namespace := domain.NormalizeNamespace(req.Namespace)
	docID := strings.TrimSpace(req.DocID)
	if docID == "" {
		return nil, domain.NewValidationError(domain.CodeMissingDocID, "doc_id", "doc_id is required")
	}
	k := clampK(req.K, s.defaultK, s.maxK)

	s.mu.RLock()
	defer s.mu.RUnlock()

	source, err := s.store.Get(ctx, namespace, docID)
	if err != nil {
		return nil, domain.NewNotFoundError(domain.CodeDocumentNotFound, docID, "document not found in namespace "+namespace)
	}
	var words []string
	for _, c := range source.Chunks {
		for _, word := range strings.Fields(strings.ToLower(c.Text)) {
			if utf8.RuneCountInString(word) > relatedMinWordLen {
				words = append(words, word)
			}
		}
	}

	docs, err := s.store.List(ctx, namespace)
	if err != nil {
		return nil, err
	}
	matches := []domain.SearchMatch{}
	for _, doc := range docs {
		if doc.ID == source.ID {
			continue
		}
		for _, chunk := range doc.Chunks {
			text := strings.ToLower(chunk.Text)
			score := 0.0
			for _, word := range words {
				if strings.Contains(text, word) {
					score += relatedWordScore
				}
			}
			if score > 0 {
				matches = append(matches, newMatch(doc, chunk, score))
			}
		}
	}
	rankMatches(matches)
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Stats summarises the index.
func (s *IndexService) Stats(ctx context.Context) (domain.IndexStats, error) {
	policies := s.policies.Load()
	stats := domain.IndexStats{
		Namespaces:   make(map[string]int),
		PolicyHash:   policies.Hash,
		PolicySource: policies.Source,
	}

	s.mu.RLock()
	docs, err := s.store.List(ctx, "")
	s.mu.RUnlock()
	if err != nil {
		return stats, err
	}
	for _, doc := range docs {
		stats.TotalDocs++
		stats.TotalChunks += len(doc.Chunks)
		stats.Namespaces[doc.Namespace]++
	}
	stats.QuarantineCount = stats.Namespaces[domain.QuarantineNamespace]

	if s.audit != nil {
		snaps, outcomes, err := s.audit.Counts(ctx)
		if err != nil {
			return stats, err
		}
		stats.Snapshots = snaps
		stats.Outcomes = outcomes
	}
	return stats, nil
}

// newMatch builds a match for one chunk. Chunk meta takes precedence over
// document meta.
func newMatch(doc *domain.Document, chunk domain.Chunk, score float64) domain.SearchMatch {
	meta := chunk.Meta
	if meta == nil {
		meta = doc.Meta
	}
	// Matches leave the service, so they must not alias stored state.
	meta = maps.Clone(meta)
	return domain.SearchMatch{
		DocID:      doc.ID,
		Namespace:  doc.Namespace,
		ChunkID:    chunk.ID,
		Score:      score,
		Text:       chunk.Text,
		Meta:       meta,
		SourceRef:  doc.SourceRef,
		IngestedAt: doc.IngestedAt,
		Flags:      slices.Clone(doc.Flags),
	}
}
