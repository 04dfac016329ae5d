package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

// SetRetentionConfig replaces the retention config of a namespace.
// The new bounds take effect on the next write to that namespace.
func (s *IndexService) SetRetentionConfig(_ context.Context, namespace string, cfg domain.RetentionConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	namespace = domain.NormalizeNamespace(namespace)

	s.mu.Lock()
	s.retention[namespace] = cfg
	s.mu.Unlock()

	s.log.Info("retention config updated",
		zap.String("namespace", namespace),
		zap.Stringer("purge_strategy", cfg.EffectiveStrategy()))
	return nil
}

// RetentionConfig returns the retention config of a namespace.
func (s *IndexService) RetentionConfig(_ context.Context, namespace string) (domain.RetentionConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.retention[domain.NormalizeNamespace(namespace)]
	return cfg, ok
}

// RetentionConfigs returns a copy of every retention config.
func (s *IndexService) RetentionConfigs(_ context.Context) map[string]domain.RetentionConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.RetentionConfig, len(s.retention))
	for ns, cfg := range s.retention {
		out[ns] = cfg
	}
	return out
}

// halfLifeLocked returns the decay half-life for a namespace.
// A namespace config wins; otherwise the recency policy default applies.
func (s *IndexService) halfLifeLocked(namespace string, policies *domain.PolicyConfig) time.Duration {
	if cfg, ok := s.retention[namespace]; ok && cfg.HalfLifeSeconds != nil {
		return cfg.HalfLife()
	}
	return policies.Context.Recency.DefaultHalfLife()
}

// purgeLocked enforces the retention bounds of one namespace.
// The caller must hold the write lock.
func (s *IndexService) purgeLocked(ctx context.Context, namespace string, now time.Time) ([]*domain.Document, error) {
	cfg, ok := s.retention[namespace]
	if !ok {
		return nil, nil
	}
	docs, err := s.store.List(ctx, namespace)
	if err != nil {
		return nil, err
	}

	var victims []*domain.Document
	if maxAge, ok := cfg.MaxAge(); ok {
		kept := make([]*domain.Document, 0, len(docs))
		for _, doc := range docs {
			if now.Sub(doc.IngestedAt) > maxAge {
				victims = append(victims, doc)
				continue
			}
			kept = append(kept, doc)
		}
		docs = kept
	}

	if cfg.MaxItems != nil && len(docs) > *cfg.MaxItems {
		switch cfg.EffectiveStrategy() {
		case domain.PurgeLowestScore:
			policies := s.policies.Load()
			halfLife := s.halfLifeLocked(namespace, policies)
			retentionScore := func(d *domain.Document) float64 {
				return DecayFactor(now.Sub(d.IngestedAt), halfLife) * policies.Trust.Weight(d.SourceRef.TrustLevel)
			}
			sort.SliceStable(docs, func(i, j int) bool {
				si, sj := retentionScore(docs[i]), retentionScore(docs[j])
				if si != sj {
					return si < sj
				}
				return olderFirst(docs[i], docs[j])
			})
		default:
			sort.SliceStable(docs, func(i, j int) bool { return olderFirst(docs[i], docs[j]) })
		}
		victims = append(victims, docs[:len(docs)-*cfg.MaxItems]...)
	}

	for _, doc := range victims {
		if err := s.store.Delete(ctx, doc.Namespace, doc.ID); err != nil {
			return nil, err
		}
		s.log.Info("document purged by retention",
			zap.String("doc_id", doc.ID),
			zap.String("namespace", doc.Namespace),
			zap.Time("ingested_at", doc.IngestedAt),
			zap.String("reason", string(domain.ForgetRetention)))
	}
	return victims, nil
}

func olderFirst(a, b *domain.Document) bool {
	if !a.IngestedAt.Equal(b.IngestedAt) {
		return a.IngestedAt.Before(b.IngestedAt)
	}
	return a.ID < b.ID
}

// PreviewDecay reports the current decay state of documents without
// modifying anything. The projected score is what a perfect similarity
// match would score under the default context profile.
func (s *IndexService) PreviewDecay(ctx context.Context, namespace string) ([]domain.DecayPreview, error) {
	namespace = strings.TrimSpace(namespace)
	policies := s.policies.Load()
	now := s.now()
	w, _ := newWeigher(policies, domain.DefaultProfile, now)

	s.mu.RLock()
	docs, err := s.store.List(ctx, namespace)
	if err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	previews := make([]domain.DecayPreview, 0, len(docs))
	for _, doc := range docs {
		halfLife := s.halfLifeLocked(doc.Namespace, policies)
		age := now.Sub(doc.IngestedAt)
		if age < 0 {
			age = 0
		}
		wb := w.weigh(doc, 1.0, halfLife)
		previews = append(previews, domain.DecayPreview{
			DocID:          doc.ID,
			Namespace:      doc.Namespace,
			AgeSeconds:     age.Seconds(),
			DecayFactor:    DecayFactor(age, halfLife),
			ProjectedScore: wb.Final(),
		})
	}
	s.mu.RUnlock()

	sort.Slice(previews, func(i, j int) bool {
		a, b := previews[i], previews[j]
		if a.DecayFactor != b.DecayFactor {
			return a.DecayFactor < b.DecayFactor
		}
		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}
		return a.DocID < b.DocID
	})
	return previews, nil
}
