package services

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

// checkForgetGates applies the safety gates in order.
func checkForgetGates(req *domain.ForgetRequest) error {
	f := req.Filter
	if f.AllowNamespaceWipe && f.Namespace == "" {
		return domain.NewSafetyViolation(domain.CodeNamespaceRequired,
			"allow_namespace_wipe requires a namespace",
			"Set filter.namespace to the namespace you intend to wipe")
	}
	if req.DryRun {
		return nil
	}
	if !req.Confirm {
		return domain.NewSafetyViolation(domain.CodeConfirmationRequired,
			"destructive forget requires confirm=true",
			"Run with dry_run=true first, then repeat with confirm=true")
	}
	if !f.Selective() && !f.AllowNamespaceWipe {
		return domain.NewSafetyViolation(domain.CodeFilterTooBroad,
			"forget filter must set older_than, source_ref_origin or doc_id",
			"Set allow_namespace_wipe=true together with a namespace to wipe a whole namespace")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return domain.NewValidationError(domain.CodeMissingReason, "reason", "a reason is required for destructive forget")
	}
	return nil
}

// Forget deletes the documents matching every set filter field.
// A dry run reports the matches and never mutates the index.
func (s *IndexService) Forget(ctx context.Context, req domain.ForgetRequest) (domain.ForgetResult, error) {
	req.Filter.Namespace = strings.TrimSpace(req.Filter.Namespace)
	req.Filter.SourceRefOrigin = strings.TrimSpace(req.Filter.SourceRefOrigin)
	req.Filter.DocID = strings.TrimSpace(req.Filter.DocID)
	if err := checkForgetGates(&req); err != nil {
		return domain.ForgetResult{DryRun: req.DryRun}, err
	}

	if req.DryRun {
		s.mu.RLock()
		defer s.mu.RUnlock()
	} else {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	docs, err := s.store.List(ctx, req.Filter.Namespace)
	if err != nil {
		return domain.ForgetResult{DryRun: req.DryRun}, err
	}
	var matched []*domain.Document
	for _, doc := range docs {
		if req.Filter.Matches(doc) {
			matched = append(matched, doc)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Namespace != matched[j].Namespace {
			return matched[i].Namespace < matched[j].Namespace
		}
		return matched[i].ID < matched[j].ID
	})

	result := domain.ForgetResult{
		MatchedCount: len(matched),
		DocIDs:       make([]string, 0, len(matched)),
		Documents:    make([]domain.ForgottenDocument, 0, len(matched)),
		DryRun:       req.DryRun,
	}
	for _, doc := range matched {
		result.DocIDs = append(result.DocIDs, doc.ID)
		result.Documents = append(result.Documents, domain.ForgottenDocument{
			DocID:      doc.ID,
			Namespace:  doc.Namespace,
			IngestedAt: doc.IngestedAt,
		})
	}
	if req.DryRun {
		return result, nil
	}

	for _, doc := range matched {
		if err := s.store.Delete(ctx, doc.Namespace, doc.ID); err != nil {
			return result, err
		}
		result.DeletedCount++
		s.log.Info("document forgotten",
			zap.String("doc_id", doc.ID),
			zap.String("namespace", doc.Namespace),
			zap.String("reason", req.Reason))
	}
	if result.DeletedCount > 0 {
		s.metrics.Forgotten(domain.ForgetManual, result.DeletedCount)
	}
	if quarantined, err := s.store.Count(ctx, domain.QuarantineNamespace); err == nil {
		s.metrics.QuarantineSize(quarantined)
	}
	return result, nil
}
