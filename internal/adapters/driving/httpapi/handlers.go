package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

type searchResponse struct {
	domain.SearchResponse
	LatencyMS float64 `json:"latency_ms"`
}

type relatedResponse struct {
	Matches []domain.SearchMatch `json:"matches"`
}

type decayPreviewRequest struct {
	Namespace string `json:"namespace"`
}

type decayPreviewResponse struct {
	Namespace      string                `json:"namespace,omitempty"`
	TotalDocuments int                   `json:"total_documents"`
	Previews       []domain.DecayPreview `json:"previews"`
}

type retentionResponse struct {
	Configs map[string]domain.RetentionConfig `json:"configs"`
}

func (s *Server) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var req domain.UpsertRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.index.Upsert(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	var req domain.SearchRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.index.Search(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{
		SearchResponse: res,
		LatencyMS:      float64(time.Since(started).Microseconds()) / 1000,
	})
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	var req domain.RelatedRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	matches, err := s.index.Related(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, relatedResponse{Matches: matches})
}

func (s *Server) handleForget(w http.ResponseWriter, r *http.Request) {
	var req domain.ForgetRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.index.Forget(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDecayPreview(w http.ResponseWriter, r *http.Request) {
	var req decayPreviewRequest
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}
	previews, err := s.index.PreviewDecay(r.Context(), req.Namespace)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decayPreviewResponse{
		Namespace:      req.Namespace,
		TotalDocuments: len(previews),
		Previews:       previews,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.index.Stats(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListRetention(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, retentionResponse{Configs: s.index.RetentionConfigs(r.Context())})
}

func (s *Server) handleGetRetention(w http.ResponseWriter, r *http.Request) {
	ns := chi.URLParam(r, "namespace")
	cfg, ok := s.index.RetentionConfig(r.Context(), ns)
	if !ok {
		s.writeError(w, domain.NewNotFoundError("retention_not_found", ns, "no retention config for namespace "+ns))
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleSetRetention(w http.ResponseWriter, r *http.Request) {
	ns := chi.URLParam(r, "namespace")
	var cfg domain.RetentionConfig
	if err := decode(r, &cfg); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.index.SetRetentionConfig(r.Context(), ns, cfg); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "updated",
		"namespace": domain.NormalizeNamespace(ns),
		"config":    cfg,
	})
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.audit.Snapshots(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshots": snaps,
		"total":     len(snaps),
	})
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.audit.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRecordOutcome(w http.ResponseWriter, r *http.Request) {
	var outcome domain.DecisionOutcome
	if err := decode(r, &outcome); err != nil {
		s.writeError(w, err)
		return
	}
	recorded, err := s.audit.RecordOutcome(r.Context(), outcome)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "recorded",
		"outcome": recorded,
	})
}

func (s *Server) handleGetOutcome(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.audit.Outcome(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleListOutcomes(w http.ResponseWriter, r *http.Request) {
	outcomes, err := s.audit.Outcomes(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"outcomes": outcomes,
		"total":    len(outcomes),
	})
}
