// Package httpapi exposes the index and the decision audit trail over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/indexd/internal/core/ports/driving"
)

// Options configures the HTTP server.
type Options struct {
	// RateLimit is the sustained request rate per second. Zero disables limiting.
	RateLimit float64
	// Burst is the limiter bucket size.
	Burst int
	// CORSOrigins lists allowed origins.
	CORSOrigins []string
	// Gatherer serves /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// Version is reported by /health.
	Version string
}

// Server is the indexd HTTP API server.
type Server struct {
	index   driving.IndexService
	audit   driving.AuditService
	opts    Options
	router  chi.Router
	started time.Time
	log     *zap.Logger
}

// New creates a new Server over the given services.
func New(index driving.IndexService, audit driving.AuditService, opts Options) *Server {
	s := &Server{
		index:   index,
		audit:   audit,
		opts:    opts,
		started: time.Now(),
		log:     zap.L().Named("http"),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	if s.opts.RateLimit > 0 {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(s.opts.RateLimit), max(s.opts.Burst, 1))))
	}

	r.Get("/health", s.handleHealth)
	if s.opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/index", func(r chi.Router) {
		r.Post("/upsert", s.handleUpsert)
		r.Post("/search", s.handleSearch)
		r.Post("/related", s.handleRelated)
		r.Post("/forget", s.handleForget)
		r.Post("/decay/preview", s.handleDecayPreview)
		r.Get("/stats", s.handleStats)

		r.Get("/retention", s.handleListRetention)
		r.Get("/retention/{namespace}", s.handleGetRetention)
		r.Put("/retention/{namespace}", s.handleSetRetention)

		r.Get("/decisions/snapshot", s.handleListSnapshots)
		r.Get("/decisions/snapshot/{id}", s.handleGetSnapshot)
		r.Post("/decisions/outcome", s.handleRecordOutcome)
		r.Get("/decisions/outcome/{id}", s.handleGetOutcome)
		r.Get("/decisions/outcomes", s.handleListOutcomes)
	})

	s.router = r
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return eris.Wrap(err, "http: listen")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "http: shutdown")
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	policies := s.index.Policies()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"version":       s.opts.Version,
		"uptime":        time.Since(s.started).Seconds(),
		"policy_hash":   policies.Hash,
		"policy_source": policies.Source,
	})
}
