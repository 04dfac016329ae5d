package file

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/indexd/internal/core/domain"
	"github.com/custodia-labs/indexd/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.PolicyLoader = (*Loader)(nil)

// validator is satisfied by both policy types.
type validator interface {
	Validate() error
}

// Loader reads the trust and context policy files.
type Loader struct {
	trustPath   string
	contextPath string
	log         *zap.Logger
}

// NewLoader creates a loader. Empty paths mean the built-in policy is used
// for that half; two empty paths mean no policy configuration at all.
func NewLoader(trustPath, contextPath string) *Loader {
	return &Loader{
		trustPath:   trustPath,
		contextPath: contextPath,
		log:         zap.L().Named("policy"),
	}
}

// Paths returns the configured policy file paths.
func (l *Loader) Paths() (trust, ctxPath string) {
	return l.trustPath, l.contextPath
}

// Load reads both policies. The returned config is always usable; the
// error joins one domain.ErrPolicyLoad per configured policy that fell back.
func (l *Loader) Load(_ context.Context) (*domain.PolicyConfig, error) {
	if l.trustPath == "" && l.contextPath == "" {
		return domain.DefaultPolicyConfig(), nil
	}

	var errs []error
	loaded := 0

	trust := domain.DefaultTrustPolicy()
	if l.trustPath != "" {
		fromFile := domain.TrustPolicy{MinWeight: domain.DefaultMinWeight}
		if err := decodePolicy(l.trustPath, &fromFile); err != nil {
			errs = append(errs, l.fallback(l.trustPath, "trust", err))
		} else {
			trust = fromFile
			loaded++
		}
	}

	ctxPolicy := domain.DefaultContextPolicy()
	if l.contextPath != "" {
		fromFile := domain.ContextPolicy{Recency: domain.RecencyPolicy{MinWeight: domain.DefaultMinWeight}}
		if err := decodePolicy(l.contextPath, &fromFile); err != nil {
			errs = append(errs, l.fallback(l.contextPath, "context", err))
		} else {
			ctxPolicy = fromFile
			loaded++
		}
	}

	// An unset half is not a failure; it simply keeps the built-in policy.
	source := domain.PolicyPartialFallback
	switch {
	case len(errs) == 0:
		source = domain.PolicyLoadedFromFiles
	case loaded == 0:
		source = domain.PolicyFallbackDefaults
	}

	cfg := &domain.PolicyConfig{
		Trust:   trust,
		Context: ctxPolicy,
		Hash:    domain.PolicyHash(trust, ctxPolicy),
		Source:  source,
	}
	l.log.Info("decision weighting policies loaded",
		zap.String("policy_hash", cfg.Hash),
		zap.String("policy_source", string(cfg.Source)))
	return cfg, errors.Join(errs...)
}

func (l *Loader) fallback(path, kind string, err error) error {
	l.log.Error("failed to load policy, falling back to default",
		zap.String("policy", kind),
		zap.String("path", path),
		zap.Error(err))
	return domain.NewPolicyLoadError(path, err)
}

// decodePolicy reads, decodes and validates one policy file.
func decodePolicy(path string, out validator) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "policy: read %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(out); err != nil {
			return eris.Wrapf(err, "policy: decode yaml %s", path)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(out); err != nil {
			return eris.Wrapf(err, "policy: decode toml %s", path)
		}
	default:
		return eris.Errorf("policy: unsupported file extension %q", filepath.Ext(path))
	}

	if err := out.Validate(); err != nil {
		return eris.Wrapf(err, "policy: validate %s", path)
	}
	return nil
}
