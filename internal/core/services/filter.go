package services

import "github.com/custodia-labs/indexd/internal/core/domain"

// securityFilter drops documents before ranking.
type securityFilter struct {
	excludeFlags   []domain.ContentFlag
	minTrust       *domain.TrustLevel
	excludeOrigins map[string]struct{}
}

func newSecurityFilter(req *domain.SearchRequest) *securityFilter {
	f := &securityFilter{
		excludeFlags: req.EffectiveExcludeFlags(),
		minTrust:     req.MinTrustLevel,
	}
	if len(req.ExcludeOrigins) > 0 {
		f.excludeOrigins = make(map[string]struct{}, len(req.ExcludeOrigins))
		for _, o := range req.ExcludeOrigins {
			f.excludeOrigins[o] = struct{}{}
		}
	}
	return f
}

// admit returns false and the reason when doc must not be returned.
func (f *securityFilter) admit(doc *domain.Document) (domain.FilterReason, bool) {
	if f.minTrust != nil && f.minTrust.Effective() > doc.SourceRef.TrustLevel.Effective() {
		return domain.FilterReasonMinTrust, false
	}
	if _, excluded := f.excludeOrigins[doc.SourceRef.Origin]; excluded {
		return domain.FilterReasonOrigin, false
	}
	for _, flag := range f.excludeFlags {
		if doc.HasFlag(flag) {
			return domain.FilterReasonFlag, false
		}
	}
	return "", true
}
