// Package domain defines the core business entities for indexd.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A namespaced, provenance-tagged document with chunks
//   - SourceRef: Mandatory provenance of every document
//   - ContentFlag: Derived content-safety flags
//   - RetentionConfig: Per-namespace decay and purge bounds
//   - PolicyConfig: Trust and context weighting tables
//   - DecisionSnapshot / DecisionOutcome: The decision audit trail
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
