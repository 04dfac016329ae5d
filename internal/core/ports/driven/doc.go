// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Namespaced document persistence
//   - SimilarityScorer: Query-to-chunk similarity in [0, 1]
//   - DecisionStore: Bounded decision snapshot and outcome storage
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - MetricsRecorder: Counters and histograms. Without it nothing is recorded.
//   - Chunker: Splits raw upsert text. Without it raw text becomes one chunk.
//   - DecisionArchive: Durable audit export. Without it the trail stays in memory.
//   - PolicyLoader: Policy files. Without it the built-in defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
