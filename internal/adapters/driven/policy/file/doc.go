// Package file loads trust and context weighting policies from disk.
//
// Policies are YAML (.yaml, .yml) or TOML (.toml), selected by extension.
// A policy that cannot be read or fails validation is replaced by the
// built-in default and reported; loading never fails fatally.
//
// Adapters:
//   - Loader: reads and validates both policy files
//   - Watcher: reloads policies when either file changes
package file
