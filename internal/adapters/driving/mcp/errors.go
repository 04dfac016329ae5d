// Package mcp provides an MCP (Model Context Protocol) server adapter for indexd.
// It lets agents search, ingest and forget memory through the same
// services as the HTTP API.
package mcp

import "errors"

// ErrMissingIndexService is returned when the index service is not provided.
var ErrMissingIndexService = errors.New("mcp: index service is required")
