// Package main is the entry point for the indexd server and CLI.
//
// Usage:
//
//	indexd [flags] <command> [subcommand] [args]
//
// Commands:
//
//	serve      - HTTP API
//	mcp serve  - MCP server over stdio or streamable HTTP
//	search     - Query a running server
//	stats      - Index statistics
//	decay      - Recency decay preview
//	policy     - Policy file validation
//	version    - Show version information
package main

import (
	"os"

	"github.com/custodia-labs/indexd/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
