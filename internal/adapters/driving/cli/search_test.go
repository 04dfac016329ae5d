package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := runCLI(t, "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_Table(t *testing.T) {
	index, url := startServer(t)
	seed(t, index, "notes", "deploy", "deploy the billing service on friday", domain.TrustHigh)
	seed(t, index, "notes", "lunch", "lunch menu for the week", domain.TrustLow)

	out, err := runCLI(t, "search", "--server", url, "--namespace", "notes", "--weights", "billing deploy")

	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] deploy")
	assert.Contains(t, out, "trust=high")
	assert.Contains(t, out, "similarity=")
	assert.NotContains(t, out, "lunch")
}

func TestSearchCmd_JSON(t *testing.T) {
	index, url := startServer(t)
	seed(t, index, "notes", "deploy", "deploy the billing service", domain.TrustHigh)

	out, err := runCLI(t, "search", "--server", url, "--namespace", "notes", "--json", "billing")

	require.NoError(t, err)
	var matches []domain.SearchMatch
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "deploy", matches[0].DocID)
}

func TestSearchCmd_NoResults(t *testing.T) {
	_, url := startServer(t)

	out, err := runCLI(t, "search", "--server", url, "anything")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_Unreachable(t *testing.T) {
	_, err := runCLI(t, "search", "--server", "http://127.0.0.1:1", "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b", snippet("a\n  b", 10))
	assert.Equal(t, "abc...", snippet("abcdef", 3))
}
