package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/indexd/internal/adapters/driven/similarity/lexical"
	"github.com/custodia-labs/indexd/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/indexd/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/indexd/internal/core/domain"
	"github.com/custodia-labs/indexd/internal/core/services"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// runCLI executes the root command in an isolated working directory and
// returns its combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	searchLimit, searchNamespace, searchProfile = 10, "", ""
	searchWeights, searchJSON = false, false
	decayNamespace = ""
	policyTrustPath, policyContextPath = "", ""
	cfgFile, verbose = "", false

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// startServer runs the HTTP API over fresh in-memory services.
func startServer(t *testing.T) (*services.IndexService, string) {
	t.Helper()
	audit := services.NewAuditTrail(memory.NewDecisionStore(100, 100))
	audit.SetClock(func() time.Time { return testNow })
	index := services.NewIndexService(memory.NewDocumentStore(), lexical.New(), audit)
	index.SetClock(func() time.Time { return testNow })

	ts := httptest.NewServer(httpapi.New(index, audit, httpapi.Options{}))
	t.Cleanup(ts.Close)
	return index, ts.URL
}

func seed(t *testing.T, index *services.IndexService, namespace, docID, text string, trust domain.TrustLevel) {
	t.Helper()
	_, err := index.Upsert(context.Background(), domain.UpsertRequest{
		DocID:     docID,
		Namespace: namespace,
		Chunks:    []domain.Chunk{{Text: text}},
		SourceRef: &domain.SourceRef{Origin: "chat", ID: "msg-" + docID, TrustLevel: trust},
	})
	require.NoError(t, err)
}
