package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

var (
	searchLimit     int
	searchNamespace string
	searchProfile   string
	searchWeights   bool
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search a running index",
	Long: `Searches a running indexd server. Results are ranked by
similarity weighted with source trust, recency and context.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().StringVar(&searchNamespace, "namespace", "", "namespace to search")
	searchCmd.Flags().StringVar(&searchProfile, "profile", "", "context profile")
	searchCmd.Flags().BoolVar(&searchWeights, "weights", false, "show the weight breakdown")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	addServerFlag(searchCmd)
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	req := domain.SearchRequest{
		Query:          args[0],
		K:              searchLimit,
		Namespace:      searchNamespace,
		ContextProfile: searchProfile,
		IncludeWeights: searchWeights,
	}

	var resp domain.SearchResponse
	if err := newAPIClient(serverURL).do(cmd.Context(), http.MethodPost, "/index/search", req, &resp); err != nil {
		return eris.Wrap(err, "search failed")
	}

	if searchJSON {
		return outputSearchJSON(cmd, resp.Matches)
	}
	return outputSearchTable(cmd, resp.Matches)
}

func outputSearchJSON(cmd *cobra.Command, matches []domain.SearchMatch) error {
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return eris.Wrap(err, "failed to marshal results")
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, matches []domain.SearchMatch) error {
	if len(matches) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println(titleStyle.Render("Results:"))
	cmd.Println()
	for i := range matches {
		m := &matches[i]
		// Format: [N] doc_id (score)
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, m.DocID, m.Score)
		cmd.Println(mutedStyle.Render(fmt.Sprintf("      %s/%s  trust=%s  origin=%s",
			m.Namespace, m.ChunkID, m.SourceRef.TrustLevel.Effective(), m.SourceRef.Origin)))
		if len(m.Flags) > 0 {
			names := make([]string, len(m.Flags))
			for j, f := range m.Flags {
				names[j] = f.String()
			}
			cmd.Println(warningStyle.Render("      flags: " + strings.Join(names, ", ")))
		}
		if m.Weights != nil {
			cmd.Printf("      similarity=%.3f trust=%.2f recency=%.3f context=%.2f\n",
				m.Weights.Similarity, m.Weights.Trust, m.Weights.Recency, m.Weights.Context)
		}
		cmd.Printf("      %s\n", snippet(m.Text, 120))
		cmd.Println()
	}
	return nil
}

// snippet truncates text to at most n runes.
func snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}
