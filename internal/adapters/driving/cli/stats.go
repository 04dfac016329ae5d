package cli

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics of a running server",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	addServerFlag(statsCmd)
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	var stats domain.IndexStats
	if err := newAPIClient(serverURL).do(cmd.Context(), http.MethodGet, "/index/stats", nil, &stats); err != nil {
		return eris.Wrap(err, "stats failed")
	}

	cmd.Println(titleStyle.Render("Index"))
	cmd.Printf("  documents:   %d\n", stats.TotalDocs)
	cmd.Printf("  chunks:      %d\n", stats.TotalChunks)
	quarantine := fmt.Sprintf("%d", stats.QuarantineCount)
	if stats.QuarantineCount > 0 {
		quarantine = warningStyle.Render(quarantine)
	}
	cmd.Printf("  quarantined: %s\n", quarantine)
	cmd.Printf("  snapshots:   %d\n", stats.Snapshots)
	cmd.Printf("  outcomes:    %d\n", stats.Outcomes)
	cmd.Printf("  policy:      %s (%s)\n", stats.PolicyHash, stats.PolicySource)

	if len(stats.Namespaces) > 0 {
		names := make([]string, 0, len(stats.Namespaces))
		for ns := range stats.Namespaces {
			names = append(names, ns)
		}
		sort.Strings(names)
		rows := make([][]string, len(names))
		for i, ns := range names {
			rows[i] = []string{ns, fmt.Sprintf("%d", stats.Namespaces[ns])}
		}
		cmd.Println()
		cmd.Println(renderTable([]string{"NAMESPACE", "DOCUMENTS"}, rows))
	}
	return nil
}
