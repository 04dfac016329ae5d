package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

var decayNamespace string

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Recency decay commands",
}

var decayPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview document decay on a running server",
	Long: `Lists documents from the most to the least decayed, with the score a
perfect match would get under the default context profile. Nothing is modified.`,
	Args: cobra.NoArgs,
	RunE: runDecayPreview,
}

func init() {
	decayPreviewCmd.Flags().StringVar(&decayNamespace, "namespace", "", "restrict to one namespace (default: all)")
	addServerFlag(decayPreviewCmd)
	decayCmd.AddCommand(decayPreviewCmd)
	rootCmd.AddCommand(decayCmd)
}

type decayPreviewResult struct {
	TotalDocuments int                   `json:"total_documents"`
	Previews       []domain.DecayPreview `json:"previews"`
}

func runDecayPreview(cmd *cobra.Command, _ []string) error {
	var res decayPreviewResult
	body := map[string]string{"namespace": decayNamespace}
	if err := newAPIClient(serverURL).do(cmd.Context(), http.MethodPost, "/index/decay/preview", body, &res); err != nil {
		return eris.Wrap(err, "decay preview failed")
	}

	if len(res.Previews) == 0 {
		cmd.Println("No documents.")
		return nil
	}

	rows := make([][]string, len(res.Previews))
	for i, p := range res.Previews {
		factor := fmt.Sprintf("%.4f", p.DecayFactor)
		if p.DecayFactor < 0.25 {
			factor = errorStyle.Render(factor)
		}
		rows[i] = []string{
			p.Namespace,
			p.DocID,
			(time.Duration(p.AgeSeconds) * time.Second).String(),
			factor,
			fmt.Sprintf("%.4f", p.ProjectedScore),
		}
	}
	cmd.Println(titleStyle.Render(fmt.Sprintf("Decay preview (%d documents)", res.TotalDocuments)))
	cmd.Println(renderTable([]string{"NAMESPACE", "DOC", "AGE", "DECAY", "PROJECTED"}, rows))
	return nil
}
