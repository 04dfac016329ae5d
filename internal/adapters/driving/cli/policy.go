package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/indexd/internal/adapters/driven/policy/file"
	"github.com/custodia-labs/indexd/internal/core/domain"
)

var (
	policyTrustPath   string
	policyContextPath string
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Decision weighting policy commands",
}

var policyCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the trust and context policy files",
	Long: `Loads the configured policy files exactly as the server would and
prints the effective weights. Exits non-zero when a file falls back to the
built-in defaults.`,
	Args: cobra.NoArgs,
	RunE: runPolicyCheck,
}

func init() {
	policyCheckCmd.Flags().StringVar(&policyTrustPath, "trust", "", "trust policy file (overrides policy.trust_path)")
	policyCheckCmd.Flags().StringVar(&policyContextPath, "context", "", "context policy file (overrides policy.context_path)")
	policyCmd.AddCommand(policyCheckCmd)
	rootCmd.AddCommand(policyCmd)
}

func runPolicyCheck(cmd *cobra.Command, _ []string) error {
	trustPath, contextPath := cfg.Policy.TrustPath, cfg.Policy.ContextPath
	if policyTrustPath != "" {
		trustPath = policyTrustPath
	}
	if policyContextPath != "" {
		contextPath = policyContextPath
	}

	policies, loadErr := file.NewLoader(trustPath, contextPath).Load(cmd.Context())
	printPolicies(cmd, policies)

	if loadErr != nil {
		cmd.Println()
		cmd.Println(errorStyle.Render("invalid: " + loadErr.Error()))
		return loadErr
	}
	cmd.Println()
	cmd.Println(successStyle.Render("ok"))
	return nil
}

func printPolicies(cmd *cobra.Command, p *domain.PolicyConfig) {
	cmd.Println(titleStyle.Render("Policies"))
	cmd.Printf("  hash:   %s\n", p.Hash)
	cmd.Printf("  source: %s\n", p.Source)
	cmd.Println()

	trustRows := make([][]string, 0, 3)
	for _, level := range []domain.TrustLevel{domain.TrustHigh, domain.TrustMedium, domain.TrustLow} {
		trustRows = append(trustRows, []string{level.String(), fmt.Sprintf("%.2f", p.Trust.Weight(level))})
	}
	cmd.Println(renderTable([]string{"TRUST", "WEIGHT"}, trustRows))
	cmd.Println(mutedStyle.Render(fmt.Sprintf("min_weight %.2f", p.Trust.MinWeight)))
	cmd.Println()

	var ctxRows [][]string
	profiles := make([]string, 0, len(p.Context.Profiles))
	for name := range p.Context.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	for _, name := range profiles {
		keys := make([]string, 0, len(p.Context.Profiles[name]))
		for k := range p.Context.Profiles[name] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			ctxRows = append(ctxRows, []string{name, k, fmt.Sprintf("%.2f", p.Context.Profiles[name][k])})
		}
	}
	cmd.Println(renderTable([]string{"PROFILE", "KEY", "WEIGHT"}, ctxRows))
	recency := p.Context.Recency
	halfLife := "none"
	if recency.DefaultHalfLifeSeconds > 0 {
		halfLife = recency.DefaultHalfLife().String()
	}
	cmd.Println(mutedStyle.Render(fmt.Sprintf("recency min_weight %.2f, default half-life %s", recency.MinWeight, halfLife)))
}
