// Package cli provides the indexd command line interface.
package cli

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/indexd/internal/config"
	"github.com/custodia-labs/indexd/internal/logger"
)

// version is set by Execute from the build.
var version = "dev"

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "indexd",
	Short: "Decision-weighted memory index for agents",
	Long: `indexd stores agent memory with provenance, quarantines contaminated
content and ranks results by similarity, trust, recency and context.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		logger.SetVerbose(verbose)
		if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
			return eris.Wrap(err, "init logger")
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: indexd.{toml,yaml} in . or ~/.indexd)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}
