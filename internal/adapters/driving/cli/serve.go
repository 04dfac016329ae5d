package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/indexd/internal/adapters/driven/policy/file"
	"github.com/custodia-labs/indexd/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/indexd/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/indexd/internal/core/services"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the indexd HTTP API.

The server exposes the index under /index, health under /health and
Prometheus metrics under /metrics. With policy.watch enabled, edits to the
policy files are applied without a restart. With archive.path set, the
decision audit trail is exported to SQLite on archive.interval and once
more on shutdown.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	server := httpapi.New(a.index, a.audit, httpapi.Options{
		RateLimit:   cfg.Server.RateLimit,
		Burst:       cfg.Server.Burst,
		CORSOrigins: cfg.Server.CORSOrigins,
		Gatherer:    a.registry,
		Version:     version,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(ctx, addr)
	})

	if cfg.Policy.Watch {
		watcher := file.NewWatcher(a.loader, a.index.ApplyPolicies)
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	if cfg.Archive.Path != "" {
		archive, err := sqlite.NewStore(cfg.Archive.Path)
		if err != nil {
			return eris.Wrap(err, "open audit archive")
		}
		defer archive.Close()

		exporter := services.NewAuditExporter(a.audit, archive)
		g.Go(func() error {
			return exporter.Run(ctx, cfg.Archive.Interval)
		})
		zap.L().Info("audit archive enabled",
			zap.String("path", archive.Path()),
			zap.Duration("interval", cfg.Archive.Interval))
	}

	if err := g.Wait(); err != nil && !eris.Is(err, context.Canceled) {
		return err
	}
	return nil
}
