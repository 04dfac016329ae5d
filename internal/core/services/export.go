package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/indexd/internal/core/ports/driven"
	"github.com/custodia-labs/indexd/internal/core/ports/driving"
)

// DefaultExportInterval is used when Run is given a non-positive interval.
const DefaultExportInterval = 5 * time.Minute

// AuditExporter copies the audit trail into a durable archive.
type AuditExporter struct {
	audit   driving.AuditService
	archive driven.DecisionArchive
	log     *zap.Logger
}

// NewAuditExporter creates an exporter.
func NewAuditExporter(audit driving.AuditService, archive driven.DecisionArchive) *AuditExporter {
	return &AuditExporter{
		audit:   audit,
		archive: archive,
		log:     zap.L().Named("export"),
	}
}

// Export writes every snapshot and outcome to the archive.
// Repeated exports upsert the same rows.
func (e *AuditExporter) Export(ctx context.Context) error {
	snaps, err := e.audit.Snapshots(ctx)
	if err != nil {
		return err
	}
	if err := e.archive.SaveSnapshots(ctx, snaps); err != nil {
		return err
	}
	outcomes, err := e.audit.Outcomes(ctx)
	if err != nil {
		return err
	}
	if err := e.archive.SaveOutcomes(ctx, outcomes); err != nil {
		return err
	}
	e.log.Debug("audit trail exported",
		zap.Int("snapshots", len(snaps)),
		zap.Int("outcomes", len(outcomes)))
	return nil
}

// Run exports on every tick until ctx is done, then exports once more.
// A non-positive interval falls back to DefaultExportInterval.
func (e *AuditExporter) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		e.log.Warn("invalid export interval, using default",
			zap.Duration("interval", interval),
			zap.Duration("default", DefaultExportInterval))
		interval = DefaultExportInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			// Final flush outlives the cancelled context.
			return e.Export(context.WithoutCancel(ctx))
		case <-ticker.C:
			if err := e.Export(ctx); err != nil {
				e.log.Warn("audit export failed", zap.Error(err))
			}
		}
	}
}
