package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

// memoryArchive records archived rows keyed by decision id.
type memoryArchive struct {
	mu        sync.Mutex
	snapshots map[string]domain.DecisionSnapshot
	outcomes  map[string]domain.DecisionOutcome
	saves     int
	saveErr   error
}

func newMemoryArchive() *memoryArchive {
	return &memoryArchive{
		snapshots: map[string]domain.DecisionSnapshot{},
		outcomes:  map[string]domain.DecisionOutcome{},
	}
}

func (m *memoryArchive) SaveSnapshots(_ context.Context, snaps []domain.DecisionSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	for _, s := range snaps {
		m.snapshots[s.DecisionID] = s
	}
	return nil
}

func (m *memoryArchive) SaveOutcomes(_ context.Context, outcomes []domain.DecisionOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range outcomes {
		m.outcomes[o.DecisionID] = o
	}
	return nil
}

func (m *memoryArchive) Close() error { return nil }

func (m *memoryArchive) counts() (int, int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snapshots), len(m.outcomes), m.saves
}

func TestAuditExporter_Export(t *testing.T) {
	a, _, _ := newTestAudit(t)
	ctx := context.Background()
	id, err := a.Emit(ctx, &domain.DecisionSnapshot{Intent: "q"})
	require.NoError(t, err)
	_, err = a.RecordOutcome(ctx, domain.DecisionOutcome{DecisionID: id, Outcome: domain.OutcomeSuccess, SignalSource: domain.SignalUser})
	require.NoError(t, err)
	archive := newMemoryArchive()
	exp := NewAuditExporter(a, archive)

	require.NoError(t, exp.Export(ctx))
	require.NoError(t, exp.Export(ctx))

	snaps, outcomes, saves := archive.counts()
	assert.Equal(t, 1, snaps)
	assert.Equal(t, 1, outcomes)
	assert.Equal(t, 2, saves)
}

func TestAuditExporter_ExportError(t *testing.T) {
	a, _, _ := newTestAudit(t)
	archive := newMemoryArchive()
	archive.saveErr = errors.New("disk full")

	err := NewAuditExporter(a, archive).Export(context.Background())

	assert.EqualError(t, err, "disk full")
}

func TestAuditExporter_RunFlushesOnCancel(t *testing.T) {
	a, _, _ := newTestAudit(t)
	archive := newMemoryArchive()
	exp := NewAuditExporter(a, archive)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- exp.Run(ctx, time.Hour) }()

	_, err := a.Emit(context.Background(), &domain.DecisionSnapshot{Intent: "late"})
	require.NoError(t, err)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("exporter did not stop")
	}
	snaps, _, _ := archive.counts()
	assert.Equal(t, 1, snaps)
}

func TestAuditExporter_RunNonPositiveInterval(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
	}{
		{"zero", 0},
		{"negative", -time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, _ := newTestAudit(t)
			archive := newMemoryArchive()
			_, err := a.Emit(context.Background(), &domain.DecisionSnapshot{Intent: "pending"})
			require.NoError(t, err)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			require.NotPanics(t, func() {
				err = NewAuditExporter(a, archive).Run(ctx, tt.interval)
			})

			require.NoError(t, err)
			snaps, _, _ := archive.counts()
			assert.Equal(t, 1, snaps)
		})
	}
}
