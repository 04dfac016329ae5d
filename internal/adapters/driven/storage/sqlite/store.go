package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/indexd/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/indexd/internal/core/domain"
	"github.com/custodia-labs/indexd/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DecisionArchive = (*Store)(nil)

// Store is the SQLite decision archive.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the archive at path.
// If path is empty, defaults to ~/.indexd/data/audit.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: get home directory")
		}
		path = filepath.Join(home, ".indexd", "data", "audit.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, eris.Wrap(err, "sqlite: create data directory")
	}

	// WAL mode lets readers run while the exporter writes.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open database")
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite: enable foreign keys")
	}

	s := &Store{
		db:   db,
		path: path,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite: run migrations")
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies pending up migrations in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return eris.Wrap(err, "create schema_migrations table")
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return eris.Wrap(err, "get current version")
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return eris.Wrap(err, "read migrations directory")
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_decision_archive.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return eris.Wrapf(err, "read migration %s", name)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return eris.Wrapf(err, "execute migration %s", name)
		}
	}

	return nil
}

// ==================== Decision Archive ====================

// SaveSnapshots upserts snapshots in a single transaction.
func (s *Store) SaveSnapshots(ctx context.Context, snaps []domain.DecisionSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO decision_snapshots
				(decision_id, intent, timestamp, namespace, context_profile, selected_id, policy_hash, candidates)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(decision_id) DO UPDATE SET
				intent = excluded.intent,
				timestamp = excluded.timestamp,
				namespace = excluded.namespace,
				context_profile = excluded.context_profile,
				selected_id = excluded.selected_id,
				policy_hash = excluded.policy_hash,
				candidates = excluded.candidates
		`)
		if err != nil {
			return eris.Wrap(err, "sqlite: prepare snapshot upsert")
		}
		defer stmt.Close()

		for _, snap := range snaps {
			candidates, err := json.Marshal(snap.Candidates)
			if err != nil {
				return eris.Wrapf(err, "sqlite: encode candidates of %s", snap.DecisionID)
			}
			_, err = stmt.ExecContext(ctx,
				snap.DecisionID,
				snap.Intent,
				snap.Timestamp.UTC().Format(time.RFC3339Nano),
				snap.Namespace,
				nullString(snap.ContextProfile),
				nullString(snap.SelectedID),
				snap.PolicyHash,
				string(candidates),
			)
			if err != nil {
				return eris.Wrapf(err, "sqlite: upsert snapshot %s", snap.DecisionID)
			}
		}
		return nil
	})
}

// SaveOutcomes upserts outcomes in a single transaction.
// Outcomes whose snapshot is not archived are skipped.
func (s *Store) SaveOutcomes(ctx context.Context, outcomes []domain.DecisionOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO decision_outcomes (decision_id, outcome, signal_source, timestamp, notes)
			SELECT ?, ?, ?, ?, ?
			WHERE EXISTS (SELECT 1 FROM decision_snapshots WHERE decision_id = ?)
			ON CONFLICT(decision_id) DO UPDATE SET
				outcome = excluded.outcome,
				signal_source = excluded.signal_source,
				timestamp = excluded.timestamp,
				notes = excluded.notes
		`)
		if err != nil {
			return eris.Wrap(err, "sqlite: prepare outcome upsert")
		}
		defer stmt.Close()

		for _, o := range outcomes {
			_, err := stmt.ExecContext(ctx,
				o.DecisionID,
				string(o.Outcome),
				string(o.SignalSource),
				o.Timestamp.UTC().Format(time.RFC3339Nano),
				nullString(o.Notes),
				o.DecisionID,
			)
			if err != nil {
				return eris.Wrapf(err, "sqlite: upsert outcome %s", o.DecisionID)
			}
		}
		return nil
	})
}

// ListSnapshots returns archived snapshots ordered by id.
func (s *Store) ListSnapshots(ctx context.Context) ([]domain.DecisionSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT decision_id, intent, timestamp, namespace, context_profile, selected_id, policy_hash, candidates
		FROM decision_snapshots ORDER BY decision_id
	`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query snapshots")
	}
	defer rows.Close()

	var out []domain.DecisionSnapshot
	for rows.Next() {
		var (
			snap       domain.DecisionSnapshot
			ts         string
			profile    sql.NullString
			selected   sql.NullString
			candidates string
		)
		if err := rows.Scan(&snap.DecisionID, &snap.Intent, &ts, &snap.Namespace,
			&profile, &selected, &snap.PolicyHash, &candidates); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan snapshot")
		}
		snap.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse timestamp of %s", snap.DecisionID)
		}
		snap.ContextProfile = profile.String
		snap.SelectedID = selected.String
		if err := json.Unmarshal([]byte(candidates), &snap.Candidates); err != nil {
			return nil, eris.Wrapf(err, "sqlite: decode candidates of %s", snap.DecisionID)
		}
		out = append(out, snap)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate snapshots")
}

// ListOutcomes returns archived outcomes ordered by decision id.
func (s *Store) ListOutcomes(ctx context.Context) ([]domain.DecisionOutcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT decision_id, outcome, signal_source, timestamp, notes
		FROM decision_outcomes ORDER BY decision_id
	`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query outcomes")
	}
	defer rows.Close()

	var out []domain.DecisionOutcome
	for rows.Next() {
		var (
			o       domain.DecisionOutcome
			outcome string
			sigSrc  string
			ts      string
			notes   sql.NullString
		)
		if err := rows.Scan(&o.DecisionID, &outcome, &sigSrc, &ts, &notes); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan outcome")
		}
		o.Outcome = domain.Outcome(outcome)
		o.SignalSource = domain.SignalSource(sigSrc)
		o.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse timestamp of %s", o.DecisionID)
		}
		o.Notes = notes.String
		out = append(out, o)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate outcomes")
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
