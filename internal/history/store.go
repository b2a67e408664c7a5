// Package history persists past runs in a local SQLite database so a later
// run can avoid handing anyone the same recipient two years in a row.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"secretsanta/internal/notify"
	"secretsanta/internal/pairing"
)

// Store is the run ledger.
type Store struct {
	db *sql.DB
}

// Open initializes the SQLite database at the given path, creating the
// parent directory and schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		ran_at DATETIME NOT NULL,
		year INTEGER NOT NULL,
		budget REAL NOT NULL,
		dry_run INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS assignments (
		run_id TEXT NOT NULL REFERENCES runs(id),
		giver TEXT NOT NULL,
		recipient TEXT NOT NULL,
		status INTEGER NOT NULL,
		PRIMARY KEY (run_id, giver)
	);
	CREATE INDEX IF NOT EXISTS idx_assignments_giver ON assignments(giver);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize history schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun appends one run and its per-giver outcomes to the ledger.
func (s *Store) RecordRun(rep *notify.Report, ranAt time.Time, year int, budget float64, dryRun bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, ran_at, year, budget, dry_run) VALUES (?, ?, ?, ?, ?)`,
		rep.RunID, ranAt.UTC(), year, budget, boolToInt(dryRun),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", rep.RunID, err)
	}

	for giver, recipient := range rep.Assignments {
		_, err = tx.Exec(
			`INSERT INTO assignments (run_id, giver, recipient, status) VALUES (?, ?, ?, ?)`,
			rep.RunID, giver, recipient, int(rep.Result[giver]),
		)
		if err != nil {
			return fmt.Errorf("record assignment %s -> %s: %w", giver, recipient, err)
		}
	}

	return tx.Commit()
}

// LastAssignments returns each giver's most recent recipient across all
// recorded runs. Dry runs are skipped: nobody was told anything, so there
// is no draw to avoid repeating.
func (s *Store) LastAssignments() (pairing.Assignments, error) {
	rows, err := s.db.Query(`
		SELECT a.giver, a.recipient
		FROM assignments a
		JOIN runs r ON r.id = a.run_id
		WHERE r.dry_run = 0
		ORDER BY r.ran_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("load last assignments: %w", err)
	}
	defer rows.Close()

	last := make(pairing.Assignments)
	for rows.Next() {
		var giver, recipient string
		if err := rows.Scan(&giver, &recipient); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		if _, seen := last[giver]; !seen {
			last[giver] = recipient
		}
	}
	return last, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
