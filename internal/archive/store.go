// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps a history of finder runs in a SQLite database so
// past reports can be listed and re-rendered. The search path never reads
// from it.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"

	"github.com/pdiddy/planfinder/pkg/types"
)

// DefaultPath is used when the archive is enabled without an explicit path.
const DefaultPath = "planfinder.db"

// timeLayout is fixed width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned by Run when no run has the given ID.
var ErrRunNotFound = errors.New("run not found")

// Store manages the archive database.
type Store struct {
	db *sql.DB
}

// Run summarizes one archived finder run.
type Run struct {
	ID           string
	StartedAt    time.Time
	Query        string
	DomainSuffix string
	RecordCount  int
}

// Open opens or creates the archive database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			query TEXT NOT NULL,
			domain_suffix TEXT NOT NULL,
			record_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			url TEXT NOT NULL,
			enrollment TEXT,
			plan_text TEXT,
			years_referenced TEXT,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores rep as a new run and returns its ID.
func (s *Store) Save(ctx context.Context, rep types.Report) (string, error) {
	id := xid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, query, domain_suffix, record_count) VALUES (?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(timeLayout), rep.Query, rep.DomainSuffix, len(rep.Records),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, position, url, enrollment, plan_text, years_referenced)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rep.Records {
		if _, err := stmt.ExecContext(ctx, id, i, r.URL, r.Enrollment, r.PlanText, r.YearsReferenced); err != nil {
			return "", fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// Runs lists archived runs, newest first. A limit of zero or less lists all.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT id, started_at, query, domain_suffix, record_count FROM runs ORDER BY started_at DESC, id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Run returns the summary of a single run.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, query, domain_suffix, record_count FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, err
}

// Records returns the records of a run in their original order.
func (s *Store) Records(ctx context.Context, runID string) ([]types.ResultRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url, enrollment, plan_text, years_referenced FROM records WHERE run_id = ? ORDER BY position`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []types.ResultRecord
	for rows.Next() {
		var r types.ResultRecord
		var enrollment, planText, years sql.NullString
		if err := rows.Scan(&r.URL, &enrollment, &planText, &years); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Enrollment = enrollment.String
		r.PlanText = planText.String
		r.YearsReferenced = years.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// Report rebuilds a report from an archived run. Diagnostics are not archived.
func (s *Store) Report(ctx context.Context, id string) (types.Report, error) {
	run, err := s.Run(ctx, id)
	if err != nil {
		return types.Report{}, err
	}
	records, err := s.Records(ctx, id)
	if err != nil {
		return types.Report{}, err
	}
	return types.Report{
		Query:        run.Query,
		DomainSuffix: run.DomainSuffix,
		Records:      records,
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var started string
	if err := sc.Scan(&r.ID, &started, &r.Query, &r.DomainSuffix, &r.RecordCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	t, err := time.Parse(timeLayout, started)
	if err != nil {
		return Run{}, fmt.Errorf("parsing run timestamp %q: %w", started, err)
	}
	r.StartedAt = t
	return r, nil
}
