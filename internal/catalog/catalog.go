// Package catalog records parse runs in a SQLite database so a later run can
// tell whether an input or its parsed table changed.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	_ "modernc.org/sqlite"
)

// ErrNoRun is returned when a file has never been recorded.
var ErrNoRun = errors.New("no recorded parse run")

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run is one recorded parse of one file.
type Run struct {
	ID          string    `json:"run_id"`
	File        string    `json:"file"`
	InputDigest uint64    `json:"input_digest"`
	TableDigest uint64    `json:"table_digest"`
	Rows        int       `json:"rows"`
	Games       int       `json:"games"`
	ParsedAt    time.Time `json:"parsed_at"`
}

// Catalog is a handle on the run database.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates the catalog at path.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	c := &Catalog{db: db}
	if err := c.init(); err != nil {
		db.Close() // nolint:errcheck
		return nil, err
	}
	return c, nil
}

func (c *Catalog) init() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS parse_runs (
			run_id       TEXT PRIMARY KEY,
			file         TEXT NOT NULL,
			input_digest TEXT NOT NULL,
			table_digest TEXT NOT NULL,
			rows         INTEGER NOT NULL,
			games        INTEGER NOT NULL,
			parsed_at    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS parse_runs_file ON parse_runs(file, parsed_at)`,
	}
	for _, stmt := range stmts {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating catalog schema: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record stores run, assigning an ID and timestamp when they are unset.
func (c *Catalog) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.ParsedAt.IsZero() {
		run.ParsedAt = time.Now().UTC()
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO parse_runs (run_id, file, input_digest, table_digest, rows, games, parsed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.File, formatDigest(run.InputDigest), formatDigest(run.TableDigest),
		run.Rows, run.Games, run.ParsedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return Run{}, fmt.Errorf("recording run for %s: %w", run.File, err)
	}
	return run, nil
}

// LastRun returns the most recent run recorded for file.
func (c *Catalog) LastRun(ctx context.Context, file string) (Run, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT run_id, file, input_digest, table_digest, rows, games, parsed_at
		 FROM parse_runs WHERE file = ?
		 ORDER BY parsed_at DESC, rowid DESC LIMIT 1`, file)
	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%s: %w", file, ErrNoRun)
	}
	if err != nil {
		return Run{}, fmt.Errorf("reading run for %s: %w", file, err)
	}
	return run, nil
}

// Runs returns up to limit runs, newest first.
func (c *Catalog) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT run_id, file, input_digest, table_digest, rows, games, parsed_at
		 FROM parse_runs ORDER BY parsed_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("listing runs: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func scanRun(scan func(dest ...any) error) (Run, error) {
	var run Run
	var inDigest, tbDigest, parsedAt string
	if err := scan(&run.ID, &run.File, &inDigest, &tbDigest, &run.Rows, &run.Games, &parsedAt); err != nil {
		return Run{}, err
	}
	var err error
	if run.InputDigest, err = parseDigest(inDigest); err != nil {
		return Run{}, err
	}
	if run.TableDigest, err = parseDigest(tbDigest); err != nil {
		return Run{}, err
	}
	if run.ParsedAt, err = time.Parse(timeLayout, parsedAt); err != nil {
		return Run{}, fmt.Errorf("parsing timestamp: %w", err)
	}
	return run, nil
}

// Digests are stored as hex text; SQLite integers are signed.
func formatDigest(d uint64) string {
	return fmt.Sprintf("%016x", d)
}

func parseDigest(s string) (uint64, error) {
	d, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing digest %q: %w", s, err)
	}
	return d, nil
}

// InputDigest hashes the lines of an input file.
func InputDigest(lines []string) uint64 {
	return xxh3.HashString(strings.Join(lines, "\n"))
}
