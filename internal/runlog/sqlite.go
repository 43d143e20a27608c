package runlog

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLite implements Recorder using modernc.org/sqlite.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "runlog: exec %s", pragma)
		}
	}
	return &SQLite{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS pipeline_runs (
	id           TEXT PRIMARY KEY,
	pipeline     TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'running',
	started_at   TEXT NOT NULL,
	completed_at TEXT,
	queries      INTEGER NOT NULL DEFAULT 0,
	failed       INTEGER NOT NULL DEFAULT 0,
	raw          INTEGER NOT NULL DEFAULT 0,
	kept         INTEGER NOT NULL DEFAULT 0,
	output       TEXT NOT NULL DEFAULT '',
	error        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_pipeline_runs_started_at ON pipeline_runs(started_at);
`

// Migrate creates the ledger schema if it does not exist.
func (s *SQLite) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "runlog: migrate")
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Start records the beginning of a run and returns its ID.
func (s *SQLite) Start(ctx context.Context, pipeline string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pipeline_runs (id, pipeline, status, started_at) VALUES (?, ?, ?, ?)`,
		id, pipeline, string(StatusRunning), formatTime(time.Now()),
	)
	if err != nil {
		return "", eris.Wrapf(err, "runlog: start %s", pipeline)
	}
	return id, nil
}

// Complete marks a run as finished.
func (s *SQLite) Complete(ctx context.Context, id string, stats Stats) error {
	return s.finish(ctx, id, StatusComplete, stats, "")
}

// Fail marks a run as failed with an error message.
func (s *SQLite) Fail(ctx context.Context, id string, stats Stats, errMsg string) error {
	return s.finish(ctx, id, StatusFailed, stats, errMsg)
}

func (s *SQLite) finish(ctx context.Context, id string, status Status, stats Stats, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pipeline_runs
		 SET status = ?, completed_at = ?, queries = ?, failed = ?, raw = ?, kept = ?, output = ?, error = ?
		 WHERE id = ?`,
		string(status), formatTime(time.Now()), stats.Queries, stats.Failed, stats.Raw, stats.Kept, stats.Output, errMsg, id,
	)
	if err != nil {
		return eris.Wrapf(err, "runlog: %s run %s", status, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "runlog: rows affected")
	}
	if n == 0 {
		return eris.Errorf("runlog: run not found: %s", id)
	}
	return nil
}

// List returns the most recent runs first. limit <= 0 returns every run.
func (s *SQLite) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, pipeline, status, started_at, completed_at, queries, failed, raw, kept, output, error
		FROM pipeline_runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: list runs")
	}
	defer rows.Close() //nolint:errcheck

	entries := []Entry{}
	for rows.Next() {
		var (
			e         Entry
			status    string
			started   string
			completed sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Pipeline, &status, &started, &completed,
			&e.Stats.Queries, &e.Stats.Failed, &e.Stats.Raw, &e.Stats.Kept, &e.Stats.Output, &e.Error); err != nil {
			return nil, eris.Wrap(err, "runlog: scan run")
		}
		e.Status = Status(status)
		if e.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		if completed.Valid {
			t, err := parseTime(completed.String)
			if err != nil {
				return nil, err
			}
			e.CompletedAt = &t
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "runlog: iterate runs")
}

// timeLayout is fixed width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "runlog: parse time %q", s)
	}
	return t, nil
}
