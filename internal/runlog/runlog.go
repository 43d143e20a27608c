// Package runlog records pipeline executions in a local SQLite ledger.
package runlog

import (
	"context"
	"time"
)

// Status is the lifecycle state of a recorded run.
type Status string

const (
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Stats summarizes one pipeline execution.
type Stats struct {
	Queries int    `json:"queries"`
	Failed  int    `json:"failed"`
	Raw     int    `json:"raw"`
	Kept    int    `json:"kept"`
	Output  string `json:"output"`
}

// Entry is one row of the ledger.
type Entry struct {
	ID          string     `json:"id"`
	Pipeline    string     `json:"pipeline"`
	Status      Status     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Stats       Stats      `json:"stats"`
	Error       string     `json:"error,omitempty"`
}

// Recorder persists run lifecycle events.
type Recorder interface {
	Start(ctx context.Context, pipeline string) (string, error)
	Complete(ctx context.Context, id string, stats Stats) error
	Fail(ctx context.Context, id string, stats Stats, errMsg string) error
	List(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// Nop is a Recorder that records nothing. It is used when no ledger path is
// configured.
type Nop struct{}

func (Nop) Start(context.Context, string) (string, error)     { return "", nil }
func (Nop) Complete(context.Context, string, Stats) error     { return nil }
func (Nop) Fail(context.Context, string, Stats, string) error { return nil }
func (Nop) List(context.Context, int) ([]Entry, error)        { return []Entry{}, nil }
func (Nop) Close() error                                      { return nil }

// Open returns a migrated SQLite recorder for path, or Nop when path is empty.
func Open(ctx context.Context, path string) (Recorder, error) {
	if path == "" {
		return Nop{}, nil
	}
	s, err := NewSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}
