package mapdb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunRecord is one persisted map-making run.
type RunRecord struct {
	ID          int64           `json:"id"`
	RunID       string          `json:"run_id"`
	InputPath   string          `json:"input_path"`
	Weighting   string          `json:"weighting"`
	NPix        int             `json:"npix"`
	Span        float64         `json:"span"`
	Intracyl    bool            `json:"intracyl"`
	NFreq       int             `json:"n_freq"`
	NBaseline   int             `json:"n_baseline"`
	NRA         int             `json:"n_ra"`
	Status      string          `json:"status"`
	Error       string          `json:"error,omitempty"`
	RMSSummary  json.RawMessage `json:"rms_summary,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// RunStore provides persistence for map-making runs.
type RunStore struct {
	db *DB
}

// NewRunStore creates a RunStore over an open database.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// InsertRun records a run at start time with status "running".
func (s *RunStore) InsertRun(rec RunRecord) error {
	query := `
		INSERT INTO map_runs (
			run_id, input_path, weighting, npix, span, intracyl,
			n_freq, n_baseline, n_ra, status, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	err := retryOnBusy(func() error {
		_, err := s.db.Exec(query,
			rec.RunID,
			rec.InputPath,
			rec.Weighting,
			rec.NPix,
			rec.Span,
			boolInt(rec.Intracyl),
			rec.NFreq,
			rec.NBaseline,
			rec.NRA,
			StatusRunning,
			rec.StartedAt.UTC().Format(time.RFC3339),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", rec.RunID, err)
	}
	return nil
}

// CompleteRun marks a run finished, storing the final status, optional RMS
// summary, error message and completion time.
func (s *RunStore) CompleteRun(runID, status string, rmsSummary json.RawMessage, completedAt time.Time, errMsg string) error {
	query := `
		UPDATE map_runs
		SET status = ?, rms_summary = ?, error = ?, completed_at = ?
		WHERE run_id = ?
	`
	err := retryOnBusy(func() error {
		_, err := s.db.Exec(query,
			status,
			nullJSON(rmsSummary),
			nullStr(errMsg),
			completedAt.UTC().Format(time.RFC3339),
			runID,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("completing run %s: %w", runID, err)
	}
	return nil
}

// GetRun loads one run by its run id. Returns (nil, nil) when absent.
func (s *RunStore) GetRun(runID string) (*RunRecord, error) {
	query := `
		SELECT id, run_id, input_path, weighting, npix, span, intracyl,
		       n_freq, n_baseline, n_ra, status, error, rms_summary,
		       started_at, completed_at
		FROM map_runs
		WHERE run_id = ?
	`
	rec, err := scanRun(s.db.QueryRow(query, runID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	return rec, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *RunStore) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, run_id, input_path, weighting, npix, span, intracyl,
		       n_freq, n_baseline, n_ra, status, error, rms_summary,
		       started_at, completed_at
		FROM map_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		rec          RunRecord
		intracyl     int
		errStr       sql.NullString
		rmsStr       sql.NullString
		startedAt    string
		completedStr sql.NullString
	)
	if err := row.Scan(
		&rec.ID, &rec.RunID, &rec.InputPath, &rec.Weighting, &rec.NPix,
		&rec.Span, &intracyl, &rec.NFreq, &rec.NBaseline, &rec.NRA,
		&rec.Status, &errStr, &rmsStr, &startedAt, &completedStr,
	); err != nil {
		return nil, err
	}
	rec.Intracyl = intracyl != 0
	if errStr.Valid {
		rec.Error = errStr.String
	}
	if rmsStr.Valid && rmsStr.String != "" {
		rec.RMSSummary = json.RawMessage(rmsStr.String)
	}
	t, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing started_at %q: %w", startedAt, err)
	}
	rec.StartedAt = t
	if completedStr.Valid && completedStr.String != "" {
		ct, err := time.Parse(time.RFC3339, completedStr.String)
		if err != nil {
			return nil, fmt.Errorf("parsing completed_at %q: %w", completedStr.String, err)
		}
		rec.CompletedAt = &ct
	}
	return &rec, nil
}

// nullStr returns nil for empty strings, pointer to string otherwise.
func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullJSON returns a nullable string for a JSON value, treating nil or empty
// as NULL.
func nullJSON(data json.RawMessage) *string {
	if len(data) == 0 {
		return nil
	}
	s := string(data)
	return &s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
