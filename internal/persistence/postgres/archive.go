// Package postgres implements the run archive on PostgreSQL. Each batch run
// is stored as one row with the full result serialized to JSONB, plus the
// counters the listing endpoint needs without unpacking the blob.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/flipwell/compintel/internal/persistence"
	"github.com/flipwell/compintel/internal/pipeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	run_id       TEXT PRIMARY KEY,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	asset_count  INTEGER NOT NULL,
	failed_count INTEGER NOT NULL,
	result       JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_created_at ON analysis_runs (created_at DESC);
`

// Archive is the PostgreSQL-backed run archive.
type Archive struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewArchive connects to dsn and ensures the schema exists.
func NewArchive(dsn string, timeout time.Duration) (*Archive, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect archive: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure archive schema: %w", err)
	}
	return &Archive{db: db, timeout: timeout}, nil
}

// NewArchiveWithDB wraps an existing connection. The caller owns its lifecycle.
func NewArchiveWithDB(db *sqlx.DB, timeout time.Duration) *Archive {
	return &Archive{db: db, timeout: timeout}
}

// Close releases the connection pool.
func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveRun archives one batch result.
func (a *Archive) SaveRun(ctx context.Context, result pipeline.BatchResult) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	blob, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", result.RunID, err)
	}

	failed := 0
	for _, item := range result.Items {
		if item.Error != "" {
			failed++
		}
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (run_id, asset_count, failed_count, result)
		VALUES ($1, $2, $3, $4)`,
		result.RunID, len(result.Items), failed, blob)
	if err != nil {
		return fmt.Errorf("save run %s: %w", result.RunID, err)
	}

	log.Debug().Str("run", result.RunID).Int("assets", len(result.Items)).Msg("run archived")
	return nil
}

// GetRun loads an archived run by id.
func (a *Archive) GetRun(ctx context.Context, runID string) (*pipeline.BatchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var blob []byte
	err := a.db.GetContext(ctx, &blob, `SELECT result FROM analysis_runs WHERE run_id = $1`, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}

	var result pipeline.BatchResult
	if err := json.Unmarshal(blob, &result); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", runID, err)
	}
	return &result, nil
}

// ListRuns returns the most recent run summaries, newest first.
func (a *Archive) ListRuns(ctx context.Context, limit int) ([]persistence.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	summaries := []persistence.RunSummary{}
	err := a.db.SelectContext(ctx, &summaries, `
		SELECT run_id, created_at, asset_count, failed_count
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return summaries, nil
}
