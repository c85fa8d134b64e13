// Package persistence defines the storage contracts for analysis runs. The
// pipeline depends only on these interfaces; the postgres subpackage carries
// the concrete archive.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/flipwell/compintel/internal/pipeline"
)

// ErrRunNotFound is returned when no archived run matches the id.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is the listing row for an archived run.
type RunSummary struct {
	RunID       string    `db:"run_id" json:"run_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	AssetCount  int       `db:"asset_count" json:"asset_count"`
	FailedCount int       `db:"failed_count" json:"failed_count"`
}

// RunArchive stores finished batch runs for later retrieval.
type RunArchive interface {
	SaveRun(ctx context.Context, result pipeline.BatchResult) error
	GetRun(ctx context.Context, runID string) (*pipeline.BatchResult, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}
