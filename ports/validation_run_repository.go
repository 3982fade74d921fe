package ports

import (
	"context"

	"rxcheck/domain/core"
	"rxcheck/models"
)

// RunFilter narrows ListRuns
type RunFilter struct {
	Verdict string
	BatchID string
	Limit   int
	Offset  int
}

// ValidationRunRepository defines the interface for persisted validation runs
type ValidationRunRepository interface {
	// SaveRun stores a completed run
	SaveRun(ctx context.Context, run *models.ValidationRun) error

	// GetRun retrieves a run by ID, or core.ErrRunNotFound
	GetRun(ctx context.Context, id core.RunID) (*models.ValidationRun, error)

	// ListRuns returns runs newest first
	ListRuns(ctx context.Context, filter RunFilter) ([]*models.ValidationRun, error)

	// CountByVerdict returns run totals keyed by verdict
	CountByVerdict(ctx context.Context) (map[string]int, error)
}
