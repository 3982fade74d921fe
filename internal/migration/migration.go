package migration

import (
	"context"

	"rxcheck/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the run ledger and usage tables. Every statement
// is idempotent so Run is safe on each start.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{version: "1.0.0"}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, step := range Statements() {
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			return errors.Wrapf(err, "failed to %s", step.Name)
		}
	}
	return nil
}

// Step is one named DDL statement
type Step struct {
	Name string
	SQL  string
}

// Statements returns the DDL in execution order
func Statements() []Step {
	return []Step{
		{Name: "create validation_runs table", SQL: `
			CREATE TABLE IF NOT EXISTS validation_runs (
				id UUID PRIMARY KEY,
				batch_id VARCHAR(64),
				product TEXT NOT NULL,
				reactants TEXT[] NOT NULL,
				verdict VARCHAR(32) NOT NULL,
				message TEXT NOT NULL,
				evidence TEXT NOT NULL DEFAULT '',
				product_vector VARCHAR(16) NOT NULL,
				reactant_vectors TEXT[] NOT NULL,
				template TEXT,
				matched BOOLEAN,
				catalog_version VARCHAR(16) NOT NULL,
				duration_ms BIGINT NOT NULL DEFAULT 0,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			)`},
		{Name: "create llm_usage table", SQL: `
			CREATE TABLE IF NOT EXISTS llm_usage (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				run_id UUID,
				provider VARCHAR(32) NOT NULL,
				model VARCHAR(100) NOT NULL,
				operation_type VARCHAR(50) NOT NULL,
				prompt_tokens INTEGER NOT NULL DEFAULT 0,
				completion_tokens INTEGER NOT NULL DEFAULT 0,
				total_tokens INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			)`},
		{Name: "create indexes", SQL: `
			CREATE INDEX IF NOT EXISTS idx_validation_runs_created_at ON validation_runs(created_at DESC);
			CREATE INDEX IF NOT EXISTS idx_validation_runs_verdict ON validation_runs(verdict);
			CREATE INDEX IF NOT EXISTS idx_validation_runs_batch_id ON validation_runs(batch_id) WHERE batch_id IS NOT NULL;
			CREATE INDEX IF NOT EXISTS idx_llm_usage_created_at ON llm_usage(created_at);
			CREATE INDEX IF NOT EXISTS idx_llm_usage_run_id ON llm_usage(run_id)`},
	}
}
