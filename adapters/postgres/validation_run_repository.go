package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"rxcheck/domain/core"
	"rxcheck/internal/errors"
	"rxcheck/models"
	"rxcheck/ports"

	"github.com/jmoiron/sqlx"
)

const runColumns = `id, batch_id, product, reactants, verdict, message, evidence,
	product_vector, reactant_vectors, template, matched, catalog_version, duration_ms, created_at`

// ValidationRunRepositoryImpl implements ValidationRunRepository for PostgreSQL
type ValidationRunRepositoryImpl struct {
	db *sqlx.DB
}

// NewValidationRunRepository creates a new PostgreSQL run repository
func NewValidationRunRepository(db *sqlx.DB) ports.ValidationRunRepository {
	return &ValidationRunRepositoryImpl{db: db}
}

// SaveRun inserts a completed run
func (r *ValidationRunRepositoryImpl) SaveRun(ctx context.Context, run *models.ValidationRun) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO validation_runs (`+runColumns+`)
		VALUES (
			:id, :batch_id, :product, :reactants, :verdict, :message, :evidence,
			:product_vector, :reactant_vectors, :template, :matched, :catalog_version, :duration_ms, :created_at
		)
	`, run)
	if err != nil {
		return errors.DatabaseError("failed to save validation run", err)
	}
	return nil
}

// GetRun retrieves a run by ID
func (r *ValidationRunRepositoryImpl) GetRun(ctx context.Context, id core.RunID) (*models.ValidationRun, error) {
	var run models.ValidationRun
	err := r.db.GetContext(ctx, &run, `SELECT `+runColumns+` FROM validation_runs WHERE id = $1`, id.String())
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to get validation run", err)
	}
	return &run, nil
}

// ListRuns returns runs newest first
func (r *ValidationRunRepositoryImpl) ListRuns(ctx context.Context, filter ports.RunFilter) ([]*models.ValidationRun, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Verdict != "" {
		args = append(args, filter.Verdict)
		where = append(where, fmt.Sprintf("verdict = $%d", len(args)))
	}
	if filter.BatchID != "" {
		args = append(args, filter.BatchID)
		where = append(where, fmt.Sprintf("batch_id = $%d", len(args)))
	}

	query := `SELECT ` + runColumns + ` FROM validation_runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var runs []*models.ValidationRun
	if err := r.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, errors.DatabaseError("failed to list validation runs", err)
	}
	return runs, nil
}

// CountByVerdict returns run totals keyed by verdict
func (r *ValidationRunRepositoryImpl) CountByVerdict(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT verdict, COUNT(*) FROM validation_runs GROUP BY verdict`)
	if err != nil {
		return nil, errors.DatabaseError("failed to count validation runs", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var verdict string
		var n int
		if err := rows.Scan(&verdict, &n); err != nil {
			return nil, err
		}
		counts[verdict] = n
	}
	return counts, rows.Err()
}
