package postgres

import (
	"context"
	"database/sql"
	"time"

	"rxcheck/models"
	"rxcheck/ports"

	"github.com/jmoiron/sqlx"
)

// LLMUsageRepositoryImpl implements LLMUsageRepository for PostgreSQL
type LLMUsageRepositoryImpl struct {
	db *sqlx.DB
}

// NewLLMUsageRepository creates a new PostgreSQL LLM usage repository
func NewLLMUsageRepository(db *sqlx.DB) ports.LLMUsageRepository {
	return &LLMUsageRepositoryImpl{db: db}
}

// RecordUsage records LLM usage for one escalation
func (r *LLMUsageRepositoryImpl) RecordUsage(ctx context.Context, usage *models.LLMUsage) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO llm_usage (
			id, run_id, provider, model, operation_type,
			prompt_tokens, completion_tokens, total_tokens, created_at
		) VALUES (
			:id, :run_id, :provider, :model, :operation_type,
			:prompt_tokens, :completion_tokens, :total_tokens, :created_at
		)
	`, usage)
	return err
}

// GetUsage retrieves usage records within a date range
func (r *LLMUsageRepositoryImpl) GetUsage(ctx context.Context, start, end time.Time) ([]*models.LLMUsage, error) {
	var usages []*models.LLMUsage
	err := r.db.SelectContext(ctx, &usages, `
		SELECT id, run_id, provider, model, operation_type,
		       prompt_tokens, completion_tokens, total_tokens, created_at
		FROM llm_usage
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC
	`, start, end)
	return usages, err
}

// GetUsageSummary returns aggregated usage statistics for a period
func (r *LLMUsageRepositoryImpl) GetUsageSummary(ctx context.Context, start, end time.Time) (*models.UsageSummary, error) {
	summary := &models.UsageSummary{
		PeriodStart: start,
		PeriodEnd:   end,
		ByModel:     make(map[string]models.ModelUsage),
	}

	err := r.db.GetContext(ctx, summary, `
		SELECT
			COUNT(*) as request_count,
			COALESCE(SUM(total_tokens), 0) as total_tokens,
			COALESCE(SUM(prompt_tokens), 0) as total_prompt_tokens,
			COALESCE(SUM(completion_tokens), 0) as total_completion_tokens
		FROM llm_usage
		WHERE created_at >= $1 AND created_at <= $2
	`, start, end)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	var byModel []models.ModelUsage
	err = r.db.SelectContext(ctx, &byModel, `
		SELECT model, provider, SUM(total_tokens) as total_tokens, COUNT(*) as request_count
		FROM llm_usage
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY model, provider
	`, start, end)
	if err != nil {
		return nil, err
	}
	for _, m := range byModel {
		summary.ByModel[m.Model] = m
	}

	return summary, nil
}
