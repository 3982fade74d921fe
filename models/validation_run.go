package models

import (
	"database/sql"
	"time"

	"rxcheck/domain/reaction"
	"rxcheck/domain/taxonomy"

	"github.com/lib/pq"
)

// ValidationRun is the persisted record of one orchestrated validation
type ValidationRun struct {
	ID              string               `json:"id" db:"id"`
	BatchID         sql.NullString       `json:"-" db:"batch_id"`
	Product         string               `json:"product" db:"product"`
	Reactants       pq.StringArray       `json:"reactants" db:"reactants"`
	Verdict         string               `json:"verdict" db:"verdict"`
	Message         string               `json:"message" db:"message"`
	Evidence        string               `json:"evidence,omitempty" db:"evidence"`
	ProductVector   taxonomy.ErrorVector `json:"product_vector" db:"product_vector"`
	ReactantVectors pq.StringArray       `json:"reactant_vectors" db:"reactant_vectors"`
	Template        sql.NullString       `json:"-" db:"template"`
	Matched         sql.NullBool         `json:"-" db:"matched"`
	CatalogVersion  string               `json:"catalog_version" db:"catalog_version"`
	DurationMS      int64                `json:"duration_ms" db:"duration_ms"`
	CreatedAt       time.Time            `json:"created_at" db:"created_at"`
}

// NewValidationRun flattens an orchestrator result into its persisted form
func NewValidationRun(result *reaction.Result, batchID string) *ValidationRun {
	run := &ValidationRun{
		ID:             result.RunID.String(),
		Product:        result.Product.Input.Notation,
		Verdict:        string(result.Verdict),
		Message:        result.Message,
		ProductVector:  result.Product.Vector,
		CatalogVersion: taxonomy.CatalogVersion,
		DurationMS:     result.Duration.Milliseconds(),
		CreatedAt:      result.StartedAt.Time(),
	}
	if batchID != "" {
		run.BatchID = sql.NullString{String: batchID, Valid: true}
	}
	for _, r := range result.Reactants {
		run.Reactants = append(run.Reactants, r.Input.Notation)
		run.ReactantVectors = append(run.ReactantVectors, r.Vector.Bits())
	}
	if result.Evidence != nil {
		run.Evidence = result.Evidence.Text()
	}
	if result.Check != nil {
		run.Template = sql.NullString{String: result.Check.Template, Valid: true}
		run.Matched = sql.NullBool{Bool: result.Check.Match, Valid: true}
	}
	return run
}

// ReactantErrorVectors decodes the stored reactant vectors
func (r *ValidationRun) ReactantErrorVectors() ([]taxonomy.ErrorVector, error) {
	out := make([]taxonomy.ErrorVector, 0, len(r.ReactantVectors))
	for _, bits := range r.ReactantVectors {
		v, err := taxonomy.ParseBits(bits)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
