package models

import (
	"testing"
	"time"

	"rxcheck/domain/core"
	"rxcheck/domain/reaction"
	"rxcheck/domain/taxonomy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidationRunFromMismatch(t *testing.T) {
	result := &reaction.Result{
		RunID:   core.NewRunID(),
		Verdict: reaction.VerdictReactionMismatch,
		Message: "diagnostic",
		Product: reaction.ValidationOutcome{
			Input:  reaction.Product("CCOC(C)=O"),
			Parsed: true,
			Vector: taxonomy.FullyValid(),
		},
		Reactants: []reaction.ValidationOutcome{
			{Input: reaction.Reactants([]string{"CCO"})[0], Parsed: true, Vector: taxonomy.FullyValid()},
		},
		Check:     &reaction.ReactionCheckResult{Match: false, Template: "CCO>>CCOC(C)=O"},
		Evidence:  &reaction.EvidenceReport{Lines: []string{reaction.MismatchStatement}},
		StartedAt: core.Now(),
		Duration:  1500 * time.Millisecond,
	}

	run := NewValidationRun(result, "batch-7")

	assert.Equal(t, result.RunID.String(), run.ID)
	assert.Equal(t, "batch-7", run.BatchID.String)
	assert.True(t, run.BatchID.Valid)
	assert.Equal(t, []string{"CCO"}, []string(run.Reactants))
	assert.Equal(t, []string{"1111111"}, []string(run.ReactantVectors))
	assert.Equal(t, "reaction_mismatch", run.Verdict)
	assert.Equal(t, reaction.MismatchStatement, run.Evidence)
	assert.True(t, run.Matched.Valid)
	assert.False(t, run.Matched.Bool)
	assert.Equal(t, int64(1500), run.DurationMS)
	assert.Equal(t, taxonomy.CatalogVersion, run.CatalogVersion)

	vectors, err := run.ReactantErrorVectors()
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	assert.True(t, vectors[0].IsFullyValid())
}

func TestNewValidationRunWithoutCheck(t *testing.T) {
	result := &reaction.Result{
		RunID:   core.NewRunID(),
		Verdict: reaction.VerdictInvalidStructure,
		Product: reaction.ValidationOutcome{Input: reaction.Product("C1CC"), Vector: taxonomy.FullyValid().With(taxonomy.UnclosedRing)},
	}

	run := NewValidationRun(result, "")
	assert.False(t, run.BatchID.Valid)
	assert.False(t, run.Template.Valid)
	assert.False(t, run.Matched.Valid)
	assert.Empty(t, run.Evidence)
	assert.Equal(t, "0111111", run.ProductVector.Bits())
}
