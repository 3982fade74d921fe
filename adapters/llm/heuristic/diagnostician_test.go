package heuristic

import (
	"context"
	"testing"

	"rxcheck/models"
	"rxcheck/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticianDescribesFlaggedCategories(t *testing.T) {
	prompt := "preamble\n\nProduct Error Vector: [1, 1, 1, 1, 1, 0, 1]\nReactant 2 Error Vector: [0, 1, 1, 1, 1, 1, 0]\n\nPlease return"

	resp, err := NewDiagnostician().ChatCompletionWithUsage(context.Background(), ports.ChatRequest{UserPrompt: prompt})
	require.NoError(t, err)

	assert.Equal(t,
		"Product: 1111101 (Invalid Ring Closure)\nReactant 2: 0111110 (Unclosed Ring, Invalid Valence)",
		resp.Content)
	assert.Equal(t, models.ProviderHeuristic, resp.Usage.Provider)
}

func TestDiagnosticianMismatch(t *testing.T) {
	prompt := "The reactants do not combine to produce the given product.\nProduct Error Vector: [1, 1, 1, 1, 1, 1, 1]\nReactant 1 Error Vector: [1, 1, 1, 1, 1, 1, 1]"

	out, err := NewDiagnostician().ChatCompletion(context.Background(), ports.ChatRequest{UserPrompt: prompt})
	require.NoError(t, err)
	assert.Contains(t, out, "did not regenerate the stated product")
	assert.Contains(t, out, "Reactant 1: 1111111 (no structural defects flagged)")
}

func TestDiagnosticianUnclassifiedFailure(t *testing.T) {
	prompt := "Reactant 1 Error Vector: [1, 1, 1, 1, 1, 1, 1] (unclassified parse failure)"

	out, err := NewDiagnostician().ChatCompletion(context.Background(), ports.ChatRequest{UserPrompt: prompt})
	require.NoError(t, err)
	assert.Equal(t, "Reactant 1: 1111111 (parse failed, no category identified)", out)
}

func TestDiagnosticianEmptyEvidence(t *testing.T) {
	out, err := NewDiagnostician().ChatCompletion(context.Background(), ports.ChatRequest{UserPrompt: "nothing here"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestDiagnosticianHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDiagnostician().ChatCompletion(ctx, ports.ChatRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}
