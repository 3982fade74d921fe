package app

import (
	"context"
	stderrors "errors"
	"testing"

	"rxcheck/domain/core"
	"rxcheck/domain/reaction"
	"rxcheck/internal/errors"
	"rxcheck/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validated(t *testing.T, kit *testkit.Toolkit, product string, reactants ...string) (reaction.ValidationOutcome, []reaction.ValidationOutcome) {
	t.Helper()
	v := NewMoleculeValidator(kit, false)
	ctx := context.Background()

	p, err := v.Validate(ctx, reaction.Product(product))
	require.NoError(t, err)
	var rs []reaction.ValidationOutcome
	for _, in := range reaction.Reactants(reactants) {
		o, err := v.Validate(ctx, in)
		require.NoError(t, err)
		rs = append(rs, o)
	}
	return p, rs
}

func TestBuildTemplate(t *testing.T) {
	assert.Equal(t, "CCO.CC(=O)O>>CCOC(C)=O", BuildTemplate("CCOC(C)=O", []string{"CCO", "CC(=O)O"}))
	assert.Equal(t, "CCO>>CC=O", BuildTemplate("CC=O", []string{"CCO"}))
}

func TestCheckMatchesFirstMemberExactly(t *testing.T) {
	kit := testkit.NewToolkit().
		Accept("CCOC(C)=O", "CCO", "CC(=O)O").
		React("CCO.CC(=O)O>>CCOC(C)=O", []string{}, []string{"O"}, []string{"CCOC(C)=O", "O"})
	p, rs := validated(t, kit, "CCOC(C)=O", "CCO", "CC(=O)O")

	res, err := NewReactionChecker(kit, kit, nil).Check(context.Background(), p, rs)
	require.NoError(t, err)
	assert.True(t, res.Match)
	assert.Equal(t, "CCO.CC(=O)O>>CCOC(C)=O", res.Template)
	assert.Equal(t, 3, res.CandidateCount)
	assert.Equal(t, []string{"O", "CCOC(C)=O"}, res.Generated)
	assert.Equal(t, 1, kit.ReactionCallCount())
}

func TestCheckComparesAgainstInputNotCanonical(t *testing.T) {
	// The engine regenerates the product but in a different spelling.
	kit := testkit.NewToolkit().
		AcceptAs("O=C(C)OCC", "CCOC(C)=O").
		Accept("CCO", "CC(=O)O").
		React("CCO.CC(=O)O>>O=C(C)OCC", []string{"CCOC(C)=O"})
	p, rs := validated(t, kit, "O=C(C)OCC", "CCO", "CC(=O)O")

	res, err := NewReactionChecker(kit, kit, nil).Check(context.Background(), p, rs)
	require.NoError(t, err)
	assert.False(t, res.Match)
	assert.Equal(t, []string{"CCOC(C)=O"}, res.Generated)
}

func TestCheckNoCandidates(t *testing.T) {
	kit := testkit.NewToolkit().Accept("CC", "C")
	p, rs := validated(t, kit, "CC", "C")

	res, err := NewReactionChecker(kit, kit, nil).Check(context.Background(), p, rs)
	require.NoError(t, err)
	assert.False(t, res.Match)
	assert.Zero(t, res.CandidateCount)
	assert.Empty(t, res.Generated)
}

func TestCheckRequiresParsedMolecules(t *testing.T) {
	kit := testkit.NewToolkit().Accept("CC")
	p, rs := validated(t, kit, "CC", "C(")

	_, err := NewReactionChecker(kit, kit, nil).Check(context.Background(), p, rs)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPreconditionFailed)
	assert.Zero(t, kit.ReactionCallCount())
}

func TestCheckWrapsEngineFailure(t *testing.T) {
	kit := testkit.NewToolkit().Accept("CC", "C")
	kit.ReactionErr = stderrors.New("engine crashed")
	p, rs := validated(t, kit, "CC", "C")

	_, err := NewReactionChecker(kit, kit, nil).Check(context.Background(), p, rs)
	require.Error(t, err)
	assert.True(t, errors.IsExternalServiceError(err))
	assert.ErrorIs(t, err, kit.ReactionErr)
}

func TestCheckReleasesGeneratedStructures(t *testing.T) {
	kit := testkit.NewToolkit().
		Accept("CC", "C").
		React("C>>CC", []string{"CCC", "O"})
	p, rs := validated(t, kit, "CC", "C")

	_, err := NewReactionChecker(kit, kit, nil).Check(context.Background(), p, rs)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"mol:CCC", "mol:O"}, kit.Released)
}
