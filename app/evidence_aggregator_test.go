package app

import (
	"testing"

	"rxcheck/domain/reaction"
	"rxcheck/domain/taxonomy"

	"github.com/stretchr/testify/assert"
)

func outcome(in reaction.MoleculeInput, parsed bool, cats ...taxonomy.ErrorCategory) reaction.ValidationOutcome {
	return reaction.ValidationOutcome{
		Input:  in,
		Parsed: parsed,
		Vector: taxonomy.FullyValid().With(cats...),
	}
}

func TestForValidationFailureListsOnlyFailures(t *testing.T) {
	ins := reaction.Reactants([]string{"CCO", "C1CC", "CC"})
	product := outcome(reaction.Product("CCOCC"), true)
	reactants := []reaction.ValidationOutcome{
		outcome(ins[0], true),
		outcome(ins[1], false, taxonomy.UnclosedRing),
		outcome(ins[2], true),
	}

	report := EvidenceAggregator{}.ForValidationFailure(product, reactants)
	assert.Equal(t, reaction.EvidenceValidationFailure, report.Kind)
	assert.Equal(t, []string{"Reactant 2 Error Vector: [0, 1, 1, 1, 1, 1, 1]"}, report.Lines)
}

func TestForValidationFailureProductOnly(t *testing.T) {
	ins := reaction.Reactants([]string{"CCO", "CC"})
	product := outcome(reaction.Product("C(("), false, taxonomy.InvalidCharacter)
	reactants := []reaction.ValidationOutcome{outcome(ins[0], true), outcome(ins[1], true)}

	report := EvidenceAggregator{}.ForValidationFailure(product, reactants)
	assert.Equal(t, []string{"Product Error Vector: [1, 0, 1, 1, 1, 1, 1]"}, report.Lines)
}

func TestForValidationFailureMarksUnclassified(t *testing.T) {
	ins := reaction.Reactants([]string{"X"})
	failed := outcome(ins[0], false)
	failed.Unrecognized = true

	report := EvidenceAggregator{}.ForValidationFailure(outcome(reaction.Product("CC"), true), []reaction.ValidationOutcome{failed})
	assert.Equal(t, []string{"Reactant 1 Error Vector: [1, 1, 1, 1, 1, 1, 1] (unclassified parse failure)"}, report.Lines)
}

func TestForReactionMismatchListsEverything(t *testing.T) {
	ins := reaction.Reactants([]string{"CCO", "CC(=O)O"})
	product := outcome(reaction.Product("CCOC(C)=O"), true)
	reactants := []reaction.ValidationOutcome{outcome(ins[0], true), outcome(ins[1], true)}

	report := EvidenceAggregator{}.ForReactionMismatch(product, reactants)
	assert.Equal(t, reaction.EvidenceReactionMismatch, report.Kind)
	assert.Equal(t, []string{
		reaction.MismatchStatement,
		"Product Error Vector: [1, 1, 1, 1, 1, 1, 1]",
		"Reactant 1 Error Vector: [1, 1, 1, 1, 1, 1, 1]",
		"Reactant 2 Error Vector: [1, 1, 1, 1, 1, 1, 1]",
	}, report.Lines)
}
