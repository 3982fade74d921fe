package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReactantsAreNumberedFromOne(t *testing.T) {
	in := Reactants([]string{"CCO", "CC(=O)O"})
	assert.Len(t, in, 2)
	assert.Equal(t, "Reactant 1", in[0].Label())
	assert.Equal(t, "Reactant 2", in[1].Label())
	assert.Equal(t, RoleReactant, in[1].Role)
	assert.Equal(t, "Product", Product("CCOC(C)=O").Label())
	assert.Equal(t, "Molecule", Molecule("CCO").Label())
}

func TestEvidenceReportText(t *testing.T) {
	var r EvidenceReport
	assert.True(t, r.IsEmpty())
	r.Append(MismatchStatement)
	r.Append("Product Error Vector: [1, 1, 1, 1, 1, 1, 1]")
	assert.False(t, r.IsEmpty())
	assert.Equal(t,
		"The reactants do not combine to produce the given product.\nProduct Error Vector: [1, 1, 1, 1, 1, 1, 1]",
		r.Text())
}

func TestVerdictEscalated(t *testing.T) {
	assert.False(t, VerdictValid.Escalated())
	assert.True(t, VerdictInvalidStructure.Escalated())
	assert.True(t, VerdictReactionMismatch.Escalated())
}
