package classifier

import (
	"testing"

	"rxcheck/domain/taxonomy"

	"github.com/stretchr/testify/assert"
)

func TestClassifySingleMarker(t *testing.T) {
	v := Classify("SMILES Parse Error: Invalid ring closure at position 7")

	assert.True(t, v.Valid())
	pos, _ := taxonomy.Position(taxonomy.InvalidRingClosure)
	for i, flag := range v {
		if i == pos {
			assert.Equal(t, taxonomy.Present, flag, "ring closure flag")
		} else {
			assert.Equal(t, taxonomy.Absent, flag, "position %d", i)
		}
	}
}

func TestClassifyEveryMarker(t *testing.T) {
	for _, c := range taxonomy.Categories() {
		v := Classify("prefix " + taxonomy.Marker(c) + " suffix")
		assert.Equal(t, []taxonomy.ErrorCategory{c}, v.PresentCategories(), c)
	}
}

func TestClassifyMultipleMarkers(t *testing.T) {
	v := Classify("Unclosed ring; Invalid valence on atom 3; Duplicate bond")
	assert.Equal(t, []taxonomy.ErrorCategory{
		taxonomy.UnclosedRing,
		taxonomy.DuplicateBond,
		taxonomy.InvalidValence,
	}, v.PresentCategories())
}

func TestClassifyIsCaseSensitive(t *testing.T) {
	d := ClassifyDetailed("INVALID VALENCE")
	assert.True(t, d.Vector.IsFullyValid())
	assert.True(t, d.Unrecognized)
}

func TestClassifySynthesizedMessageIsUnrecognized(t *testing.T) {
	d := ClassifyDetailed("SMILES Parse Error: Failed to generate molecule from SMILES")
	assert.True(t, d.Vector.IsFullyValid())
	assert.True(t, d.Unrecognized)
}

func TestClassifyEmptyMessage(t *testing.T) {
	d := ClassifyDetailed("")
	assert.True(t, d.Vector.IsFullyValid())
	assert.False(t, d.Unrecognized)
}

func TestClassifyReturnsFreshVector(t *testing.T) {
	a := Classify("Invalid character")
	b := Classify("Invalid character")
	a[0] = 9
	assert.True(t, b.Valid())
}
