// Package taxonomy defines the fixed, ordered catalog of structural defect
// kinds and the positional error vectors built on top of it.
package taxonomy

// ErrorCategory identifies one kind of structural defect in a molecule string.
type ErrorCategory string

const (
	UnclosedRing       ErrorCategory = "Unclosed Ring"
	InvalidCharacter   ErrorCategory = "Invalid Character"
	DuplicateBond      ErrorCategory = "Duplicate Bond"
	InvalidBondOrder   ErrorCategory = "Invalid Bond Order"
	AtomNotRecognized  ErrorCategory = "Atom Not Recognized"
	InvalidRingClosure ErrorCategory = "Invalid Ring Closure"
	InvalidValence     ErrorCategory = "Invalid Valence"
)

// CatalogVersion changes whenever the catalog order or membership changes.
// Persisted vectors carry it so older rows can be told apart.
const CatalogVersion = "v1"

type entry struct {
	category ErrorCategory
	marker   string
}

// catalog order is the positional schema of every ErrorVector.
var catalog = [...]entry{
	{UnclosedRing, "Unclosed ring"},
	{InvalidCharacter, "Invalid character"},
	{DuplicateBond, "Duplicate bond"},
	{InvalidBondOrder, "Invalid bond order"},
	{AtomNotRecognized, "Atom not recognized"},
	{InvalidRingClosure, "Invalid ring closure"},
	{InvalidValence, "Invalid valence"},
}

var positions = func() map[ErrorCategory]int {
	m := make(map[ErrorCategory]int, len(catalog))
	for i, e := range catalog {
		m[e.category] = i
	}
	return m
}()

// Count returns the number of categories, which is also every vector's length.
func Count() int {
	return len(catalog)
}

// Categories returns the catalog in positional order.
func Categories() []ErrorCategory {
	out := make([]ErrorCategory, len(catalog))
	for i, e := range catalog {
		out[i] = e.category
	}
	return out
}

// Position returns the fixed vector index of c.
func Position(c ErrorCategory) (int, bool) {
	i, ok := positions[c]
	return i, ok
}

// Marker returns the case-sensitive phrase that signals c in a parser
// failure message, or "" for an unknown category.
func Marker(c ErrorCategory) string {
	if i, ok := positions[c]; ok {
		return catalog[i].marker
	}
	return ""
}

// String returns the display name of the category.
func (c ErrorCategory) String() string {
	return string(c)
}
