package ports

import (
	"context"

	"rxcheck/domain/reaction"
)

// ParseResult is the explicit outcome of asking the toolkit to parse one
// notation string. OK=false is a chemical verdict, not a failure: the
// returned error of Parse is reserved for the toolkit itself breaking.
type ParseResult struct {
	OK        bool
	Structure reaction.Structure
	Canonical string
	// Message is the toolkit's own failure text, when it gives one.
	Message string
}

// StructureParser turns notation strings into structure handles
type StructureParser interface {
	Parse(ctx context.Context, notation string) (ParseResult, error)
}

// Canonicalizer renders a parsed structure in canonical notation
type Canonicalizer interface {
	Canonicalize(ctx context.Context, s reaction.Structure) (string, error)
}

// ReactionEngine applies a reaction template ("A.B>>P") to reactant structures
// and returns every candidate product tuple, possibly none.
type ReactionEngine interface {
	RunReactants(ctx context.Context, template string, reactants []reaction.Structure) ([][]reaction.Structure, error)
}

// ChemistryToolkit is the full external chemistry collaborator
type ChemistryToolkit interface {
	StructureParser
	Canonicalizer
	ReactionEngine
}

// StructureReleaser is implemented by toolkits that hold server-side state
// per handle and want it freed at the end of a run.
type StructureReleaser interface {
	Release(ctx context.Context, structures ...reaction.Structure) error
}
