package app

import (
	"context"

	"rxcheck/domain/reaction"
	"rxcheck/domain/taxonomy"
	"rxcheck/internal/classifier"
	"rxcheck/internal/errors"
	"rxcheck/ports"
)

// SynthesizedParseError is the message classified for every parse failure.
// The toolkit's own text is not relied on because it is not guaranteed to be
// machine readable.
const SynthesizedParseError = "SMILES Parse Error: Failed to generate molecule from SMILES"

// MoleculeValidator parses one molecule string and turns the outcome into an
// error vector. It keeps no state between calls.
type MoleculeValidator struct {
	parser               ports.StructureParser
	forwardEngineMessage bool
}

// NewMoleculeValidator creates a validator. With forwardEngineMessage set,
// the toolkit's failure text is appended to the synthesized message before
// classification so its markers can fire.
func NewMoleculeValidator(parser ports.StructureParser, forwardEngineMessage bool) *MoleculeValidator {
	return &MoleculeValidator{
		parser:               parser,
		forwardEngineMessage: forwardEngineMessage,
	}
}

// Validate parses in and classifies any failure. Every notation, including
// the empty string, goes to the parser; only the parser decides validity.
func (v *MoleculeValidator) Validate(ctx context.Context, in reaction.MoleculeInput) (reaction.ValidationOutcome, error) {
	res, err := v.parser.Parse(ctx, in.Notation)
	if err != nil {
		return reaction.ValidationOutcome{}, errors.ExternalServiceError("chemistry toolkit", err)
	}

	if res.OK {
		structure := res.Structure
		return reaction.ValidationOutcome{
			Input:     in,
			Parsed:    true,
			Vector:    taxonomy.FullyValid(),
			Structure: &structure,
			Canonical: res.Canonical,
		}, nil
	}

	message := SynthesizedParseError
	if v.forwardEngineMessage && res.Message != "" {
		message += ": " + res.Message
	}
	classification := classifier.ClassifyDetailed(message)

	return reaction.ValidationOutcome{
		Input:        in,
		Parsed:       false,
		Vector:       classification.Vector,
		Unrecognized: classification.Unrecognized,
	}, nil
}
