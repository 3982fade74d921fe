package app

import (
	"context"
	"fmt"
	"strings"

	"rxcheck/domain/core"
	"rxcheck/domain/reaction"
	"rxcheck/internal"
	"rxcheck/internal/errors"
	"rxcheck/ports"
)

// ReactionChecker asks the reaction engine whether the reactants regenerate
// the stated product.
type ReactionChecker struct {
	engine        ports.ReactionEngine
	canonicalizer ports.Canonicalizer
	logger        *internal.Logger
}

// NewReactionChecker creates a checker
func NewReactionChecker(engine ports.ReactionEngine, canonicalizer ports.Canonicalizer, logger *internal.Logger) *ReactionChecker {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ReactionChecker{engine: engine, canonicalizer: canonicalizer, logger: logger}
}

// BuildTemplate joins the reactant strings with "." and appends ">>product".
func BuildTemplate(product string, reactants []string) string {
	return strings.Join(reactants, ".") + ">>" + product
}

// Check runs the engine once. Each candidate set's first member is
// canonicalized and compared to the product's input string with exact string
// equality; a chemically identical product written differently does not match.
func (c *ReactionChecker) Check(ctx context.Context, product reaction.ValidationOutcome, reactants []reaction.ValidationOutcome) (reaction.ReactionCheckResult, error) {
	if !product.Parsed || product.Structure == nil {
		return reaction.ReactionCheckResult{}, fmt.Errorf("%w: product did not parse", core.ErrPreconditionFailed)
	}

	notations := make([]string, len(reactants))
	structures := make([]reaction.Structure, len(reactants))
	for i, r := range reactants {
		if !r.Parsed || r.Structure == nil {
			return reaction.ReactionCheckResult{}, fmt.Errorf("%w: reactant %d did not parse", core.ErrPreconditionFailed, r.Input.Index)
		}
		notations[i] = r.Input.Notation
		structures[i] = *r.Structure
	}

	result := reaction.ReactionCheckResult{
		Template: BuildTemplate(product.Input.Notation, notations),
	}

	candidates, err := c.engine.RunReactants(ctx, result.Template, structures)
	if err != nil {
		return reaction.ReactionCheckResult{}, errors.ExternalServiceError("reaction engine", err)
	}
	result.CandidateCount = len(candidates)
	defer c.release(candidates)

	for _, set := range candidates {
		if len(set) == 0 {
			continue
		}
		generated, err := c.canonicalizer.Canonicalize(ctx, set[0])
		if err != nil {
			return reaction.ReactionCheckResult{}, errors.ExternalServiceError("chemistry toolkit", err)
		}
		result.Generated = append(result.Generated, generated)
		if generated == product.Input.Notation {
			result.Match = true
			break
		}
	}

	c.logger.Debug("[ReactionChecker] %s: %d candidate set(s), match=%t", result.Template, result.CandidateCount, result.Match)
	return result, nil
}

// release frees engine-generated handles when the engine holds them
func (c *ReactionChecker) release(candidates [][]reaction.Structure) {
	releaser, ok := c.engine.(ports.StructureReleaser)
	if !ok {
		return
	}
	var all []reaction.Structure
	for _, set := range candidates {
		all = append(all, set...)
	}
	if len(all) == 0 {
		return
	}
	if err := releaser.Release(context.Background(), all...); err != nil {
		c.logger.Warn("[ReactionChecker] failed to release %d generated structure(s): %v", len(all), err)
	}
}
