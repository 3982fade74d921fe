package app

import (
	"rxcheck/domain/reaction"
)

// unclassifiedNote marks a failed molecule whose vector reads as fully valid.
const unclassifiedNote = " (unclassified parse failure)"

// EvidenceAggregator builds the evidence reports handed to escalation.
//
// Validation-failure reports list only what is wrong; reaction-mismatch
// reports list every molecule because the contradiction may lie anywhere.
type EvidenceAggregator struct{}

// ForValidationFailure lists the product if it failed and each reactant
// that failed, in index order.
func (EvidenceAggregator) ForValidationFailure(product reaction.ValidationOutcome, reactants []reaction.ValidationOutcome) reaction.EvidenceReport {
	report := reaction.EvidenceReport{Kind: reaction.EvidenceValidationFailure}
	if product.Failed() {
		report.Append(vectorLine(product))
	}
	for _, r := range reactants {
		if r.Failed() || !r.Vector.IsFullyValid() {
			report.Append(vectorLine(r))
		}
	}
	return report
}

// ForReactionMismatch lists the mismatch statement, the product and every
// reactant, in index order.
func (EvidenceAggregator) ForReactionMismatch(product reaction.ValidationOutcome, reactants []reaction.ValidationOutcome) reaction.EvidenceReport {
	report := reaction.EvidenceReport{Kind: reaction.EvidenceReactionMismatch}
	report.Append(reaction.MismatchStatement)
	report.Append(vectorLine(product))
	for _, r := range reactants {
		report.Append(vectorLine(r))
	}
	return report
}

func vectorLine(o reaction.ValidationOutcome) string {
	line := o.Input.Label() + " Error Vector: " + o.Vector.String()
	if o.Failed() && o.Unrecognized {
		line += unclassifiedNote
	}
	return line
}
