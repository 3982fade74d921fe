package reaction

import (
	"strconv"
	"strings"
	"time"

	"rxcheck/domain/core"
	"rxcheck/domain/taxonomy"
)

// Role distinguishes the product from the reactants of a proposed reaction.
type Role string

const (
	RoleProduct  Role = "product"
	RoleReactant Role = "reactant"
	RoleMolecule Role = "molecule"
)

// MoleculeInput is one structural notation string together with its place in
// the proposed reaction. Index is 1-based for reactants and 0 for the product.
type MoleculeInput struct {
	Role     Role   `json:"role"`
	Index    int    `json:"index,omitempty"`
	Notation string `json:"notation"`
}

// Product builds the product input.
func Product(notation string) MoleculeInput {
	return MoleculeInput{Role: RoleProduct, Notation: notation}
}

// Reactants builds reactant inputs in order, numbering them from 1.
func Reactants(notations []string) []MoleculeInput {
	out := make([]MoleculeInput, len(notations))
	for i, n := range notations {
		out[i] = MoleculeInput{Role: RoleReactant, Index: i + 1, Notation: n}
	}
	return out
}

// Molecule builds an input validated outside of any reaction.
func Molecule(notation string) MoleculeInput {
	return MoleculeInput{Role: RoleMolecule, Notation: notation}
}

// Label is the evidence-line prefix, e.g. "Product" or "Reactant 2".
func (m MoleculeInput) Label() string {
	switch m.Role {
	case RoleProduct:
		return "Product"
	case RoleMolecule:
		return "Molecule"
	}
	return "Reactant " + strconv.Itoa(m.Index)
}

// Structure is an opaque handle to a molecule parsed by the chemistry
// toolkit. Only the toolkit that issued it can interpret Handle.
type Structure struct {
	Handle string
}

// ValidationOutcome is the result of validating one molecule.
type ValidationOutcome struct {
	Input  MoleculeInput        `json:"input"`
	Parsed bool                 `json:"parsed"`
	Vector taxonomy.ErrorVector `json:"error_vector"`
	// Unrecognized is set when parsing failed but no catalog marker matched,
	// leaving Vector indistinguishable from the fully valid sentinel.
	Unrecognized bool `json:"unrecognized,omitempty"`
	// Structure is only set when Parsed is true.
	Structure *Structure `json:"-"`
	Canonical string     `json:"canonical,omitempty"`
}

// Failed reports whether the molecule needs to appear in validation evidence.
func (o ValidationOutcome) Failed() bool {
	return !o.Parsed
}

// ReactionCheckResult records one invocation of the reaction engine.
type ReactionCheckResult struct {
	Match          bool     `json:"match"`
	Template       string   `json:"template"`
	CandidateCount int      `json:"candidate_count"`
	Generated      []string `json:"generated,omitempty"`
}

// MismatchStatement opens every reaction-mismatch evidence report.
const MismatchStatement = "The reactants do not combine to produce the given product."

// SuccessMessage is returned when the reaction is confirmed.
const SuccessMessage = "The predicted reactants are valid and produce the correct product."

// EvidenceReport is the ordered set of lines handed to diagnostic escalation.
type EvidenceReport struct {
	Kind  EvidenceKind `json:"kind"`
	Lines []string     `json:"lines"`
}

// EvidenceKind says which branch of the pipeline produced a report.
type EvidenceKind string

const (
	EvidenceValidationFailure EvidenceKind = "validation_failure"
	EvidenceReactionMismatch  EvidenceKind = "reaction_mismatch"
)

// Append adds one line.
func (r *EvidenceReport) Append(line string) {
	r.Lines = append(r.Lines, line)
}

// Text joins the lines with newlines.
func (r EvidenceReport) Text() string {
	return strings.Join(r.Lines, "\n")
}

// IsEmpty reports whether no lines were collected.
func (r EvidenceReport) IsEmpty() bool {
	return len(r.Lines) == 0
}

// State is a step of the orchestrator's state machine.
type State string

const (
	StateStart              State = "START"
	StateValidating         State = "VALIDATING"
	StateReactionCheck      State = "REACTION_CHECK"
	StateEscalateValidation State = "ESCALATE_VALIDATION"
	StateDoneValid          State = "DONE_VALID"
	StateEscalateMismatch   State = "ESCALATE_MISMATCH"
	StateDone               State = "DONE"
)

// Verdict summarizes how a run concluded.
type Verdict string

const (
	VerdictValid            Verdict = "valid"
	VerdictInvalidStructure Verdict = "invalid_structure"
	VerdictReactionMismatch Verdict = "reaction_mismatch"
)

// Escalated reports whether the verdict was produced by the diagnostic path.
func (v Verdict) Escalated() bool {
	return v == VerdictInvalidStructure || v == VerdictReactionMismatch
}

// Result is the outcome of one orchestrated validation run. Message is the
// only user-facing output: the success text or the model's advisory text.
type Result struct {
	RunID     core.RunID           `json:"run_id"`
	Verdict   Verdict              `json:"verdict"`
	Message   string               `json:"message"`
	Product   ValidationOutcome    `json:"product"`
	Reactants []ValidationOutcome  `json:"reactants"`
	Check     *ReactionCheckResult `json:"reaction_check,omitempty"`
	Evidence  *EvidenceReport      `json:"evidence,omitempty"`
	States    []State              `json:"states"`
	StartedAt core.Timestamp       `json:"started_at"`
	Duration  time.Duration        `json:"duration_ns"`
}
