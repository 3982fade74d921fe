package app

import (
	"context"
	"time"

	"rxcheck/domain/core"
	"rxcheck/domain/reaction"
	"rxcheck/internal"
	"rxcheck/models"
	"rxcheck/ports"
)

// ReactionValidationService runs the validation pipeline for one proposed
// reaction: validate every molecule, check the reaction when everything
// parsed, and escalate to the diagnostician otherwise.
//
// A run is sequential and keeps no state once it returns, so one service can
// be shared by concurrent callers.
type ReactionValidationService struct {
	toolkit   ports.ChemistryToolkit
	validator *MoleculeValidator
	checker   *ReactionChecker
	evidence  EvidenceAggregator
	escalator Escalator
	runs      ports.ValidationRunRepository
	logger    *internal.Logger

	forwardEngineMessage bool
}

// Option configures a ReactionValidationService
type Option func(*ReactionValidationService)

// WithRunRepository persists every completed run
func WithRunRepository(repo ports.ValidationRunRepository) Option {
	return func(s *ReactionValidationService) { s.runs = repo }
}

// WithForwardEngineMessage appends the toolkit's failure text to the
// synthesized parse error before classification.
func WithForwardEngineMessage(enabled bool) Option {
	return func(s *ReactionValidationService) { s.forwardEngineMessage = enabled }
}

// WithLogger sets the service logger
func WithLogger(logger *internal.Logger) Option {
	return func(s *ReactionValidationService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewReactionValidationService wires the pipeline stages around one toolkit
func NewReactionValidationService(toolkit ports.ChemistryToolkit, escalator Escalator, opts ...Option) *ReactionValidationService {
	s := &ReactionValidationService{
		toolkit:   toolkit,
		escalator: escalator,
		logger:    internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = NewMoleculeValidator(toolkit, s.forwardEngineMessage)
	s.checker = NewReactionChecker(toolkit, toolkit, s.logger)
	return s
}

// ValidateReaction validates product against the ordered reactants. Chemical
// problems, empty notations included, are reported through the result's
// Verdict and Message; an error only means a failing collaborator. With no
// reactants the template is ">>product".
func (s *ReactionValidationService) ValidateReaction(ctx context.Context, product string, reactants []string) (*reaction.Result, error) {
	return s.run(ctx, "", product, reactants)
}

// ValidateReactionInBatch is ValidateReaction with the persisted run tagged
// with batchID.
func (s *ReactionValidationService) ValidateReactionInBatch(ctx context.Context, batchID core.BatchID, product string, reactants []string) (*reaction.Result, error) {
	return s.run(ctx, batchID, product, reactants)
}

// ValidateMolecule validates one molecule outside of any reaction. No
// escalation happens; the handle is released before returning.
func (s *ReactionValidationService) ValidateMolecule(ctx context.Context, notation string) (reaction.ValidationOutcome, error) {
	outcome, err := s.validator.Validate(ctx, reaction.Molecule(notation))
	if err != nil {
		return reaction.ValidationOutcome{}, err
	}
	s.release(outcome)
	outcome.Structure = nil
	return outcome, nil
}

func (s *ReactionValidationService) run(ctx context.Context, batchID core.BatchID, product string, reactants []string) (*reaction.Result, error) {
	started := time.Now()
	result := &reaction.Result{
		RunID:     core.NewRunID(),
		StartedAt: core.Now(),
		States:    []reaction.State{reaction.StateStart},
	}

	var parsed []reaction.ValidationOutcome
	defer func() { s.release(parsed...) }()

	// VALIDATING: product first, then reactants in order
	result.States = append(result.States, reaction.StateValidating)
	productOutcome, err := s.validator.Validate(ctx, reaction.Product(product))
	if err != nil {
		return nil, err
	}
	parsed = append(parsed, productOutcome)
	result.Product = productOutcome

	parsedReactants := 0
	for _, in := range reaction.Reactants(reactants) {
		outcome, err := s.validator.Validate(ctx, in)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, outcome)
		result.Reactants = append(result.Reactants, outcome)
		if outcome.Parsed {
			parsedReactants++
		}
	}

	if productOutcome.Failed() || parsedReactants < len(reactants) {
		result.States = append(result.States, reaction.StateEscalateValidation)
		report := s.evidence.ForValidationFailure(result.Product, result.Reactants)
		message, err := s.escalator.Escalate(ctx, result.RunID, report)
		if err != nil {
			return nil, err
		}
		result.Verdict = reaction.VerdictInvalidStructure
		result.Message = message
		result.Evidence = &report
	} else {
		result.States = append(result.States, reaction.StateReactionCheck)
		check, err := s.checker.Check(ctx, result.Product, result.Reactants)
		if err != nil {
			return nil, err
		}
		result.Check = &check

		if check.Match {
			result.States = append(result.States, reaction.StateDoneValid)
			result.Verdict = reaction.VerdictValid
			result.Message = reaction.SuccessMessage
		} else {
			result.States = append(result.States, reaction.StateEscalateMismatch)
			report := s.evidence.ForReactionMismatch(result.Product, result.Reactants)
			message, err := s.escalator.Escalate(ctx, result.RunID, report)
			if err != nil {
				return nil, err
			}
			result.Verdict = reaction.VerdictReactionMismatch
			result.Message = message
			result.Evidence = &report
		}
	}

	result.States = append(result.States, reaction.StateDone)
	result.Duration = time.Since(started)

	s.logger.Info("[ReactionValidation] run %s: verdict=%s reactants=%d duration=%s",
		result.RunID, result.Verdict, len(reactants), result.Duration)
	s.persist(ctx, result, batchID)
	return result, nil
}

// persist stores the run when a repository is configured. Failures are
// logged and never change the result.
func (s *ReactionValidationService) persist(ctx context.Context, result *reaction.Result, batchID core.BatchID) {
	if s.runs == nil {
		return
	}
	run := models.NewValidationRun(result, batchID.String())
	if err := s.runs.SaveRun(ctx, run); err != nil {
		s.logger.Warn("[ReactionValidation] failed to persist run %s: %v", result.RunID, err)
	}
}

// release frees the parsed-structure handles of one run
func (s *ReactionValidationService) release(outcomes ...reaction.ValidationOutcome) {
	releaser, ok := s.toolkit.(ports.StructureReleaser)
	if !ok {
		return
	}
	var handles []reaction.Structure
	for _, o := range outcomes {
		if o.Structure != nil {
			handles = append(handles, *o.Structure)
		}
	}
	if len(handles) == 0 {
		return
	}
	if err := releaser.Release(context.Background(), handles...); err != nil {
		s.logger.Warn("[ReactionValidation] failed to release %d structure(s): %v", len(handles), err)
	}
}
