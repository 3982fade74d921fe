package app

import (
	"context"
	"fmt"

	"rxcheck/ai"
	"rxcheck/domain/core"
	"rxcheck/domain/reaction"
	"rxcheck/internal/errors"
	"rxcheck/internal/usage"
	"rxcheck/models"
	"rxcheck/ports"
)

// Escalator turns an evidence report into advisory text
type Escalator interface {
	Escalate(ctx context.Context, runID core.RunID, report reaction.EvidenceReport) (string, error)
}

// DiagnosticEscalation formats evidence into the diagnostic prompt and makes
// one model call. The response is returned as-is; nothing about it is
// parsed or checked.
type DiagnosticEscalation struct {
	config  *models.AIConfig
	client  ports.LLMClient
	prompts *ai.PromptManager
	usage   *usage.Service
}

// NewDiagnosticEscalation creates the escalation from an explicit config. A
// network provider without a key fails here, before any run starts.
func NewDiagnosticEscalation(config *models.AIConfig, client ports.LLMClient, usageService *usage.Service) (*DiagnosticEscalation, error) {
	if config == nil {
		return nil, errors.ConfigInvalid("diagnostic escalation requires a config")
	}
	if config.Provider == models.ProviderOpenAI && config.OpenAIKey == "" {
		return nil, &errors.AppError{
			Code:    errors.CodeConfigInvalid,
			Message: "OPENAI_API_KEY is required for diagnostic escalation",
			Cause:   core.ErrMissingCredential,
		}
	}
	if client == nil {
		return nil, errors.ConfigInvalid("diagnostic escalation requires an LLM client")
	}

	return &DiagnosticEscalation{
		config:  config,
		client:  client,
		prompts: ai.NewPromptManager(config.PromptsDir),
		usage:   usageService,
	}, nil
}

// Escalate implements Escalator
func (d *DiagnosticEscalation) Escalate(ctx context.Context, runID core.RunID, report reaction.EvidenceReport) (string, error) {
	prompt, err := d.prompts.RenderDiagnosticPrompt(report.Text())
	if err != nil {
		return "", errors.InternalError(fmt.Sprintf("failed to render diagnostic prompt: %v", err))
	}

	system := d.config.SystemContext
	if system == "" {
		system = models.DefaultSystemContext
	}

	resp, err := d.client.ChatCompletionWithUsage(ctx, ports.ChatRequest{
		Model:        d.config.OpenAIModel,
		SystemPrompt: system,
		UserPrompt:   prompt,
		MaxTokens:    d.config.MaxTokens,
	})
	if err != nil {
		return "", errors.ExternalServiceError("language model", err)
	}

	if resp.Usage != nil {
		d.usage.RecordUsage(runID, operationType(report.Kind), resp.Usage)
	}
	return resp.Content, nil
}

func operationType(kind reaction.EvidenceKind) string {
	if kind == reaction.EvidenceReactionMismatch {
		return models.OpMismatchDiagnostic
	}
	return models.OpValidationDiagnostic
}
