package models

import (
	"time"

	"github.com/google/uuid"
)

// LLMUsage represents a single LLM API call's token usage
type LLMUsage struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	RunID            *uuid.UUID `json:"run_id,omitempty" db:"run_id"`
	Provider         string     `json:"provider" db:"provider"`             // 'openai', 'heuristic'
	Model            string     `json:"model" db:"model"`                   // 'gpt-4', ...
	OperationType    string     `json:"operation_type" db:"operation_type"` // see Op* constants
	PromptTokens     int        `json:"prompt_tokens" db:"prompt_tokens"`
	CompletionTokens int        `json:"completion_tokens" db:"completion_tokens"`
	TotalTokens      int        `json:"total_tokens" db:"total_tokens"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// UsageSummary provides aggregated usage statistics for a period
type UsageSummary struct {
	PeriodStart           time.Time             `json:"period_start"`
	PeriodEnd             time.Time             `json:"period_end"`
	RequestCount          int                   `json:"request_count" db:"request_count"`
	TotalTokens           int                   `json:"total_tokens" db:"total_tokens"`
	TotalPromptTokens     int                   `json:"total_prompt_tokens" db:"total_prompt_tokens"`
	TotalCompletionTokens int                   `json:"total_completion_tokens" db:"total_completion_tokens"`
	ByModel               map[string]ModelUsage `json:"by_model"`
}

// ModelUsage represents usage aggregated by model
type ModelUsage struct {
	Model        string `json:"model" db:"model"`
	Provider     string `json:"provider" db:"provider"`
	TotalTokens  int    `json:"total_tokens" db:"total_tokens"`
	RequestCount int    `json:"request_count" db:"request_count"`
}

// Operation types for categorization
const (
	OpValidationDiagnostic = "validation_diagnostic"
	OpMismatchDiagnostic   = "mismatch_diagnostic"
)
