package models

import "time"

// Diagnostic providers
const (
	ProviderOpenAI    = "openai"
	ProviderHeuristic = "heuristic"
)

// AIConfig holds the settings the diagnostic escalation is constructed with.
// It is passed explicitly; nothing reads credentials from process state.
type AIConfig struct {
	Provider      string
	OpenAIKey     string
	OpenAIModel   string
	BaseURL       string
	SystemContext string
	MaxTokens     int
	Temperature   float64
	Timeout       time.Duration
	PromptsDir    string // optional override directory for prompt templates
}

// DefaultSystemContext is the persona given to the model
const DefaultSystemContext = "You are a chemical informatics expert."

// DefaultAIConfig returns the gpt-4 diagnostic defaults
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		Provider:      ProviderOpenAI,
		OpenAIModel:   "gpt-4",
		BaseURL:       "https://api.openai.com/v1",
		SystemContext: DefaultSystemContext,
		MaxTokens:     1024,
		Temperature:   0,
		Timeout:       0, // no client-side deadline unless configured
	}
}
