package config

import (
	"testing"
	"time"

	"rxcheck/internal/errors"
	"rxcheck/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"DATABASE_URL", "DIAGNOSTIC_MODE", "OPENAI_API_KEY", "LLM_MODEL", "LLM_BASE_URL",
		"LLM_MAX_TOKENS", "LLM_TEMPERATURE", "LLM_TIMEOUT", "PROMPTS_DIR", "RDKIT_URL",
		"RDKIT_TIMEOUT", "FORWARD_ENGINE_MESSAGE", "BATCH_CONCURRENCY", "PORT", "GIN_MODE", "UI_PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadRequiresKeyForLLMMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("DIAGNOSTIC_MODE", "llm")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadDefaultsToOpenAI(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, models.ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "gpt-4", cfg.AI.OpenAIModel)
	assert.Equal(t, "https://api.openai.com/v1", cfg.AI.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.AI.Timeout)
	assert.Equal(t, "http://localhost:8000", cfg.Toolkit.URL)
	assert.Equal(t, 4, cfg.Pipeline.BatchConcurrency)
	assert.False(t, cfg.Pipeline.ForwardEngineMessage)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoadHeuristicModeNeedsNoKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("DIAGNOSTIC_MODE", "heuristic")
	t.Setenv("LLM_MAX_TOKENS", "2048")
	t.Setenv("LLM_TIMEOUT", "45s")
	t.Setenv("FORWARD_ENGINE_MESSAGE", "true")
	t.Setenv("RDKIT_URL", "http://rdkit:9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, models.ProviderHeuristic, cfg.AI.Provider)
	assert.Equal(t, 2048, cfg.AI.MaxTokens)
	assert.Equal(t, 45*time.Second, cfg.AI.Timeout)
	assert.True(t, cfg.Pipeline.ForwardEngineMessage)
	assert.Equal(t, "http://rdkit:9000", cfg.Toolkit.URL)

	esc := cfg.EscalationConfig()
	assert.Equal(t, models.ProviderHeuristic, esc.Provider)
	assert.Equal(t, models.DefaultSystemContext, esc.SystemContext)
	assert.Equal(t, 2048, esc.MaxTokens)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("DIAGNOSTIC_MODE", "oracle")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DIAGNOSTIC_MODE")
}

func TestLoadRejectsZeroConcurrency(t *testing.T) {
	clearEnv(t)
	t.Setenv("DIAGNOSTIC_MODE", "heuristic")
	t.Setenv("BATCH_CONCURRENCY", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadWithOverridesBeatsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DIAGNOSTIC_MODE", "llm")
	t.Setenv("BATCH_CONCURRENCY", "8")

	cfg, err := LoadWithOverrides(Overrides{DiagnosticMode: models.ProviderHeuristic, BatchConcurrency: 2})
	require.NoError(t, err)
	assert.Equal(t, models.ProviderHeuristic, cfg.AI.Provider)
	assert.Equal(t, 2, cfg.Pipeline.BatchConcurrency)

	cfg, err = LoadWithOverrides(Overrides{DiagnosticMode: models.ProviderHeuristic})
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Pipeline.BatchConcurrency)
}
