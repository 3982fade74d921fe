package container

import (
	"context"
	"testing"

	"rxcheck/internal/config"
	"rxcheck/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heuristicConfig() *config.Config {
	return &config.Config{
		AI:       config.AIConfig{Provider: models.ProviderHeuristic, OpenAIModel: "gpt-4", MaxTokens: 256},
		Toolkit:  config.ToolkitConfig{URL: "http://localhost:8000"},
		Pipeline: config.PipelineConfig{BatchConcurrency: 2},
	}
}

func TestNewWiresPipelineWithoutDatabase(t *testing.T) {
	c, err := New(heuristicConfig())
	require.NoError(t, err)

	assert.NotNil(t, c.Toolkit)
	assert.NotNil(t, c.LLMClient)
	assert.NotNil(t, c.Escalation)
	assert.NotNil(t, c.Validation)
	assert.NotNil(t, c.Batch)
	assert.Nil(t, c.RunRepo)
	assert.Nil(t, c.UsageService)
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestNewFailsWithoutCredential(t *testing.T) {
	cfg := heuristicConfig()
	cfg.AI.Provider = models.ProviderOpenAI

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestInitWithDatabaseRejectsNil(t *testing.T) {
	c, err := New(heuristicConfig())
	require.NoError(t, err)
	assert.Error(t, c.InitWithDatabase(context.Background(), nil))
}
