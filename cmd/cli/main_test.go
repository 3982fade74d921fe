package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"rxcheck/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newTaxonomyCmd()
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, "catalog v1", lines[0])
	assert.Len(t, lines, 9)
	assert.Contains(t, lines[2], "Unclosed Ring")
	assert.Contains(t, lines[8], `"Invalid valence"`)
}

func TestValidateCommandRequiresProduct(t *testing.T) {
	cmd := newValidateCmd()
	cmd.SetArgs([]string{"--reactant", "CCO"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "one", firstLine("one"))
	assert.Equal(t, "one ...", firstLine("one\ntwo"))
}

func TestLoadContainerAppliesFlagsWithoutTouchingEnv(t *testing.T) {
	t.Setenv("DIAGNOSTIC_MODE", "llm")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("BATCH_CONCURRENCY", "")

	c, err := loadContainer(context.Background(), true, 3)
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	assert.Equal(t, models.ProviderHeuristic, c.Config.AI.Provider)
	assert.Equal(t, 3, c.Config.Pipeline.BatchConcurrency)
	assert.Equal(t, "llm", os.Getenv("DIAGNOSTIC_MODE"))
	assert.Empty(t, os.Getenv("BATCH_CONCURRENCY"))

	_, err = loadContainer(context.Background(), false, 0)
	assert.Error(t, err)
}
