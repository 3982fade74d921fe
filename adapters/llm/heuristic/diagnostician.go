package heuristic

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"rxcheck/domain/reaction"
	"rxcheck/domain/taxonomy"
	"rxcheck/models"
	"rxcheck/ports"
)

var vectorLine = regexp.MustCompile(`^(Product|Reactant \d+) Error Vector: (\[[01, ]*\])(.*)$`)

// Diagnostician answers diagnostic prompts offline by reading the evidence
// lines back out of the prompt and describing the flagged categories. It
// cannot localize atoms; it exists so the pipeline can run without a model.
type Diagnostician struct{}

// NewDiagnostician creates an offline diagnostician
func NewDiagnostician() *Diagnostician {
	return &Diagnostician{}
}

// ChatCompletion implements ports.LLMClient
func (d *Diagnostician) ChatCompletion(ctx context.Context, req ports.ChatRequest) (string, error) {
	resp, err := d.ChatCompletionWithUsage(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// ChatCompletionWithUsage implements ports.LLMClient
func (d *Diagnostician) ChatCompletionWithUsage(ctx context.Context, req ports.ChatRequest) (*ports.LLMResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var lines []string
	if strings.Contains(req.UserPrompt, reaction.MismatchStatement) {
		lines = append(lines, "All molecules parsed, but the reaction template did not regenerate the stated product.")
	}

	for _, raw := range strings.Split(req.UserPrompt, "\n") {
		m := vectorLine.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}
		lines = append(lines, describe(m[1], m[2], m[3]))
	}

	if len(lines) == 0 {
		lines = append(lines, "No error vectors were supplied; nothing to diagnose.")
	}

	return &ports.LLMResponse{
		Content: strings.Join(lines, "\n"),
		Usage: &ports.UsageData{
			Model:    "heuristic",
			Provider: models.ProviderHeuristic,
		},
	}, nil
}

func describe(label, rawVector, note string) string {
	var vector taxonomy.ErrorVector
	if err := vector.UnmarshalJSON([]byte(rawVector)); err != nil || !vector.Valid() {
		return fmt.Sprintf("%s: unreadable error vector %s", label, rawVector)
	}
	present := vector.PresentCategories()
	switch {
	case len(present) > 0:
		names := make([]string, len(present))
		for i, c := range present {
			names[i] = c.String()
		}
		return fmt.Sprintf("%s: %s (%s)", label, vector.Bits(), strings.Join(names, ", "))
	case strings.TrimSpace(note) != "":
		return fmt.Sprintf("%s: %s (parse failed, no category identified)", label, vector.Bits())
	default:
		return fmt.Sprintf("%s: %s (no structural defects flagged)", label, vector.Bits())
	}
}
