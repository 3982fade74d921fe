package ai

import (
	"strings"

	"rxcheck/domain/taxonomy"
)

// DiagnosticPromptName is the template used for escalations
const DiagnosticPromptName = "diagnostic"

// CategoryList renders the catalog as "'Unclosed Ring', ..., and 'Invalid Valence'".
func CategoryList() string {
	cats := taxonomy.Categories()
	quoted := make([]string, len(cats))
	for i, c := range cats {
		quoted[i] = "'" + c.String() + "'"
	}
	if len(quoted) < 2 {
		return strings.Join(quoted, "")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", and " + quoted[len(quoted)-1]
}

// RenderDiagnosticPrompt embeds the evidence text in the diagnostic template
func (pm *PromptManager) RenderDiagnosticPrompt(evidence string) (string, error) {
	return pm.RenderPrompt(DiagnosticPromptName, map[string]string{
		"CATEGORIES": CategoryList(),
		"EVIDENCE":   evidence,
	})
}
