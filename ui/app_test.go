package ui

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"rxcheck/adapters/llm/heuristic"
	"rxcheck/app"
	"rxcheck/internal/testkit"
	"rxcheck/models"
	"rxcheck/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*App, *testkit.InMemoryRunRepository) {
	t.Helper()
	kit := testkit.NewToolkit().
		Accept("CCOC(C)=O", "CCO", "CC(=O)O").
		React("CCO.CC(=O)O>>CCOC(C)=O", []string{"CCOC(C)=O"})

	cfg := models.DefaultAIConfig()
	cfg.Provider = models.ProviderHeuristic
	esc, err := app.NewDiagnosticEscalation(cfg, heuristic.NewDiagnostician(), nil)
	require.NoError(t, err)

	runs := testkit.NewInMemoryRunRepository()
	svc := app.NewReactionValidationService(kit, esc, app.WithRunRepository(runs))
	a, err := NewApp(svc, runs)
	require.NoError(t, err)
	return a, runs
}

func postForm(a *App, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	return w
}

func TestValidateFormShowsVerdict(t *testing.T) {
	a, _ := newTestApp(t)

	w := postForm(a, url.Values{"product": {"CCOC(C)=O"}, "reactants": {"CCO\nCC(=O)O"}})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "verdict-valid")
	assert.Contains(t, body, "START &gt; VALIDATING &gt; REACTION_CHECK &gt; DONE_VALID &gt; DONE")
}

func TestValidateFormShowsEvidence(t *testing.T) {
	a, _ := newTestApp(t)

	w := postForm(a, url.Values{"product": {"CCOC(C)=O"}, "reactants": {"C1CC"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Reactant 1 Error Vector")
}

func TestValidateFormWithoutReactantsReportsMismatch(t *testing.T) {
	a, _ := newTestApp(t)

	w := postForm(a, url.Values{"product": {"CCOC(C)=O"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reaction_mismatch")
}

func TestIndexListsRecentRunsAndRunPage(t *testing.T) {
	a, runs := newTestApp(t)
	postForm(a, url.Values{"product": {"CCOC(C)=O"}, "reactants": {"CCO.CC(=O)O"}})

	stored, err := runs.ListRuns(t.Context(), portsFilter())
	require.NoError(t, err)
	require.Len(t, stored, 1)

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/runs/"+stored[0].ID)

	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/runs/"+stored[0].ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1111111")
}

func TestRenderMarkdownDropsRawHTML(t *testing.T) {
	out := string(renderMarkdown("**Reactant 1**: 0110\n\n<script>alert(1)</script>"))
	assert.Contains(t, out, "<strong>Reactant 1</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestSplitReactants(t *testing.T) {
	assert.Equal(t, []string{"CCO", "CC(=O)O", "O"}, splitReactants("CCO.CC(=O)O\n\n  O \n"))
	assert.Empty(t, splitReactants(" \n"))
}

func portsFilter() ports.RunFilter {
	return ports.RunFilter{Limit: 10}
}
