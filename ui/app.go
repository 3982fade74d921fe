package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"rxcheck/app"
	"rxcheck/domain/core"
	"rxcheck/domain/reaction"
	"rxcheck/models"
	"rxcheck/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// App is the HTML console for submitting reactions and reading diagnostics
type App struct {
	router     *chi.Mux
	validation *app.ReactionValidationService
	runs       ports.ValidationRunRepository
	templates  *template.Template
}

// NewApp creates the console. runs may be nil; the history view is then hidden.
func NewApp(validation *app.ReactionValidationService, runs ports.ValidationRunRepository) (*App, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"join":     strings.Join,
		"trail":    stateTrail,
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:     chi.NewRouter(),
		validation: validation,
		runs:       runs,
		templates:  templates,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/validate", a.handleValidate)
	a.router.Get("/runs/{id}", a.handleRun)
}

// Handler exposes the router
func (a *App) Handler() http.Handler {
	return a.router
}

type indexPage struct {
	Product   string
	Reactants string
	Error     string
	Result    *reaction.Result
	Recent    []*models.ValidationRun
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := indexPage{}
	if a.runs != nil {
		if runs, err := a.runs.ListRuns(r.Context(), ports.RunFilter{Limit: 20}); err == nil {
			page.Recent = runs
		} else {
			log.Printf("[UI] failed to list runs: %v", err)
		}
	}
	a.renderTemplate(w, http.StatusOK, "index.html", page)
}

func (a *App) handleValidate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	page := indexPage{
		Product:   strings.TrimSpace(r.FormValue("product")),
		Reactants: r.FormValue("reactants"),
	}

	result, err := a.validation.ValidateReaction(r.Context(), page.Product, splitReactants(page.Reactants))
	if err != nil {
		page.Error = err.Error()
		a.renderTemplate(w, http.StatusBadGateway, "index.html", page)
		return
	}
	page.Result = result
	a.renderTemplate(w, http.StatusOK, "index.html", page)
}

func (a *App) handleRun(w http.ResponseWriter, r *http.Request) {
	if a.runs == nil {
		http.Error(w, "run history is not configured", http.StatusNotFound)
		return
	}
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	run, err := a.runs.GetRun(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsNotFoundError(err) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	a.renderTemplate(w, http.StatusOK, "run.html", run)
}

func stateTrail(states []reaction.State) string {
	parts := make([]string, len(states))
	for i, st := range states {
		parts[i] = string(st)
	}
	return strings.Join(parts, " > ")
}

// splitReactants accepts one notation per line; a single line may also hold
// several "."-joined notations.
func splitReactants(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		for _, part := range strings.Split(line, ".") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// renderTemplate renders to a buffer first so a template error never leaves
// a half-written page.
func (a *App) renderTemplate(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("Template error for %s: %v", name, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing template response: %v", err)
	}
}
