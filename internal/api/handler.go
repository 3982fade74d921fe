package api

import (
	"net/http"
	"strconv"
	"time"

	"rxcheck/app"
	"rxcheck/domain/core"
	"rxcheck/domain/reaction"
	"rxcheck/domain/taxonomy"
	"rxcheck/internal/errors"
	"rxcheck/internal/usage"
	"rxcheck/ports"

	"github.com/gin-gonic/gin"
)

// maxBatchSize bounds a JSON batch request
const maxBatchSize = 500

// ValidationHandler serves the validation JSON API
type ValidationHandler struct {
	validation *app.ReactionValidationService
	batch      *app.BatchService
	runs       ports.ValidationRunRepository
	usage      *usage.Service
}

// NewValidationHandler creates a handler. runs and usage may be nil when no
// database is configured.
func NewValidationHandler(validation *app.ReactionValidationService, batch *app.BatchService, runs ports.ValidationRunRepository, usageService *usage.Service) *ValidationHandler {
	return &ValidationHandler{
		validation: validation,
		batch:      batch,
		runs:       runs,
		usage:      usageService,
	}
}

// ValidateReactionRequest is the body of POST /api/v1/validations. Empty
// notations and an empty reactant list are validated like any other input.
type ValidateReactionRequest struct {
	Product   string   `json:"product"`
	Reactants []string `json:"reactants"`
}

// ValidateMoleculeRequest is the body of POST /api/v1/molecules/validate
type ValidateMoleculeRequest struct {
	SMILES string `json:"smiles" binding:"required"`
}

// BatchRequest is the body of POST /api/v1/batches
type BatchRequest struct {
	Reactions []ValidateReactionRequest `json:"reactions" binding:"required"`
}

// RegisterRoutes mounts the API on router
func (h *ValidationHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/api/v1")
	v1.POST("/validations", h.ValidateReaction)
	v1.GET("/validations", h.ListRuns)
	v1.GET("/validations/:id", h.GetRun)
	v1.POST("/batches", h.RunBatch)
	v1.POST("/molecules/validate", h.ValidateMolecule)
	v1.GET("/taxonomy", h.Taxonomy)
	v1.GET("/usage", h.UsageSummary)
}

// Health reports liveness and whether persistence is enabled
func (h *ValidationHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "persistence": h.runs != nil})
}

// ValidateReaction runs the pipeline for one reaction
func (h *ValidationHandler) ValidateReaction(c *gin.Context) {
	var req ValidateReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.validation.ValidateReaction(c.Request.Context(), req.Product, req.Reactants)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ValidateMolecule validates a single structure
func (h *ValidationHandler) ValidateMolecule(c *gin.Context) {
	var req ValidateMoleculeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.validation.ValidateMolecule(c.Request.Context(), req.SMILES)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"outcome":  outcome,
		"present":  outcome.Vector.PresentCategories(),
		"catalog":  taxonomy.CatalogVersion,
		"bits":     outcome.Vector.Bits(),
		"is_valid": outcome.Parsed,
	})
}

// RunBatch validates many reactions in one request
func (h *ValidationHandler) RunBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Reactions) == 0 || len(req.Reactions) > maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reactions must contain between 1 and " + strconv.Itoa(maxBatchSize) + " entries"})
		return
	}

	subs := make([]reaction.Submission, len(req.Reactions))
	for i, r := range req.Reactions {
		subs[i] = reaction.Submission{Row: i + 1, Product: r.Product, Reactants: r.Reactants}
	}

	report, err := h.batch.Run(c.Request.Context(), subs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetRun returns one persisted run
func (h *ValidationHandler) GetRun(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run persistence is not configured"})
		return
	}

	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run, err := h.runs.GetRun(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// ListRuns returns persisted runs, newest first
func (h *ValidationHandler) ListRuns(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run persistence is not configured"})
		return
	}

	filter := ports.RunFilter{
		Verdict: c.Query("verdict"),
		BatchID: c.Query("batch_id"),
		Limit:   queryInt(c, "limit", 50),
		Offset:  queryInt(c, "offset", 0),
	}
	runs, err := h.runs.ListRuns(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

// Taxonomy describes the error category catalog
func (h *ValidationHandler) Taxonomy(c *gin.Context) {
	type category struct {
		Position int    `json:"position"`
		Name     string `json:"name"`
		Marker   string `json:"marker"`
	}
	cats := taxonomy.Categories()
	out := make([]category, len(cats))
	for i, cat := range cats {
		out[i] = category{Position: i, Name: cat.String(), Marker: taxonomy.Marker(cat)}
	}
	c.JSON(http.StatusOK, gin.H{"version": taxonomy.CatalogVersion, "categories": out})
}

// UsageSummary reports model token usage over the last `hours` hours
func (h *ValidationHandler) UsageSummary(c *gin.Context) {
	if h.usage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "usage tracking is not configured"})
		return
	}
	end := time.Now().UTC()
	start := end.Add(-time.Duration(queryInt(c, "hours", 24)) * time.Hour)

	summary, err := h.usage.GetUsageSummary(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func queryInt(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil && v >= 0 {
		return v
	}
	return def
}

// writeError maps pipeline errors to HTTP status codes
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.GetCode(err) == errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case core.IsNotFoundError(err):
		status = http.StatusNotFound
	case errors.IsExternalServiceError(err):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}
