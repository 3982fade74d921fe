package usage

import (
	"context"
	"log"
	"sync"
	"time"

	"rxcheck/domain/core"
	"rxcheck/models"
	"rxcheck/ports"

	"github.com/google/uuid"
)

// Service handles LLM usage tracking and persistence
type Service struct {
	repo ports.LLMUsageRepository
	wg   sync.WaitGroup
}

// NewService creates a new usage service
func NewService(repo ports.LLMUsageRepository) *Service {
	return &Service{repo: repo}
}

// RecordUsage asynchronously records LLM usage for one escalation. Tracking
// problems are logged and never fail the caller.
func (s *Service) RecordUsage(runID core.RunID, operationType string, usage *ports.UsageData) {
	if s == nil || s.repo == nil {
		return
	}
	if usage == nil {
		log.Printf("[UsageService] ERROR: nil usage data provided")
		return
	}
	if usage.PromptTokens < 0 || usage.CompletionTokens < 0 || usage.TotalTokens < 0 {
		log.Printf("[UsageService] ERROR: invalid token counts: %+v", usage)
		return
	}

	record := &models.LLMUsage{
		ID:               uuid.New(),
		Provider:         usage.Provider,
		Model:            usage.Model,
		OperationType:    operationType,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
		CreatedAt:        time.Now().UTC(),
	}
	if id, err := uuid.Parse(runID.String()); err == nil {
		record.RunID = &id
	}

	// Async persistence to avoid blocking the pipeline
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.persistWithRetry(record); err != nil {
			log.Printf("[UsageService] ERROR: failed to persist usage after retries: %v", err)
		}
	}()
}

// Flush waits for in-flight usage writes
func (s *Service) Flush() {
	if s == nil {
		return
	}
	s.wg.Wait()
}

// persistWithRetry attempts to persist usage with linear backoff
func (s *Service) persistWithRetry(usage *models.LLMUsage) error {
	const maxRetries = 3
	const baseDelay = 100 * time.Millisecond

	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err = s.repo.RecordUsage(context.Background(), usage); err == nil {
			return nil
		}
		if attempt < maxRetries-1 {
			time.Sleep(time.Duration(attempt+1) * baseDelay)
		}
	}
	return err
}

// GetUsageSummary returns aggregated usage in a time period
func (s *Service) GetUsageSummary(ctx context.Context, start, end time.Time) (*models.UsageSummary, error) {
	return s.repo.GetUsageSummary(ctx, start, end)
}
