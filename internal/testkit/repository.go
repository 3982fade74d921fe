package testkit

import (
	"context"
	"sort"
	"sync"
	"time"

	"rxcheck/domain/core"
	"rxcheck/models"
	"rxcheck/ports"
)

// InMemoryRunRepository is a ports.ValidationRunRepository backed by a map
type InMemoryRunRepository struct {
	mu   sync.RWMutex
	runs map[string]*models.ValidationRun
}

// NewInMemoryRunRepository creates an empty repository
func NewInMemoryRunRepository() *InMemoryRunRepository {
	return &InMemoryRunRepository{runs: make(map[string]*models.ValidationRun)}
}

// SaveRun implements ports.ValidationRunRepository
func (r *InMemoryRunRepository) SaveRun(ctx context.Context, run *models.ValidationRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *run
	r.runs[run.ID] = &copied
	return nil
}

// GetRun implements ports.ValidationRunRepository
func (r *InMemoryRunRepository) GetRun(ctx context.Context, id core.RunID) (*models.ValidationRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id.String()]
	if !ok {
		return nil, core.ErrRunNotFound
	}
	copied := *run
	return &copied, nil
}

// ListRuns implements ports.ValidationRunRepository
func (r *InMemoryRunRepository) ListRuns(ctx context.Context, filter ports.RunFilter) ([]*models.ValidationRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.ValidationRun
	for _, run := range r.runs {
		if filter.Verdict != "" && run.Verdict != filter.Verdict {
			continue
		}
		if filter.BatchID != "" && run.BatchID.String != filter.BatchID {
			continue
		}
		copied := *run
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// CountByVerdict implements ports.ValidationRunRepository
func (r *InMemoryRunRepository) CountByVerdict(ctx context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int)
	for _, run := range r.runs {
		counts[run.Verdict]++
	}
	return counts, nil
}

// InMemoryUsageRepository is a ports.LLMUsageRepository backed by a slice
type InMemoryUsageRepository struct {
	mu      sync.Mutex
	records []*models.LLMUsage
}

// NewInMemoryUsageRepository creates an empty usage repository
func NewInMemoryUsageRepository() *InMemoryUsageRepository {
	return &InMemoryUsageRepository{}
}

// RecordUsage implements ports.LLMUsageRepository
func (r *InMemoryUsageRepository) RecordUsage(ctx context.Context, usage *models.LLMUsage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *usage
	r.records = append(r.records, &copied)
	return nil
}

// GetUsage implements ports.LLMUsageRepository
func (r *InMemoryUsageRepository) GetUsage(ctx context.Context, start, end time.Time) ([]*models.LLMUsage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.LLMUsage
	for _, u := range r.records {
		if !u.CreatedAt.Before(start) && !u.CreatedAt.After(end) {
			out = append(out, u)
		}
	}
	return out, nil
}

// GetUsageSummary implements ports.LLMUsageRepository
func (r *InMemoryUsageRepository) GetUsageSummary(ctx context.Context, start, end time.Time) (*models.UsageSummary, error) {
	records, _ := r.GetUsage(ctx, start, end)
	summary := &models.UsageSummary{
		PeriodStart: start,
		PeriodEnd:   end,
		ByModel:     make(map[string]models.ModelUsage),
	}
	for _, u := range records {
		summary.RequestCount++
		summary.TotalTokens += u.TotalTokens
		summary.TotalPromptTokens += u.PromptTokens
		summary.TotalCompletionTokens += u.CompletionTokens
		m := summary.ByModel[u.Model]
		m.Model = u.Model
		m.Provider = u.Provider
		m.TotalTokens += u.TotalTokens
		m.RequestCount++
		summary.ByModel[u.Model] = m
	}
	return summary, nil
}

// Records returns a snapshot of stored usage
func (r *InMemoryUsageRepository) Records() []*models.LLMUsage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.LLMUsage, len(r.records))
	copy(out, r.records)
	return out
}
