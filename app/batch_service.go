package app

import (
	"context"
	"sync"
	"time"

	"rxcheck/domain/core"
	"rxcheck/domain/reaction"
	"rxcheck/domain/taxonomy"
	"rxcheck/internal"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"
	"gonum.org/v1/gonum/mat"
	gstat "gonum.org/v1/gonum/stat"
)

// BatchValidator is the part of the pipeline a batch needs
type BatchValidator interface {
	ValidateReactionInBatch(ctx context.Context, batchID core.BatchID, product string, reactants []string) (*reaction.Result, error)
}

// BatchService validates many independent reactions with bounded
// concurrency. Each reaction still runs its own pipeline sequentially.
type BatchService struct {
	validator   BatchValidator
	concurrency int64
	logger      *internal.Logger
}

// NewBatchService creates a batch service running at most concurrency
// reactions at once.
func NewBatchService(validator BatchValidator, concurrency int, logger *internal.Logger) *BatchService {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &BatchService{validator: validator, concurrency: int64(concurrency), logger: logger}
}

// Run validates every submission. A failing submission is recorded on its
// item and does not stop the batch; cancelling ctx does.
func (b *BatchService) Run(ctx context.Context, submissions []reaction.Submission) (*reaction.BatchReport, error) {
	started := time.Now()
	report := &reaction.BatchReport{
		BatchID:   core.NewBatchID(),
		Items:     make([]reaction.BatchItem, len(submissions)),
		Verdicts:  make(map[reaction.Verdict]int),
		StartedAt: core.Now(),
	}

	b.logger.Info("[BatchService] batch %s: %d reaction(s), concurrency %d", report.BatchID, len(submissions), b.concurrency)

	sem := semaphore.NewWeighted(b.concurrency)
	var wg sync.WaitGroup
	var acquireErr error

	for i, sub := range submissions {
		if err := sem.Acquire(ctx, 1); err != nil {
			acquireErr = err
			break
		}
		wg.Add(1)
		go func(i int, sub reaction.Submission) {
			defer wg.Done()
			defer sem.Release(1)

			item := reaction.BatchItem{Submission: sub}
			res, err := b.validator.ValidateReactionInBatch(ctx, report.BatchID, sub.Product, sub.Reactants)
			if err != nil {
				item.Error = err.Error()
				b.logger.Warn("[BatchService] row %d failed: %v", sub.Row, err)
			} else {
				item.Result = res
			}
			report.Items[i] = item
		}(i, sub)
	}
	wg.Wait()

	if acquireErr != nil {
		return nil, acquireErr
	}

	var latencies []float64
	for _, item := range report.Items {
		if item.Result == nil {
			report.Failed++
			continue
		}
		report.Verdicts[item.Result.Verdict]++
		latencies = append(latencies, float64(item.Result.Duration)/float64(time.Millisecond))
	}
	report.Latency = summarizeLatency(latencies)
	report.CategoryRates = categoryRates(report.Items)
	report.Duration = time.Since(started)

	b.logger.Info("[BatchService] batch %s done in %s: %v, %d failed", report.BatchID, report.Duration, report.Verdicts, report.Failed)
	return report, nil
}

func summarizeLatency(ms []float64) reaction.LatencySummary {
	if len(ms) == 0 {
		return reaction.LatencySummary{}
	}
	var out reaction.LatencySummary
	out.MeanMS, _ = stats.Mean(ms)
	out.MedianMS, _ = stats.Median(ms)
	out.P95MS, _ = stats.Percentile(ms, 95)
	out.MaxMS, _ = stats.Max(ms)
	out.StdDevMS, _ = stats.StandardDeviation(ms)
	return out
}

// categoryRates stacks every validated molecule's vector into a matrix of
// presence flags and averages each column.
func categoryRates(items []reaction.BatchItem) map[taxonomy.ErrorCategory]float64 {
	width := taxonomy.Count()
	var flags []float64
	rows := 0
	for _, item := range items {
		if item.Result == nil {
			continue
		}
		outcomes := append([]reaction.ValidationOutcome{item.Result.Product}, item.Result.Reactants...)
		for _, o := range outcomes {
			if len(o.Vector) != width {
				continue
			}
			for _, f := range o.Vector {
				flags = append(flags, float64(taxonomy.Absent-f))
			}
			rows++
		}
	}
	if rows == 0 {
		return nil
	}

	m := mat.NewDense(rows, width, flags)
	col := make([]float64, rows)
	out := make(map[taxonomy.ErrorCategory]float64, width)
	for j, cat := range taxonomy.Categories() {
		mat.Col(col, j, m)
		out[cat] = gstat.Mean(col, nil)
	}
	return out
}
