package reaction

import (
	"time"

	"rxcheck/domain/core"
	"rxcheck/domain/taxonomy"
)

// Submission is one proposed reaction read from a batch source. Row is the
// 1-based position in the source, header excluded.
type Submission struct {
	Row       int      `json:"row"`
	Product   string   `json:"product"`
	Reactants []string `json:"reactants"`
}

// BatchItem is the outcome of one submission. Exactly one of Result and
// Error is set.
type BatchItem struct {
	Submission Submission `json:"submission"`
	Result     *Result    `json:"result,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// LatencySummary describes per-run durations in milliseconds
type LatencySummary struct {
	MeanMS   float64 `json:"mean_ms"`
	MedianMS float64 `json:"median_ms"`
	P95MS    float64 `json:"p95_ms"`
	MaxMS    float64 `json:"max_ms"`
	StdDevMS float64 `json:"stddev_ms"`
}

// BatchReport aggregates a batch run. Items keep submission order.
// CategoryRates holds, per category, the fraction of validated molecules
// flagged with it.
type BatchReport struct {
	BatchID       core.BatchID                       `json:"batch_id"`
	Items         []BatchItem                        `json:"items"`
	Verdicts      map[Verdict]int                    `json:"verdicts"`
	Failed        int                                `json:"failed"`
	Latency       LatencySummary                     `json:"latency"`
	CategoryRates map[taxonomy.ErrorCategory]float64 `json:"category_rates,omitempty"`
	StartedAt     core.Timestamp                     `json:"started_at"`
	Duration      time.Duration                      `json:"duration_ns"`
}
