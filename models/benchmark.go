package models

import "time"

// MechanismStats aggregates one mechanism's benchmark run.
type MechanismStats struct {
	Mechanism       Mechanism      `json:"mechanism"`
	Runs            int            `json:"runs"`
	Settled         int            `json:"settled"`
	Failures        int            `json:"failures"`
	Timeouts        int            `json:"timeouts"`
	MeanLatency     time.Duration  `json:"mean_latency"`
	P50Latency      time.Duration  `json:"p50_latency"`
	P95Latency      time.Duration  `json:"p95_latency"`
	TotalFees       string         `json:"total_fees"`
	Fairness        float64        `json:"fairness"` // Jain's index over solver selections
	SelectionCounts map[string]int `json:"selection_counts"`
}

// BaselineStats aggregates the lock/unlock baseline timing.
type BaselineStats struct {
	Runs        int           `json:"runs"`
	MeanLatency time.Duration `json:"mean_latency"`
	P50Latency  time.Duration `json:"p50_latency"`
	P95Latency  time.Duration `json:"p95_latency"`
}

// BenchmarkReport is the full outcome of a benchmark run.
type BenchmarkReport struct {
	ID         string           `json:"id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Mechanisms []MechanismStats `json:"mechanisms"`
	Baseline   *BaselineStats   `json:"baseline,omitempty"`
}
