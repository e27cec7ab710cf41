package domain

import "time"

// Benchmark is a point-in-time snapshot of population score statistics.
// It is recomputed on demand or on a schedule, never incrementally
// maintained, and may lag concurrently arriving scores.
type Benchmark struct {
	Average    float64   `json:"average"`
	Median     float64   `json:"median"`
	P25        float64   `json:"p25"`
	P75        float64   `json:"p75"`
	SampleSize int       `json:"sampleSize"`
	ComputedAt time.Time `json:"computedAt"`
}
