// Package benchmark computes population-level score statistics. Snapshots
// are recomputed on demand or on a schedule; they are never incrementally
// maintained and may lag scores arriving concurrently.
package benchmark

import (
	"context"
	"sort"
	"time"

	"leadscore_backend/internal/events"
	"leadscore_backend/internal/scoring/domain"
)

// TotalsSource yields the current total per scored lead.
type TotalsSource interface {
	LatestTotals(ctx context.Context) ([]int, error)
}

// Tracker computes benchmark snapshots over the score population.
type Tracker struct {
	source TotalsSource
	bus    events.Bus
}

// New creates a benchmark tracker.
func New(source TotalsSource, bus events.Bus) *Tracker {
	return &Tracker{source: source, bus: bus}
}

// Compute takes a snapshot of the current population: mean, median and
// quartiles over all leads' latest totals. An empty population yields a
// zero-valued snapshot with SampleSize 0.
func (t *Tracker) Compute(ctx context.Context) (domain.Benchmark, error) {
	totals, err := t.source.LatestTotals(ctx)
	if err != nil {
		return domain.Benchmark{}, err
	}

	snapshot := domain.Benchmark{
		SampleSize: len(totals),
		ComputedAt: time.Now().UTC(),
	}
	if len(totals) == 0 {
		return snapshot, nil
	}

	sorted := append([]int(nil), totals...)
	sort.Ints(sorted)

	sum := 0
	for _, v := range sorted {
		sum += v
	}
	snapshot.Average = float64(sum) / float64(len(sorted))
	snapshot.Median = percentile(sorted, 0.5)
	snapshot.P25 = percentile(sorted, 0.25)
	snapshot.P75 = percentile(sorted, 0.75)

	if t.bus != nil {
		t.bus.Publish(ctx, events.BenchmarkRecomputed{
			BaseEvent:  events.NewBaseEvent(),
			SampleSize: snapshot.SampleSize,
			Average:    snapshot.Average,
		})
	}

	return snapshot, nil
}

// percentile interpolates linearly between the closest ranks of a sorted slice.
func percentile(sorted []int, p float64) float64 {
	if len(sorted) == 1 {
		return float64(sorted[0])
	}

	rank := p * float64(len(sorted)-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= len(sorted) {
		return float64(sorted[lower])
	}

	fraction := rank - float64(lower)
	return float64(sorted[lower]) + fraction*float64(sorted[upper]-sorted[lower])
}
