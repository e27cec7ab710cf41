// Package history keeps the bounded per-lead score history window and
// derives the recent trend from it.
package history

import (
	"context"

	"leadscore_backend/internal/scoring/domain"

	"github.com/google/uuid"
)

// DefaultWindow is the number of recent records retained per lead when no
// window is configured.
const DefaultWindow = 50

// trendSpan is the number of records each side of the trend comparison uses.
const trendSpan = 5

// trendDelta is the mean-score movement that counts as a real trend.
const trendDelta = 5.0

// Store is the injected score-history abstraction. Appends for the same lead
// must be serialized; interleaved writes on one lead's window are a bug, not
// a best-effort race.
type Store interface {
	// Append adds a record to its lead's window, dropping the oldest entry
	// once the window is full.
	Append(ctx context.Context, record domain.ScoreRecord) error
	// Records returns a lead's retained records, newest first.
	Records(ctx context.Context, leadID uuid.UUID) ([]domain.ScoreRecord, error)
	// Latest returns a lead's most recent record.
	Latest(ctx context.Context, leadID uuid.UUID) (domain.ScoreRecord, bool, error)
	// LatestTotals returns the most recent total per scored lead,
	// for population statistics.
	LatestTotals(ctx context.Context) ([]int, error)
}

// TrendFor derives the trend from a lead's records (newest first): the mean
// of the most recent five entries against the mean of the five before them.
// A rise above five points is improving, a fall below is declining. Leads
// with fewer than two full spans report stable.
func TrendFor(records []domain.ScoreRecord) domain.Trend {
	if len(records) < 2*trendSpan {
		return domain.TrendStable
	}

	recent := meanTotal(records[:trendSpan])
	previous := meanTotal(records[trendSpan : 2*trendSpan])

	switch {
	case recent-previous > trendDelta:
		return domain.TrendImproving
	case previous-recent > trendDelta:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

func meanTotal(records []domain.ScoreRecord) float64 {
	sum := 0
	for _, r := range records {
		sum += r.Total
	}
	return float64(sum) / float64(len(records))
}
