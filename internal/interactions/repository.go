// Package interactions exposes a lead's recorded touchpoints to the
// prediction model, which mines them for responsive contact windows.
package interactions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads lead interaction timestamps from PostgreSQL. It satisfies
// the prediction model's InteractionProvider port.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new interaction reader.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Timestamps returns when the lead interacted, newest first. Only
// lead-initiated touchpoints count; outbound attempts say nothing about
// when the lead is responsive.
func (r *Repository) Timestamps(ctx context.Context, leadID uuid.UUID) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT occurred_at
		FROM lead_interactions
		WHERE lead_id = $1 AND direction = 'inbound'
		ORDER BY occurred_at DESC
		LIMIT 200`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	var stamps []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		stamps = append(stamps, t)
	}
	return stamps, rows.Err()
}
