// Package agents exposes the sales agent roster to the prediction model.
package agents

import (
	"context"
	"fmt"

	"leadscore_backend/internal/scoring/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads the agent roster from PostgreSQL. It satisfies the
// prediction model's RosterProvider port.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new agent roster reader.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Agents returns every active agent with expertise tags, languages and
// per-category historical performance.
func (r *Repository) Agents(ctx context.Context) ([]domain.Agent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, expertise_tags, languages,
		       demographic_performance, behavioral_performance,
		       source_performance, intent_performance,
		       current_load, capacity
		FROM agents
		WHERE is_active = true
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var agents []domain.Agent
	for rows.Next() {
		var (
			a                      domain.Agent
			demo, behav, src, intn float64
		)
		if err := rows.Scan(
			&a.ID, &a.Name, &a.ExpertiseTags, &a.Languages,
			&demo, &behav, &src, &intn,
			&a.CurrentLoad, &a.Capacity,
		); err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		a.CategoryPerformance = map[domain.Category]float64{
			domain.CategoryDemographic: demo,
			domain.CategoryBehavioral:  behav,
			domain.CategorySource:      src,
			domain.CategoryIntent:      intn,
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}
