// Package leads provides the engine's read-only access to prospect records.
// Leads are owned and mutated by the lead management system; the scoring
// engine only reads them.
package leads

import (
	"context"
	"errors"
	"fmt"

	"leadscore_backend/internal/scoring/domain"
	"leadscore_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const leadNotFoundMessage = "lead not found"

// Repository reads lead records from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new lead reader.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `
	id, name, email, phone, company,
	age_bracket, occupation, location_type, company_size, industry, language,
	engagement_level, response_speed, visit_frequency, content_interaction,
	channel, campaign_type, referrer_quality,
	purchase_timeline, budget_status, decision_role, urgency,
	is_referral, is_returning_customer, is_competitor, do_not_contact,
	estimated_value, budget, spam_score, first_response_minutes,
	assigned_agent_id, created_at`

// Get returns one lead by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return domain.Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

// ListIDs returns a stable page of lead ids for chunked bulk operations.
func (r *Repository) ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM leads ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list lead ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan lead id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var l domain.Lead
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company,
		&l.AgeBracket, &l.Occupation, &l.LocationType, &l.CompanySize, &l.Industry, &l.Language,
		&l.EngagementLevel, &l.ResponseSpeed, &l.VisitFrequency, &l.ContentInteraction,
		&l.Channel, &l.CampaignType, &l.ReferrerQuality,
		&l.PurchaseTimeline, &l.BudgetStatus, &l.DecisionRole, &l.Urgency,
		&l.IsReferral, &l.IsReturningCustomer, &l.IsCompetitor, &l.DoNotContact,
		&l.EstimatedValue, &l.Budget, &l.SpamScore, &l.FirstResponseMinutes,
		&l.AssignedAgentID, &l.CreatedAt,
	)
	return l, err
}
