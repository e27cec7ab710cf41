package repository

import (
	"context"
	"errors"
	"fmt"

	"leadscore_backend/internal/scoring/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CurrentStage returns the recorded stage for a lead.
func (r *Repo) CurrentStage(ctx context.Context, leadID uuid.UUID) (string, bool, error) {
	var stageID string
	err := r.pool.QueryRow(ctx,
		`SELECT stage_id FROM lead_stages WHERE lead_id = $1`, leadID).Scan(&stageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("current stage: %w", err)
	}
	return stageID, true, nil
}

// RecordTransition appends the audit entry and updates the lead's current
// stage in one transaction, so the two views cannot drift apart.
func (r *Repo) RecordTransition(ctx context.Context, t domain.StageTransition) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("record transition: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO stage_transitions (id, lead_id, from_stage, to_stage, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.LeadID, t.FromStage, t.ToStage, t.Score, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("record transition: insert: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO lead_stages (lead_id, stage_id, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (lead_id) DO UPDATE SET stage_id = EXCLUDED.stage_id, updated_at = EXCLUDED.updated_at`,
		t.LeadID, t.ToStage, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("record transition: update stage: %w", err)
	}

	return tx.Commit(ctx)
}

// Transitions returns a lead's transition history, newest first.
func (r *Repo) Transitions(ctx context.Context, leadID uuid.UUID) ([]domain.StageTransition, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, from_stage, to_stage, score, created_at
		FROM stage_transitions
		WHERE lead_id = $1
		ORDER BY created_at DESC`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	defer rows.Close()

	var transitions []domain.StageTransition
	for rows.Next() {
		var t domain.StageTransition
		if err := rows.Scan(&t.ID, &t.LeadID, &t.FromStage, &t.ToStage, &t.Score, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		transitions = append(transitions, t)
	}

	return transitions, rows.Err()
}
