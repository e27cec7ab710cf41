package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"leadscore_backend/internal/scoring/domain"

	"github.com/google/uuid"
)

// InsertScoreRecord appends one scoring result to the audit trail. The
// per-category breakdown is stored in flat columns so the schema stays
// queryable as rule tables evolve; the significant factors ride along as JSON.
func (r *Repo) InsertScoreRecord(ctx context.Context, record domain.ScoreRecord) error {
	factors, err := json.Marshal(record.SignificantFactors)
	if err != nil {
		return fmt.Errorf("insert score record: encode factors: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO score_records (
			id, lead_id, total,
			demographic_score, behavioral_score, source_score, intent_score,
			bonus_total, penalty_total, significant_factors, score_version, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		record.ID, record.LeadID, record.Total,
		record.Breakdown.Demographic, record.Breakdown.Behavioral,
		record.Breakdown.Source, record.Breakdown.Intent,
		record.BonusTotal, record.PenaltyTotal, factors, record.ScoreVersion, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert score record: %w", err)
	}
	return nil
}

// ListScoreRecords returns a lead's most recent score records, newest first.
func (r *Repo) ListScoreRecords(ctx context.Context, leadID uuid.UUID, limit int) ([]domain.ScoreRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, total,
			demographic_score, behavioral_score, source_score, intent_score,
			bonus_total, penalty_total, significant_factors, score_version, created_at
		FROM score_records
		WHERE lead_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, leadID, limit)
	if err != nil {
		return nil, fmt.Errorf("list score records: %w", err)
	}
	defer rows.Close()

	var records []domain.ScoreRecord
	for rows.Next() {
		var rec domain.ScoreRecord
		var factors []byte
		err := rows.Scan(
			&rec.ID, &rec.LeadID, &rec.Total,
			&rec.Breakdown.Demographic, &rec.Breakdown.Behavioral,
			&rec.Breakdown.Source, &rec.Breakdown.Intent,
			&rec.BonusTotal, &rec.PenaltyTotal, &factors, &rec.ScoreVersion, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan score record: %w", err)
		}
		if len(factors) > 0 {
			if err := json.Unmarshal(factors, &rec.SignificantFactors); err != nil {
				return nil, fmt.Errorf("decode score factors: %w", err)
			}
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// LatestTotals returns the most recent total per scored lead. Benchmarks are
// computed over this population.
func (r *Repo) LatestTotals(ctx context.Context) ([]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (lead_id) total
		FROM score_records
		ORDER BY lead_id, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("latest totals: %w", err)
	}
	defer rows.Close()

	var totals []int
	for rows.Next() {
		var t int
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
