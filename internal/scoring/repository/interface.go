package repository

import (
	"context"

	"leadscore_backend/internal/scoring/domain"
	"leadscore_backend/internal/scoring/rules"

	"github.com/google/uuid"
)

// ConfigStore persists scoring configurations. Only one configuration is
// active at a time; activation swaps the row atomically so readers either see
// the old or the new config, never a mix.
type ConfigStore interface {
	// LoadActive returns the active configuration, ok=false on empty store.
	LoadActive(ctx context.Context) (rules.Config, bool, error)
	// SaveAndActivate stores a validated config as a new version and makes
	// it active in a single transaction. Returns the assigned version.
	SaveAndActivate(ctx context.Context, cfg rules.Config) (int, error)
}

// ScoreStore persists score records as a flat, versioned audit trail.
type ScoreStore interface {
	InsertScoreRecord(ctx context.Context, record domain.ScoreRecord) error
	ListScoreRecords(ctx context.Context, leadID uuid.UUID, limit int) ([]domain.ScoreRecord, error)
	// LatestTotals returns the most recent total per scored lead.
	LatestTotals(ctx context.Context) ([]int, error)
}

// Repository is the full persistence surface of the scoring context. It also
// implements stage.Store for durable stage tracking.
type Repository interface {
	ConfigStore
	ScoreStore

	CurrentStage(ctx context.Context, leadID uuid.UUID) (string, bool, error)
	RecordTransition(ctx context.Context, t domain.StageTransition) error
	Transitions(ctx context.Context, leadID uuid.UUID) ([]domain.StageTransition, error)
}
