package prediction

import (
	"context"
	"time"

	"leadscore_backend/internal/scoring/domain"

	"github.com/google/uuid"
)

// RosterProvider supplies the candidate agents for matching. Implementations
// are I/O-bound collaborators; callers bound them with a context timeout and
// fall back to an empty match list on failure.
type RosterProvider interface {
	Agents(ctx context.Context) ([]domain.Agent, error)
}

// InteractionProvider supplies a lead's historical interaction timestamps
// for contact-time analysis. Failure or timeout falls back to the default
// contact windows.
type InteractionProvider interface {
	Timestamps(ctx context.Context, leadID uuid.UUID) ([]time.Time, error)
}
