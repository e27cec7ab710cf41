// Package stage implements the score-driven qualification stage machine.
// A lead's stage is purely a function of its latest score and the configured
// stage table; transitions are audited and announced on the event bus.
package stage

import (
	"context"
	"sync"
	"time"

	"leadscore_backend/internal/events"
	"leadscore_backend/internal/scoring/domain"
	"leadscore_backend/platform/logger"

	"github.com/google/uuid"
)

// Store persists the current stage per lead and the append-only transition
// log. The machine serializes per-lead access, so implementations only need
// to be safe for concurrent use across different leads.
type Store interface {
	// CurrentStage returns the recorded stage for a lead, with ok=false
	// for a lead that has never been staged.
	CurrentStage(ctx context.Context, leadID uuid.UUID) (string, bool, error)
	// RecordTransition appends a transition and updates the current stage.
	RecordTransition(ctx context.Context, t domain.StageTransition) error
	// Transitions returns a lead's transition history, newest first.
	Transitions(ctx context.Context, leadID uuid.UUID) ([]domain.StageTransition, error)
}

// Machine maps scores to stages and detects transitions.
type Machine struct {
	store Store
	bus   events.Bus
	log   *logger.Logger

	leadLocks sync.Map // map[uuid.UUID]*sync.Mutex
}

// New creates a stage machine over the given store and bus.
func New(store Store, bus events.Bus, log *logger.Logger) *Machine {
	return &Machine{store: store, bus: bus, log: log}
}

// Apply computes the stage for a new score record. When the stage differs
// from the lead's previously recorded stage it writes a StageTransition and
// publishes a StageChanged event; otherwise it returns the unchanged stage
// and a nil transition. An unscored lead starts from the lowest stage, so the
// first Apply emits a transition only when the score reaches past it.
func (m *Machine) Apply(ctx context.Context, stages []domain.Stage, record domain.ScoreRecord) (domain.Stage, *domain.StageTransition, error) {
	// Reading the current stage and recording the transition must not
	// interleave for the same lead, or two concurrent scoring passes could
	// both observe the old stage and write crossed transitions.
	unlock := m.lockLead(record.LeadID)
	defer unlock()

	newStage := domain.StageForScore(stages, record.Total)

	current, ok, err := m.store.CurrentStage(ctx, record.LeadID)
	if err != nil {
		return domain.Stage{}, nil, err
	}
	if !ok {
		current = stages[0].ID
	}

	if newStage.ID == current {
		return newStage, nil, nil
	}

	transition := domain.StageTransition{
		ID:        uuid.New(),
		LeadID:    record.LeadID,
		FromStage: current,
		ToStage:   newStage.ID,
		Score:     record.Total,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.store.RecordTransition(ctx, transition); err != nil {
		return domain.Stage{}, nil, err
	}

	if m.log != nil {
		m.log.StageChanged(record.LeadID.String(), current, newStage.ID, record.Total)
	}
	if m.bus != nil {
		m.bus.Publish(ctx, events.StageChanged{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    record.LeadID,
			FromStage: current,
			ToStage:   newStage.ID,
			Score:     record.Total,
		})
	}

	return newStage, &transition, nil
}

// Current resolves the recorded stage for a lead, defaulting to the lowest
// configured stage for leads that were never scored.
func (m *Machine) Current(ctx context.Context, stages []domain.Stage, leadID uuid.UUID) (domain.Stage, error) {
	id, ok, err := m.store.CurrentStage(ctx, leadID)
	if err != nil {
		return domain.Stage{}, err
	}
	if !ok {
		return stages[0], nil
	}
	if idx := domain.StageIndex(stages, id); idx >= 0 {
		return stages[idx], nil
	}
	// Stage table changed since the lead was staged; fall back to the
	// lowest configured stage until the next scoring pass re-stages it.
	return stages[0], nil
}

// lockLead acquires the per-lead mutex, creating it on first use.
func (m *Machine) lockLead(leadID uuid.UUID) func() {
	v, _ := m.leadLocks.LoadOrStore(leadID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// History returns a lead's transition audit trail.
func (m *Machine) History(ctx context.Context, leadID uuid.UUID) ([]domain.StageTransition, error) {
	return m.store.Transitions(ctx, leadID)
}
