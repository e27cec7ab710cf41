package stage

import (
	"context"
	"sync"

	"leadscore_backend/internal/scoring/domain"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used in tests and single-node setups.
type MemoryStore struct {
	mu          sync.RWMutex
	current     map[uuid.UUID]string
	transitions map[uuid.UUID][]domain.StageTransition
}

// NewMemoryStore creates an empty in-memory stage store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		current:     make(map[uuid.UUID]string),
		transitions: make(map[uuid.UUID][]domain.StageTransition),
	}
}

// CurrentStage returns the recorded stage for a lead.
func (s *MemoryStore) CurrentStage(_ context.Context, leadID uuid.UUID) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.current[leadID]
	return id, ok, nil
}

// RecordTransition appends a transition and updates the current stage.
func (s *MemoryStore) RecordTransition(_ context.Context, t domain.StageTransition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current[t.LeadID] = t.ToStage
	s.transitions[t.LeadID] = append([]domain.StageTransition{t}, s.transitions[t.LeadID]...)
	return nil
}

// Transitions returns a lead's transition history, newest first.
func (s *MemoryStore) Transitions(_ context.Context, leadID uuid.UUID) ([]domain.StageTransition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.StageTransition(nil), s.transitions[leadID]...), nil
}

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
