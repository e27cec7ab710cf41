package history

import (
	"context"
	"sync"

	"leadscore_backend/internal/scoring/domain"

	"github.com/google/uuid"
)

// MemoryStore keeps score history in process memory. A single mutex
// serializes appends, which also satisfies the per-lead ordering guarantee.
type MemoryStore struct {
	mu      sync.RWMutex
	window  int
	records map[uuid.UUID][]domain.ScoreRecord // newest first
}

// NewMemoryStore creates a store retaining up to window records per lead.
func NewMemoryStore(window int) *MemoryStore {
	if window < 1 {
		window = DefaultWindow
	}
	return &MemoryStore{
		window:  window,
		records: make(map[uuid.UUID][]domain.ScoreRecord),
	}
}

// Append adds a record, evicting the oldest entry when the window is full.
func (s *MemoryStore) Append(_ context.Context, record domain.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	window := append([]domain.ScoreRecord{record}, s.records[record.LeadID]...)
	if len(window) > s.window {
		window = window[:s.window]
	}
	s.records[record.LeadID] = window
	return nil
}

// Records returns a lead's retained records, newest first.
func (s *MemoryStore) Records(_ context.Context, leadID uuid.UUID) ([]domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ScoreRecord(nil), s.records[leadID]...), nil
}

// Latest returns a lead's most recent record.
func (s *MemoryStore) Latest(_ context.Context, leadID uuid.UUID) (domain.ScoreRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	window := s.records[leadID]
	if len(window) == 0 {
		return domain.ScoreRecord{}, false, nil
	}
	return window[0], true, nil
}

// LatestTotals returns the most recent total per scored lead.
func (s *MemoryStore) LatestTotals(_ context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make([]int, 0, len(s.records))
	for _, window := range s.records {
		if len(window) > 0 {
			totals = append(totals, window[0].Total)
		}
	}
	return totals, nil
}

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
