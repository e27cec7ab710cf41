package history

import (
	"context"
	"testing"

	"leadscore_backend/internal/scoring/domain"

	"github.com/google/uuid"
)

func appendTotals(t *testing.T, s *MemoryStore, leadID uuid.UUID, totals ...int) {
	t.Helper()
	for _, total := range totals {
		err := s.Append(context.Background(), domain.ScoreRecord{
			ID:     uuid.New(),
			LeadID: leadID,
			Total:  total,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}
}

func TestMemoryStoreEvictsOldestBeyondWindow(t *testing.T) {
	s := NewMemoryStore(3)
	leadID := uuid.New()

	appendTotals(t, s, leadID, 10, 20, 30, 40)

	records, err := s.Records(context.Background(), leadID)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected window of 3, got %d", len(records))
	}
	if records[0].Total != 40 || records[2].Total != 20 {
		t.Fatalf("expected newest-first [40 30 20], got [%d %d %d]",
			records[0].Total, records[1].Total, records[2].Total)
	}
}

func TestMemoryStoreLatest(t *testing.T) {
	s := NewMemoryStore(5)
	leadID := uuid.New()

	if _, ok, _ := s.Latest(context.Background(), leadID); ok {
		t.Fatal("expected no record for unscored lead")
	}

	appendTotals(t, s, leadID, 10, 55)

	latest, ok, err := s.Latest(context.Background(), leadID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !ok || latest.Total != 55 {
		t.Fatalf("expected latest total 55, got %+v ok=%v", latest, ok)
	}
}

func TestMemoryStoreLatestTotalsCoversAllLeads(t *testing.T) {
	s := NewMemoryStore(5)
	appendTotals(t, s, uuid.New(), 10, 30)
	appendTotals(t, s, uuid.New(), 80)

	totals, err := s.LatestTotals(context.Background())
	if err != nil {
		t.Fatalf("latest totals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 totals, got %d", len(totals))
	}
	sum := totals[0] + totals[1]
	if sum != 110 {
		t.Fatalf("expected latest totals 30 and 80, got %v", totals)
	}
}

func TestTrendForNeedsTwoFullSpans(t *testing.T) {
	records := make([]domain.ScoreRecord, 9)
	if got := TrendFor(records); got != domain.TrendStable {
		t.Fatalf("fewer than 10 records must report stable, got %s", got)
	}
}

func TestTrendForImproving(t *testing.T) {
	// Newest first: recent five at 80, previous five at 40.
	var records []domain.ScoreRecord
	for i := 0; i < 5; i++ {
		records = append(records, domain.ScoreRecord{Total: 80})
	}
	for i := 0; i < 5; i++ {
		records = append(records, domain.ScoreRecord{Total: 40})
	}

	if got := TrendFor(records); got != domain.TrendImproving {
		t.Fatalf("expected improving, got %s", got)
	}
}

func TestTrendForDeclining(t *testing.T) {
	var records []domain.ScoreRecord
	for i := 0; i < 5; i++ {
		records = append(records, domain.ScoreRecord{Total: 30})
	}
	for i := 0; i < 5; i++ {
		records = append(records, domain.ScoreRecord{Total: 70})
	}

	if got := TrendFor(records); got != domain.TrendDeclining {
		t.Fatalf("expected declining, got %s", got)
	}
}

func TestTrendForSmallMovementIsStable(t *testing.T) {
	var records []domain.ScoreRecord
	for i := 0; i < 5; i++ {
		records = append(records, domain.ScoreRecord{Total: 52})
	}
	for i := 0; i < 5; i++ {
		records = append(records, domain.ScoreRecord{Total: 50})
	}

	if got := TrendFor(records); got != domain.TrendStable {
		t.Fatalf("movement inside the threshold must be stable, got %s", got)
	}
}
