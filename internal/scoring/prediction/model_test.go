package prediction

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadscore_backend/internal/scoring/domain"

	"github.com/google/uuid"
)

type fakeRoster struct {
	agents []domain.Agent
	err    error
}

func (f *fakeRoster) Agents(context.Context) ([]domain.Agent, error) {
	return f.agents, f.err
}

type fakeInteractions struct {
	timestamps []time.Time
	err        error
}

func (f *fakeInteractions) Timestamps(context.Context, uuid.UUID) ([]time.Time, error) {
	return f.timestamps, f.err
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func recordWithTotal(total int) domain.ScoreRecord {
	return domain.ScoreRecord{ID: uuid.New(), LeadID: uuid.New(), Total: total}
}

func approx(got, want float64) bool {
	diff := got - want
	return diff < 1e-6 && diff > -1e-6
}

func TestConversionProbabilityScalesWithScore(t *testing.T) {
	m := New(nil, nil, None{}, time.Second, 3, nil)

	if got := m.ConversionProbability(&domain.Lead{}, recordWithTotal(60)); got != 0.6 {
		t.Fatalf("expected 0.6, got %v", got)
	}
}

func TestConversionProbabilityAppliesSignalModifiers(t *testing.T) {
	m := New(nil, nil, None{}, time.Second, 3, nil)

	got := m.ConversionProbability(&domain.Lead{IsReferral: true}, recordWithTotal(50))
	if got != 0.5*1.3 {
		t.Fatalf("referral modifier: expected 0.65, got %v", got)
	}

	got = m.ConversionProbability(&domain.Lead{IsCompetitor: true}, recordWithTotal(50))
	if got != 0.5*0.7 {
		t.Fatalf("competitor modifier: expected 0.35, got %v", got)
	}
}

func TestConversionProbabilityClampsToBounds(t *testing.T) {
	m := New(nil, nil, None{}, time.Second, 3, nil)

	high := m.ConversionProbability(&domain.Lead{IsReturningCustomer: true, IsReferral: true}, recordWithTotal(100))
	if high != 0.95 {
		t.Fatalf("expected ceiling 0.95, got %v", high)
	}

	low := m.ConversionProbability(&domain.Lead{IsCompetitor: true}, recordWithTotal(0))
	if low != 0.05 {
		t.Fatalf("expected floor 0.05, got %v", low)
	}
}

func TestBestContactTimeDefaultsWithoutHistory(t *testing.T) {
	got := BestContactTime(nil)

	if got.Primary != defaultPrimary || got.Secondary != defaultSecondary {
		t.Fatalf("expected default contact windows, got %+v", got)
	}
}

func TestBestContactTimePicksBusiestHours(t *testing.T) {
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	var stamps []time.Time
	for i := 0; i < 3; i++ {
		stamps = append(stamps, base.Add(14*time.Hour)) // 14:00 x3
	}
	for i := 0; i < 2; i++ {
		stamps = append(stamps, base.Add(9*time.Hour)) // 09:00 x2
	}
	stamps = append(stamps, base.Add(20*time.Hour)) // 20:00 x1

	got := BestContactTime(stamps)

	if got.Primary.Hour != 14 {
		t.Fatalf("expected primary hour 14, got %d", got.Primary.Hour)
	}
	if got.Secondary.Hour != 9 {
		t.Fatalf("expected secondary hour 9, got %d", got.Secondary.Hour)
	}
	if got.Primary.Confidence != 0.5 {
		t.Fatalf("expected primary confidence 0.5, got %v", got.Primary.Confidence)
	}
}

func TestPredictFallsBackWhenProvidersFail(t *testing.T) {
	m := New(
		&fakeRoster{err: errors.New("roster down")},
		&fakeInteractions{err: errors.New("interactions down")},
		None{}, time.Second, 3, nil,
	)
	lead := &domain.Lead{ID: uuid.New()}

	pred := m.Predict(context.Background(), lead, recordWithTotal(50))

	if pred.BestContactTime.Primary != defaultPrimary {
		t.Fatalf("expected default contact window on provider failure, got %+v", pred.BestContactTime)
	}
	if len(pred.AgentMatches) != 0 {
		t.Fatalf("expected empty agent matches on provider failure, got %d", len(pred.AgentMatches))
	}
	if pred.ConversionProbability != 0.5 {
		t.Fatalf("probability must not depend on providers, got %v", pred.ConversionProbability)
	}
}

func TestRankAgentsScoresMatchSignals(t *testing.T) {
	lead := &domain.Lead{
		ID:       uuid.New(),
		Industry: strPtr("solar"),
		Language: strPtr("en"),
	}
	record := domain.ScoreRecord{
		Total:     70,
		Breakdown: domain.CategoryScores{Intent: 9, Demographic: 4, Behavioral: 5, Source: 5},
	}

	specialist := domain.Agent{
		ID:            uuid.New(),
		Name:          "Specialist",
		ExpertiseTags: []string{"solar"},
		Languages:     []string{"en"},
		CategoryPerformance: map[domain.Category]float64{
			domain.CategoryIntent: 0.8,
		},
		CurrentLoad: 1,
		Capacity:    10,
	}
	generalist := domain.Agent{
		ID:          uuid.New(),
		Name:        "Generalist",
		CurrentLoad: 9,
		Capacity:    10,
	}

	matches := RankAgents([]domain.Agent{generalist, specialist}, lead, record, 3)

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].AgentName != "Specialist" {
		t.Fatalf("expected specialist ranked first, got %s", matches[0].AgentName)
	}
	// base 50 + industry 20 + language 15 + performance 8 + capacity 10
	if matches[0].Score != 103 {
		t.Fatalf("expected specialist score 103, got %v", matches[0].Score)
	}
	// base only: full load, no matching tags
	if matches[1].Score != 50 {
		t.Fatalf("expected generalist score 50, got %v", matches[1].Score)
	}
	if len(matches[0].Factors) != 5 {
		t.Fatalf("expected 5 contributing factors, got %v", matches[0].Factors)
	}
}

func TestRankAgentsTruncatesToTopKAndBreaksTiesByName(t *testing.T) {
	lead := &domain.Lead{ID: uuid.New()}
	record := recordWithTotal(50)

	var agents []domain.Agent
	for _, name := range []string{"Eve", "Bob", "Alice"} {
		agents = append(agents, domain.Agent{ID: uuid.New(), Name: name, CurrentLoad: 10, Capacity: 10})
	}

	matches := RankAgents(agents, lead, record, 2)

	if len(matches) != 2 {
		t.Fatalf("expected top 2, got %d", len(matches))
	}
	if matches[0].AgentName != "Alice" || matches[1].AgentName != "Bob" {
		t.Fatalf("expected alphabetical tie-break [Alice Bob], got [%s %s]",
			matches[0].AgentName, matches[1].AgentName)
	}
}

func TestRevenueForecastPrefersDiscountedBudget(t *testing.T) {
	lead := &domain.Lead{Budget: floatPtr(10000)}

	got := RevenueForecast(lead, recordWithTotal(80))

	if got.Estimated != 8000 {
		t.Fatalf("expected 80%% of budget, got %v", got.Estimated)
	}
	if !approx(got.Low, 6400) || !approx(got.High, 9600) {
		t.Fatalf("expected +-20%% band, got low=%v high=%v", got.Low, got.High)
	}
	if got.Confidence != 0.8 {
		t.Fatalf("expected confidence 0.8, got %v", got.Confidence)
	}
}

func TestRevenueForecastScalesBaselineByScore(t *testing.T) {
	lead := &domain.Lead{CompanySize: strPtr("medium")}

	got := RevenueForecast(lead, recordWithTotal(75))

	// 20000 baseline * 75 / 50
	if got.Estimated != 30000 {
		t.Fatalf("expected 30000, got %v", got.Estimated)
	}
}

func TestRevenueForecastConfidenceHasFloor(t *testing.T) {
	got := RevenueForecast(&domain.Lead{}, recordWithTotal(0))

	if got.Confidence != 0.05 {
		t.Fatalf("expected confidence floor 0.05, got %v", got.Confidence)
	}
}
