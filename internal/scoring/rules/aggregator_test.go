package rules

import (
	"testing"
	"time"

	"leadscore_backend/internal/scoring/domain"

	"github.com/google/uuid"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

// strongLead is a referred, fully profiled lead with high-value attributes
// across all four categories.
func strongLead() *domain.Lead {
	return &domain.Lead{
		ID:               uuid.New(),
		Name:             strPtr("Jane Prospect"),
		Email:            strPtr("jane@example.com"),
		Phone:            strPtr("+14155552671"),
		Company:          strPtr("Acme Consulting"),
		Occupation:       strPtr("professional"),
		LocationType:     strPtr("urban"),
		EngagementLevel:  strPtr("high"),
		ResponseSpeed:    strPtr("immediate"),
		Channel:          strPtr("referral"),
		ReferrerQuality:  strPtr("verified"),
		PurchaseTimeline: strPtr("immediate"),
		BudgetStatus:     strPtr("confirmed"),
		DecisionRole:     strPtr("decision_maker"),
		IsReferral:       true,
	}
}

func TestAggregateStrongReferralLandsInOpportunityRange(t *testing.T) {
	cfg := MustDefaultConfig()
	lead := strongLead()

	scores := Evaluate(lead, &cfg)
	record := Aggregate(scores, lead, &cfg, time.Now().UTC())

	// Weighted base 72.58 plus referral (5) and complete profile (3) bonuses.
	if record.Total != 81 {
		t.Fatalf("expected total 81, got %d", record.Total)
	}
	if record.BonusTotal != 8 {
		t.Fatalf("expected bonus total 8, got %v", record.BonusTotal)
	}
	if record.PenaltyTotal != 0 {
		t.Fatalf("expected no penalties, got %v", record.PenaltyTotal)
	}

	st := domain.StageForScore(cfg.Stages, record.Total)
	if st.ID != "opportunity" {
		t.Fatalf("expected stage opportunity, got %s", st.ID)
	}
}

func TestAggregateStackedPenaltiesClampToZero(t *testing.T) {
	cfg := MustDefaultConfig()
	lead := &domain.Lead{
		ID:           uuid.New(),
		DoNotContact: true,
		IsCompetitor: true,
		SpamScore:    floatPtr(0.9),
		// No email or phone either.
	}

	scores := Evaluate(lead, &cfg)
	record := Aggregate(scores, lead, &cfg, time.Now().UTC())

	if record.Total != 0 {
		t.Fatalf("expected clamped total 0, got %d", record.Total)
	}
	// do_not_contact 50 + competitor 30 + spam 20 + no contact channel 10
	if record.PenaltyTotal != 110 {
		t.Fatalf("expected penalty total 110, got %v", record.PenaltyTotal)
	}

	st := domain.StageForScore(cfg.Stages, record.Total)
	if st.ID != "new" {
		t.Fatalf("expected stage new, got %s", st.ID)
	}
}

func TestAggregateClampsToUpperBound(t *testing.T) {
	cfg := MustDefaultConfig()
	lead := strongLead()
	lead.AgeBracket = strPtr("35_44")
	lead.Occupation = strPtr("executive")
	lead.CompanySize = strPtr("enterprise")
	lead.VisitFrequency = strPtr("frequent")
	lead.ContentInteraction = strPtr("downloads")
	lead.CampaignType = strPtr("targeted")
	lead.Urgency = strPtr("high")
	lead.IsReturningCustomer = true
	lead.EstimatedValue = floatPtr(50000)
	lead.FirstResponseMinutes = intPtr(10)

	scores := Evaluate(lead, &cfg)
	record := Aggregate(scores, lead, &cfg, time.Now().UTC())

	if record.Total != 100 {
		t.Fatalf("expected total clamped to 100, got %d", record.Total)
	}
}

func TestAggregateBonusesFireIndependently(t *testing.T) {
	cfg := MustDefaultConfig()
	lead := &domain.Lead{
		ID:                   uuid.New(),
		Email:                strPtr("solo@example.com"),
		FirstResponseMinutes: intPtr(30),
	}

	scores := Evaluate(lead, &cfg)
	record := Aggregate(scores, lead, &cfg, time.Now().UTC())

	// Only the fast response bonus applies; the profile is incomplete.
	if record.BonusTotal != 5 {
		t.Fatalf("expected bonus total 5, got %v", record.BonusTotal)
	}
}

func TestAggregateBadPhoneDrawsContactPenalty(t *testing.T) {
	cfg := MustDefaultConfig()
	lead := &domain.Lead{
		ID:    uuid.New(),
		Phone: strPtr("12"),
	}

	scores := Evaluate(lead, &cfg)
	record := Aggregate(scores, lead, &cfg, time.Now().UTC())

	if record.PenaltyTotal != 15 {
		t.Fatalf("expected bad contact info penalty 15, got %v", record.PenaltyTotal)
	}
}

func TestAggregateSignificantFactorsAreDeterministicAndRanked(t *testing.T) {
	cfg := MustDefaultConfig()
	lead := strongLead()
	now := time.Now().UTC()

	scores := Evaluate(lead, &cfg)
	first := Aggregate(scores, lead, &cfg, now)
	second := Aggregate(scores, lead, &cfg, now)

	if len(first.SignificantFactors) != 3 {
		t.Fatalf("expected 3 significant factors, got %d", len(first.SignificantFactors))
	}
	for i := range first.SignificantFactors {
		if first.SignificantFactors[i] != second.SignificantFactors[i] {
			t.Fatalf("significant factors differ between identical runs: %+v vs %+v",
				first.SignificantFactors[i], second.SignificantFactors[i])
		}
	}

	// Behavioral carries the highest weight for this lead and must rank first.
	if first.SignificantFactors[0].Name != "behavioral" {
		t.Fatalf("expected behavioral as top factor, got %s", first.SignificantFactors[0].Name)
	}
	for i := 1; i < len(first.SignificantFactors); i++ {
		prev := first.SignificantFactors[i-1].Contribution
		cur := first.SignificantFactors[i].Contribution
		if abs(cur) > abs(prev) {
			t.Fatalf("factors not ordered by magnitude: %v before %v", prev, cur)
		}
	}
}

func TestAggregateRecordCarriesVersionAndBreakdown(t *testing.T) {
	cfg := MustDefaultConfig()
	lead := strongLead()
	now := time.Now().UTC()

	scores := Evaluate(lead, &cfg)
	record := Aggregate(scores, lead, &cfg, now)

	if record.ScoreVersion != ScoreVersion {
		t.Fatalf("expected score version %q, got %q", ScoreVersion, record.ScoreVersion)
	}
	if record.LeadID != lead.ID {
		t.Fatalf("record bound to wrong lead")
	}
	if record.Breakdown != scores {
		t.Fatalf("expected breakdown to carry the evaluated category scores")
	}
	if !record.CreatedAt.Equal(now) {
		t.Fatalf("expected record timestamp %v, got %v", now, record.CreatedAt)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
