package rules

import (
	"testing"

	"leadscore_backend/internal/scoring/domain"
)

func strPtr(s string) *string { return &s }

func TestEvaluateUsesFallbackForMissingAttributes(t *testing.T) {
	cfg := MustDefaultConfig()
	lead := &domain.Lead{}

	scores := Evaluate(lead, &cfg)

	// Every factor in the seed config falls back to 5, so an empty lead
	// scores neutral across the board.
	for _, cat := range domain.Categories() {
		if got := scores.For(cat); got != 5 {
			t.Fatalf("expected neutral score 5 for %s, got %v", cat, got)
		}
	}
}

func TestEvaluateUsesFallbackForUnmappedValue(t *testing.T) {
	cfg := MustDefaultConfig()
	lead := &domain.Lead{
		LocationType: strPtr("orbital"),
	}

	scores := Evaluate(lead, &cfg)

	if scores.Demographic != 5 {
		t.Fatalf("unmapped value should resolve to fallback, got %v", scores.Demographic)
	}
}

func TestEvaluateAveragesDeclaredFactors(t *testing.T) {
	cfg := MustDefaultConfig()
	lead := &domain.Lead{
		EngagementLevel: strPtr("high"),      // 9
		ResponseSpeed:   strPtr("immediate"), // 9
		// visit_frequency and content_interaction fall back to 5
	}

	scores := Evaluate(lead, &cfg)

	if want := (9.0 + 9.0 + 5.0 + 5.0) / 4.0; scores.Behavioral != want {
		t.Fatalf("expected behavioral score %v, got %v", want, scores.Behavioral)
	}
}

func TestEvaluateEmptyTableScoresNeutral(t *testing.T) {
	cfg := MustDefaultConfig()
	cfg.Tables[domain.CategorySource] = RuleTable{Weight: 0.2}

	scores := Evaluate(&domain.Lead{Channel: strPtr("referral")}, &cfg)

	if scores.Source != 5 {
		t.Fatalf("category without factors should score neutral, got %v", scores.Source)
	}
}

func TestEvaluateScoresStayInFactorRange(t *testing.T) {
	cfg := MustDefaultConfig()
	lead := &domain.Lead{
		AgeBracket:         strPtr("35_44"),
		Occupation:         strPtr("executive"),
		LocationType:       strPtr("urban"),
		CompanySize:        strPtr("enterprise"),
		EngagementLevel:    strPtr("high"),
		ResponseSpeed:      strPtr("immediate"),
		VisitFrequency:     strPtr("frequent"),
		ContentInteraction: strPtr("downloads"),
		Channel:            strPtr("referral"),
		CampaignType:       strPtr("targeted"),
		ReferrerQuality:    strPtr("verified"),
		PurchaseTimeline:   strPtr("immediate"),
		BudgetStatus:       strPtr("confirmed"),
		DecisionRole:       strPtr("decision_maker"),
		Urgency:            strPtr("high"),
	}

	scores := Evaluate(lead, &cfg)

	for _, cat := range domain.Categories() {
		if got := scores.For(cat); got < 0 || got > 10 {
			t.Fatalf("category score for %s out of range: %v", cat, got)
		}
	}
}
