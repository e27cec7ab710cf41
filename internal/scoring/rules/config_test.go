package rules

import (
	"errors"
	"testing"

	"leadscore_backend/internal/scoring/domain"
	"leadscore_backend/platform/apperr"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("loading embedded default config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if len(cfg.Stages) != 6 {
		t.Fatalf("expected 6 default stages, got %d", len(cfg.Stages))
	}
}

func TestValidateRejectsWeightsNotSummingToOne(t *testing.T) {
	cfg := MustDefaultConfig()
	table := cfg.Tables[domain.CategoryIntent]
	table.Weight = 0.45 // pushes the sum to 1.2
	cfg.Tables[domain.CategoryIntent] = table

	assertValidationError(t, cfg.Validate())
}

func TestValidateRejectsWeightOutOfRange(t *testing.T) {
	cfg := MustDefaultConfig()
	table := cfg.Tables[domain.CategorySource]
	table.Weight = 1.2
	cfg.Tables[domain.CategorySource] = table

	assertValidationError(t, cfg.Validate())
}

func TestValidateRejectsPointsOutOfRange(t *testing.T) {
	cfg := MustDefaultConfig()
	cfg.Tables[domain.CategorySource].Factors["channel"].Values["referral"] = 12

	assertValidationError(t, cfg.Validate())
}

func TestValidateRejectsMissingCategoryTable(t *testing.T) {
	cfg := MustDefaultConfig()
	delete(cfg.Tables, domain.CategoryBehavioral)

	assertValidationError(t, cfg.Validate())
}

func TestValidateRejectsNonMonotonicStages(t *testing.T) {
	cfg := MustDefaultConfig()
	cfg.Stages[3].MinScore = 40 // below the stage before it

	assertValidationError(t, cfg.Validate())
}

func TestValidateRejectsDuplicateStageIDs(t *testing.T) {
	cfg := MustDefaultConfig()
	cfg.Stages[2].ID = cfg.Stages[1].ID

	assertValidationError(t, cfg.Validate())
}

func TestValidateRejectsNonZeroFirstStage(t *testing.T) {
	cfg := MustDefaultConfig()
	cfg.Stages[0].MinScore = 5

	assertValidationError(t, cfg.Validate())
}

func TestValidateRejectsEmptyStageList(t *testing.T) {
	cfg := MustDefaultConfig()
	cfg.Stages = nil

	assertValidationError(t, cfg.Validate())
}

func TestValidateRejectsThresholdAboveScoreRange(t *testing.T) {
	cfg := MustDefaultConfig()
	cfg.Stages[len(cfg.Stages)-1].MinScore = 120

	assertValidationError(t, cfg.Validate())
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation kind, got %v", err)
	}
}
