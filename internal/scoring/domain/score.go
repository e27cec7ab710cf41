package domain

import (
	"time"

	"github.com/google/uuid"
)

// CategoryScores holds the raw per-category scores, each in [0,10].
type CategoryScores struct {
	Demographic float64 `json:"demographic"`
	Behavioral  float64 `json:"behavioral"`
	Source      float64 `json:"source"`
	Intent      float64 `json:"intent"`
}

// For returns the raw score for a category.
func (c CategoryScores) For(cat Category) float64 {
	switch cat {
	case CategoryDemographic:
		return c.Demographic
	case CategoryBehavioral:
		return c.Behavioral
	case CategorySource:
		return c.Source
	case CategoryIntent:
		return c.Intent
	}
	return 0
}

// Impact bands for significant factors.
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

// SignificantFactor is one of the top contributors to a score, reported for
// explainability. Contribution is signed: penalties carry negative values.
type SignificantFactor struct {
	Name         string  `json:"name"`
	Contribution float64 `json:"contribution"`
	Impact       string  `json:"impact"`
}

// ScoreRecord is the immutable result of one scoring pass over a lead.
type ScoreRecord struct {
	ID                 uuid.UUID           `json:"id"`
	LeadID             uuid.UUID           `json:"leadId"`
	Total              int                 `json:"total"`
	Breakdown          CategoryScores      `json:"breakdown"`
	BonusTotal         float64             `json:"bonusTotal"`
	PenaltyTotal       float64             `json:"penaltyTotal"`
	SignificantFactors []SignificantFactor `json:"significantFactors"`
	ScoreVersion       string              `json:"scoreVersion"`
	CreatedAt          time.Time           `json:"createdAt"`
}

// Trend describes the direction of a lead's recent score history.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)
