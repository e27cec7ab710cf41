package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stage is one ordered qualification bucket. Stages are configured as an
// ordered list with strictly increasing MinScore thresholds.
type Stage struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	MinScore int    `json:"minScore" yaml:"min_score"`
}

// Default stage identifiers.
const (
	StageNew         = "new"
	StageContacted   = "contacted"
	StageQualified   = "qualified"
	StageOpportunity = "opportunity"
	StageNegotiation = "negotiation"
	StageClosed      = "closed"
)

// DefaultStages returns the built-in qualification ladder.
func DefaultStages() []Stage {
	return []Stage{
		{ID: StageNew, Name: "New", MinScore: 0},
		{ID: StageContacted, Name: "Contacted", MinScore: 20},
		{ID: StageQualified, Name: "Qualified", MinScore: 50},
		{ID: StageOpportunity, Name: "Opportunity", MinScore: 70},
		{ID: StageNegotiation, Name: "Negotiation", MinScore: 85},
		{ID: StageClosed, Name: "Closed", MinScore: 95},
	}
}

// StageForScore returns the highest stage whose threshold the score meets.
// Stages must be ordered by ascending MinScore with the first at 0, so every
// score resolves to a stage. Scoring is not path dependent: a falling score
// maps to an earlier stage, including back out of the final one.
func StageForScore(stages []Stage, score int) Stage {
	current := stages[0]
	for _, s := range stages {
		if score >= s.MinScore {
			current = s
		}
	}
	return current
}

// StageIndex returns the position of a stage id in the table, or -1.
func StageIndex(stages []Stage, id string) int {
	for i, s := range stages {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// StageTransition is an append-only audit entry written whenever a lead's
// computed stage differs from its previously recorded stage.
type StageTransition struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"leadId"`
	FromStage string    `json:"fromStage"`
	ToStage   string    `json:"toStage"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}
