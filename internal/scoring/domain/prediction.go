package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContactWindow is a recommended hour/day to reach a lead.
type ContactWindow struct {
	Hour       int     `json:"hour"` // 0-23
	Day        string  `json:"day"`  // e.g. "Tuesday"
	Confidence float64 `json:"confidence"`
}

// BestContactTime holds the two strongest contact windows for a lead.
type BestContactTime struct {
	Primary   ContactWindow `json:"primary"`
	Secondary ContactWindow `json:"secondary"`
}

// AgentMatch ranks one agent's fit for a lead, with the factors that
// contributed to the ranking spelled out for explainability.
type AgentMatch struct {
	AgentID   uuid.UUID `json:"agentId"`
	AgentName string    `json:"agentName"`
	Score     float64   `json:"score"`
	Factors   []string  `json:"factors"`
}

// RevenueForecast is a banded revenue estimate for a lead.
type RevenueForecast struct {
	Estimated  float64 `json:"estimated"`
	Low        float64 `json:"low"`
	High       float64 `json:"high"`
	Confidence float64 `json:"confidence"`
}

// Prediction bundles the heuristic estimates derived from a lead and its
// latest score record. Only the latest prediction per lead is kept.
type Prediction struct {
	LeadID                uuid.UUID       `json:"leadId"`
	ConversionProbability float64         `json:"conversionProbability"`
	BestContactTime       BestContactTime `json:"bestContactTime"`
	AgentMatches          []AgentMatch    `json:"agentMatches"`
	RevenueForecast       RevenueForecast `json:"revenueForecast"`
	GeneratedAt           time.Time       `json:"generatedAt"`
}

// Agent is the roster entry supplied by the agent management collaborator.
type Agent struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ExpertiseTags []string  `json:"expertiseTags"`
	Languages     []string  `json:"languages"`
	// CategoryPerformance maps factor categories to a 0..1 historical
	// conversion performance for leads strong in that category.
	CategoryPerformance map[Category]float64 `json:"categoryPerformance"`
	CurrentLoad         int                  `json:"currentLoad"`
	Capacity            int                  `json:"capacity"`
}
