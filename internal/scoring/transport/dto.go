// Package transport defines the request and response shapes of the scoring
// HTTP API. Domain types marshal directly where they already match the wire
// contract; requests get their own structs so binding and validation stay at
// the edge.
package transport

import (
	"leadscore_backend/internal/scoring/domain"
	"leadscore_backend/internal/scoring/rules"
	"leadscore_backend/internal/scoring/service"
)

// FactorRuleRequest maps attribute values to points for one factor.
type FactorRuleRequest struct {
	Values   map[string]float64 `json:"values" validate:"required"`
	Fallback float64            `json:"fallback" validate:"min=0,max=10"`
}

// RuleTableRequest carries one category's weight and factor rules.
type RuleTableRequest struct {
	Weight  float64                      `json:"weight" validate:"min=0,max=1"`
	Factors map[string]FactorRuleRequest `json:"factors" validate:"required"`
}

// StageRequest is one qualification stage in a proposed configuration.
type StageRequest struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	MinScore int    `json:"minScore" validate:"min=0,max=100"`
}

// UpdateConfigRequest is a complete proposed scoring configuration. The
// structural checks here are the shallow ones; the semantic invariants
// (weights summing to 1, monotonic thresholds) live in rules.Config.Validate.
type UpdateConfigRequest struct {
	Tables map[string]RuleTableRequest `json:"tables" validate:"required"`
	Stages []StageRequest              `json:"stages" validate:"required,min=1,dive"`
}

// ToConfig converts the request into a domain configuration for validation
// and activation.
func (r *UpdateConfigRequest) ToConfig() rules.Config {
	tables := make(map[domain.Category]rules.RuleTable, len(r.Tables))
	for cat, t := range r.Tables {
		factors := make(map[string]rules.FactorRule, len(t.Factors))
		for name, f := range t.Factors {
			factors[name] = rules.FactorRule{Values: f.Values, Fallback: f.Fallback}
		}
		tables[domain.Category(cat)] = rules.RuleTable{Weight: t.Weight, Factors: factors}
	}

	stages := make([]domain.Stage, len(r.Stages))
	for i, s := range r.Stages {
		stages[i] = domain.Stage{ID: s.ID, Name: s.Name, MinScore: s.MinScore}
	}

	return rules.Config{Tables: tables, Stages: stages}
}

// ScoreResponse is the outcome of a scoring pass.
type ScoreResponse struct {
	Record     domain.ScoreRecord      `json:"record"`
	Stage      domain.Stage            `json:"stage"`
	Transition *domain.StageTransition `json:"transition,omitempty"`
}

// NewScoreResponse builds the response from a service result.
func NewScoreResponse(result service.ScoreResult) ScoreResponse {
	return ScoreResponse{
		Record:     result.Record,
		Stage:      result.Stage,
		Transition: result.Transition,
	}
}

// StageResponse reports a lead's current qualification stage.
type StageResponse struct {
	Stage domain.Stage `json:"stage"`
}

// HistoryResponse lists a lead's retained score records, newest first, with
// the derived trend.
type HistoryResponse struct {
	Records []domain.ScoreRecord `json:"records"`
	Trend   domain.Trend         `json:"trend"`
}

// TransitionsResponse lists a lead's stage transitions, newest first.
type TransitionsResponse struct {
	Transitions []domain.StageTransition `json:"transitions"`
}

// ConfigResponse returns the active scoring configuration.
type ConfigResponse struct {
	Config rules.Config `json:"config"`
}

// UpdateConfigResponse reports the version assigned to an activated config.
type UpdateConfigResponse struct {
	Version int `json:"version"`
}
