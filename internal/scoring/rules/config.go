// Package rules implements the configurable scoring rules: factor tables per
// category, weighted aggregation with bonus and penalty adjustments, and the
// validation gate every configuration passes before activation.
package rules

import (
	"fmt"
	"math"

	"leadscore_backend/internal/scoring/domain"
	"leadscore_backend/platform/apperr"
)

// weightEpsilon is the tolerance when checking that category weights sum to 1.
const weightEpsilon = 1e-6

// FactorRule maps discrete attribute values to point contributions in [0,10].
// Fallback applies when the lead's value is absent or unmapped.
type FactorRule struct {
	Values   map[string]float64 `json:"values" yaml:"values"`
	Fallback float64            `json:"fallback" yaml:"fallback"`
}

// RuleTable is the rule set for one category: its weight in the final score
// and the factor rules evaluated for it.
type RuleTable struct {
	Weight  float64               `json:"weight" yaml:"weight"`
	Factors map[string]FactorRule `json:"factors" yaml:"factors"`
}

// Config is a complete scoring configuration. Configs are immutable once
// activated; updates build a new Config, validate it, and swap it atomically
// so in-flight evaluations keep their snapshot.
type Config struct {
	Version int                           `json:"version" yaml:"version"`
	Tables  map[domain.Category]RuleTable `json:"tables" yaml:"tables"`
	Stages  []domain.Stage                `json:"stages" yaml:"stages"`
}

// Validate checks the invariants a configuration must satisfy before it may
// replace the active one. A failing config is rejected in full; the caller
// keeps the previously active configuration live.
func (c *Config) Validate() error {
	sum := 0.0
	for _, cat := range domain.Categories() {
		table, ok := c.Tables[cat]
		if !ok {
			return apperr.Validation(fmt.Sprintf("missing rule table for category %q", cat))
		}
		if table.Weight < 0 || table.Weight > 1 {
			return apperr.Validation(fmt.Sprintf("weight for category %q must be in [0,1]", cat))
		}
		sum += table.Weight

		for name, rule := range table.Factors {
			if rule.Fallback < 0 || rule.Fallback > 10 {
				return apperr.Validation(fmt.Sprintf("fallback for factor %q must be in [0,10]", name))
			}
			for value, points := range rule.Values {
				if points < 0 || points > 10 {
					return apperr.Validation(fmt.Sprintf("points for factor %q value %q must be in [0,10]", name, value))
				}
			}
		}
	}

	if math.Abs(sum-1) > weightEpsilon {
		return apperr.Validation(fmt.Sprintf("category weights must sum to 1, got %.4f", sum))
	}

	if len(c.Stages) == 0 {
		return apperr.Validation("at least one qualification stage is required")
	}
	if c.Stages[0].MinScore != 0 {
		return apperr.Validation("the first stage must have minScore 0")
	}

	seen := make(map[string]struct{}, len(c.Stages))
	prev := -1
	for _, s := range c.Stages {
		if s.ID == "" {
			return apperr.Validation("stage id must not be empty")
		}
		if _, dup := seen[s.ID]; dup {
			return apperr.Validation(fmt.Sprintf("duplicate stage id %q", s.ID))
		}
		seen[s.ID] = struct{}{}
		if s.MinScore <= prev {
			return apperr.Validation(fmt.Sprintf("stage thresholds must be strictly increasing, %q breaks the order", s.ID))
		}
		if s.MinScore > 100 {
			return apperr.Validation(fmt.Sprintf("stage %q threshold exceeds the score range", s.ID))
		}
		prev = s.MinScore
	}

	return nil
}

// Weight returns the configured weight for a category.
func (c *Config) Weight(cat domain.Category) float64 {
	return c.Tables[cat].Weight
}
