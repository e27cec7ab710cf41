package rules

import "leadscore_backend/internal/scoring/domain"

// neutralScore is the midpoint used when a factor or an entire category has
// nothing to observe. Missing data never raises an error here.
const neutralScore = 5.0

// Evaluate maps a lead's attributes to four raw category scores, each in
// [0,10]. For every factor declared in a category's table the lead's value is
// looked up; an absent or unmapped value resolves to the factor's fallback.
// The category score is the average over its declared factors.
func Evaluate(lead *domain.Lead, cfg *Config) domain.CategoryScores {
	return domain.CategoryScores{
		Demographic: evaluateCategory(lead, cfg.Tables[domain.CategoryDemographic]),
		Behavioral:  evaluateCategory(lead, cfg.Tables[domain.CategoryBehavioral]),
		Source:      evaluateCategory(lead, cfg.Tables[domain.CategorySource]),
		Intent:      evaluateCategory(lead, cfg.Tables[domain.CategoryIntent]),
	}
}

func evaluateCategory(lead *domain.Lead, table RuleTable) float64 {
	if len(table.Factors) == 0 {
		return neutralScore
	}

	sum := 0.0
	for name, rule := range table.Factors {
		sum += evaluateFactor(lead, name, rule)
	}
	return sum / float64(len(table.Factors))
}

func evaluateFactor(lead *domain.Lead, name string, rule FactorRule) float64 {
	value, ok := lead.FactorValue(name)
	if !ok {
		return rule.Fallback
	}
	points, mapped := rule.Values[value]
	if !mapped {
		return rule.Fallback
	}
	return points
}
