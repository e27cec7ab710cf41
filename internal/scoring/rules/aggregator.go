package rules

import (
	"math"
	"sort"
	"strings"
	"time"

	"leadscore_backend/internal/scoring/domain"
	"leadscore_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	// ScoreVersion tracks the scoring model for debugging and analysis.
	// Bump this when changing scoring logic significantly.
	ScoreVersion = "2026-v1"

	// Bonus rules, additive fixed constants.
	bonusReferral        = 5.0
	bonusCompleteProfile = 3.0
	bonusFastResponse    = 5.0
	bonusHighValue       = 5.0
	bonusReturning       = 10.0

	// Penalty rules, subtractive fixed constants.
	penaltyNoContactChannel = 10.0
	penaltyBadContactInfo   = 15.0
	penaltyDoNotContact     = 50.0
	penaltyCompetitor       = 30.0
	penaltySpam             = 20.0

	// fastResponseMinutes is the first-response threshold for the speed bonus.
	fastResponseMinutes = 60
	// highValueFloor is the estimated-value floor for the value bonus.
	highValueFloor = 10000.0
	// spamThreshold is the spam-likelihood score above which the penalty fires.
	spamThreshold = 0.8

	// materialityThreshold filters significant factors: contributions below
	// this magnitude are not worth surfacing.
	materialityThreshold = 5.0
	// maxSignificantFactors caps the reported factor list.
	maxSignificantFactors = 3
)

// Aggregate combines weighted category scores with bonus and penalty
// adjustments into a single clamped ScoreRecord. The weighted average sits on
// the factor scale [0,10] and is projected to [0,100] before adjustments.
// Pure computation: persistence and stage handling happen in the caller.
func Aggregate(scores domain.CategoryScores, lead *domain.Lead, cfg *Config, now time.Time) domain.ScoreRecord {
	weighted := 0.0
	contributions := make([]domain.SignificantFactor, 0, 12)

	for _, cat := range domain.Categories() {
		part := scores.For(cat) * cfg.Weight(cat) * 10
		weighted += part
		contributions = append(contributions, domain.SignificantFactor{
			Name:         string(cat),
			Contribution: round1(part),
		})
	}

	bonusTotal := 0.0
	for _, adj := range bonuses(lead) {
		bonusTotal += adj.value
		contributions = append(contributions, domain.SignificantFactor{Name: adj.name, Contribution: adj.value})
	}

	penaltyTotal := 0.0
	for _, adj := range penalties(lead) {
		penaltyTotal += adj.value
		contributions = append(contributions, domain.SignificantFactor{Name: adj.name, Contribution: -adj.value})
	}

	total := clampTotal(weighted + bonusTotal - penaltyTotal)

	return domain.ScoreRecord{
		ID:                 uuid.New(),
		LeadID:             lead.ID,
		Total:              total,
		Breakdown:          scores,
		BonusTotal:         bonusTotal,
		PenaltyTotal:       penaltyTotal,
		SignificantFactors: significantFactors(contributions),
		ScoreVersion:       ScoreVersion,
		CreatedAt:          now,
	}
}

// adjustment is a fired bonus or penalty rule. Fixed evaluation order keeps
// the significant-factor ranking deterministic.
type adjustment struct {
	name  string
	value float64
}

// bonuses evaluates the fixed additive rules, each independently.
func bonuses(lead *domain.Lead) []adjustment {
	var out []adjustment

	if lead.IsReferral {
		out = append(out, adjustment{"referral_bonus", bonusReferral})
	}
	if lead.HasCompleteProfile() {
		out = append(out, adjustment{"complete_profile_bonus", bonusCompleteProfile})
	}
	if lead.FirstResponseMinutes != nil && *lead.FirstResponseMinutes < fastResponseMinutes {
		out = append(out, adjustment{"fast_response_bonus", bonusFastResponse})
	}
	if lead.EstimatedValue != nil && *lead.EstimatedValue >= highValueFloor {
		out = append(out, adjustment{"high_value_bonus", bonusHighValue})
	}
	if lead.IsReturningCustomer {
		out = append(out, adjustment{"returning_customer_bonus", bonusReturning})
	}

	return out
}

// penalties evaluates the fixed subtractive rules, each independently.
// Values are reported positive; the aggregate subtracts them.
func penalties(lead *domain.Lead) []adjustment {
	var out []adjustment

	if !lead.HasContactChannel() {
		out = append(out, adjustment{"no_contact_channel_penalty", penaltyNoContactChannel})
	}
	if hasBadContactInfo(lead) {
		out = append(out, adjustment{"bad_contact_info_penalty", penaltyBadContactInfo})
	}
	if lead.DoNotContact {
		out = append(out, adjustment{"do_not_contact_penalty", penaltyDoNotContact})
	}
	if lead.IsCompetitor {
		out = append(out, adjustment{"competitor_penalty", penaltyCompetitor})
	}
	if lead.SpamScore != nil && *lead.SpamScore >= spamThreshold {
		out = append(out, adjustment{"spam_penalty", penaltySpam})
	}

	return out
}

// hasBadContactInfo detects contact details that are present but unusable.
// A lead with no contact data at all is handled by the channel penalty, not here.
func hasBadContactInfo(lead *domain.Lead) bool {
	if lead.Phone != nil && *lead.Phone != "" && !phone.IsPlausible(*lead.Phone) {
		return true
	}
	if lead.Email != nil && *lead.Email != "" && !strings.Contains(*lead.Email, "@") {
		return true
	}
	return false
}

// significantFactors ranks all contributions by magnitude and reports the top
// ones above the materiality threshold, tagged with an impact band.
func significantFactors(contributions []domain.SignificantFactor) []domain.SignificantFactor {
	sort.SliceStable(contributions, func(i, j int) bool {
		return math.Abs(contributions[i].Contribution) > math.Abs(contributions[j].Contribution)
	})

	out := make([]domain.SignificantFactor, 0, maxSignificantFactors)
	for _, c := range contributions {
		if len(out) == maxSignificantFactors {
			break
		}
		magnitude := math.Abs(c.Contribution)
		if magnitude < materialityThreshold {
			continue
		}
		c.Impact = impactBand(magnitude)
		out = append(out, c)
	}
	return out
}

func impactBand(magnitude float64) string {
	switch {
	case magnitude >= 25:
		return domain.ImpactHigh
	case magnitude >= 10:
		return domain.ImpactMedium
	default:
		return domain.ImpactLow
	}
}

func clampTotal(value float64) int {
	rounded := int(math.Round(value))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
