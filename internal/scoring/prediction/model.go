// Package prediction computes the heuristic estimates derived from a lead
// and its latest score record: conversion probability, best contact time,
// agent fit and revenue forecast. The four estimates are independent pure
// formulas over declared inputs; nothing here is a trained model.
package prediction

import (
	"context"
	"sort"
	"strings"
	"time"

	"leadscore_backend/internal/scoring/domain"
	"leadscore_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

const (
	// Conversion probability bounds and signal modifiers.
	probabilityFloor   = 0.05
	probabilityCeiling = 0.95
	referralModifier   = 1.3
	returningModifier  = 1.5
	competitorModifier = 0.7

	// Agent match scoring components.
	agentBaseScore     = 50.0
	industryMatchScore = 20.0
	languageMatchScore = 15.0
	performanceScale   = 10.0
	availabilityBonus  = 10.0
	availabilityCutoff = 0.7

	// Revenue forecast shaping.
	budgetDiscount  = 0.8
	varianceBand    = 0.2
	scoreMidpoint   = 50.0
	defaultBaseline = 5000.0
)

// Default contact windows reported when no interaction history exists.
var (
	defaultPrimary   = domain.ContactWindow{Hour: 10, Day: "Tuesday", Confidence: 0.3}
	defaultSecondary = domain.ContactWindow{Hour: 14, Day: "Thursday", Confidence: 0.2}
)

// companySizeBaselines maps company size to a base revenue figure used when
// no budget is known.
var companySizeBaselines = map[string]float64{
	"solo":       2500,
	"small":      7500,
	"medium":     20000,
	"large":      50000,
	"enterprise": 120000,
}

// Model computes predictions. Provider calls are bounded by the configured
// timeout; on failure each estimate falls back to its documented default so a
// scoring pass always yields a complete Prediction.
type Model struct {
	roster       RosterProvider
	interactions InteractionProvider
	noise        Noise
	timeout      time.Duration
	topK         int
	log          *logger.Logger
}

// New creates a prediction model. A nil noise source disables jitter.
func New(roster RosterProvider, interactions InteractionProvider, noise Noise, timeout time.Duration, topK int, log *logger.Logger) *Model {
	if noise == nil {
		noise = None{}
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if topK < 1 {
		topK = 3
	}
	return &Model{
		roster:       roster,
		interactions: interactions,
		noise:        noise,
		timeout:      timeout,
		topK:         topK,
		log:          log,
	}
}

// Predict derives all four estimates for a lead. The estimates do not depend
// on each other and run concurrently; provider failures degrade to defaults
// and never fail the prediction as a whole.
func (m *Model) Predict(ctx context.Context, lead *domain.Lead, record domain.ScoreRecord) domain.Prediction {
	pred := domain.Prediction{
		LeadID:                lead.ID,
		ConversionProbability: m.ConversionProbability(lead, record),
		RevenueForecast:       RevenueForecast(lead, record),
		GeneratedAt:           time.Now().UTC(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pred.BestContactTime = m.bestContactTime(gctx, lead)
		return nil
	})
	g.Go(func() error {
		pred.AgentMatches = m.agentMatches(gctx, lead, record)
		return nil
	})

	// Goroutines swallow provider errors into defaults, so Wait cannot fail.
	_ = g.Wait()

	return pred
}

// ConversionProbability estimates how likely the lead is to convert: the
// score as a base rate, scaled by fixed modifiers for known signals and
// clamped to [0.05, 0.95].
func (m *Model) ConversionProbability(lead *domain.Lead, record domain.ScoreRecord) float64 {
	p := float64(record.Total) / 100

	if lead.IsReferral {
		p *= referralModifier
	}
	if lead.IsReturningCustomer {
		p *= returningModifier
	}
	if lead.IsCompetitor {
		p *= competitorModifier
	}

	p += m.noise.Jitter()

	if p < probabilityFloor {
		return probabilityFloor
	}
	if p > probabilityCeiling {
		return probabilityCeiling
	}
	return p
}

func (m *Model) bestContactTime(ctx context.Context, lead *domain.Lead) domain.BestContactTime {
	fallback := domain.BestContactTime{Primary: defaultPrimary, Secondary: defaultSecondary}
	if m.interactions == nil {
		return fallback
	}

	tctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	timestamps, err := m.interactions.Timestamps(tctx, lead.ID)
	if err != nil {
		if m.log != nil {
			m.log.Warn("interaction history unavailable, using default contact time", "leadId", lead.ID, "error", err)
		}
		return fallback
	}

	return BestContactTime(timestamps)
}

// BestContactTime builds an hour-of-day histogram from interaction
// timestamps and reports the two most frequent hours. With no history it
// returns the configured defaults.
func BestContactTime(timestamps []time.Time) domain.BestContactTime {
	if len(timestamps) == 0 {
		return domain.BestContactTime{Primary: defaultPrimary, Secondary: defaultSecondary}
	}

	var histogram [24]int
	for _, ts := range timestamps {
		histogram[ts.Hour()]++
	}

	first, second := topHours(histogram)
	total := float64(len(timestamps))

	return domain.BestContactTime{
		Primary: domain.ContactWindow{
			Hour:       first,
			Day:        defaultPrimary.Day,
			Confidence: float64(histogram[first]) / total,
		},
		Secondary: domain.ContactWindow{
			Hour:       second,
			Day:        defaultSecondary.Day,
			Confidence: float64(histogram[second]) / total,
		},
	}
}

// topHours returns the indices of the two largest histogram buckets.
// Earlier hours win ties so results are stable.
func topHours(histogram [24]int) (int, int) {
	first, second := 0, 1
	if histogram[second] > histogram[first] {
		first, second = second, first
	}
	for h := 2; h < 24; h++ {
		switch {
		case histogram[h] > histogram[first]:
			second = first
			first = h
		case histogram[h] > histogram[second]:
			second = h
		}
	}
	return first, second
}

func (m *Model) agentMatches(ctx context.Context, lead *domain.Lead, record domain.ScoreRecord) []domain.AgentMatch {
	if m.roster == nil {
		return []domain.AgentMatch{}
	}

	tctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	agents, err := m.roster.Agents(tctx)
	if err != nil {
		if m.log != nil {
			m.log.Warn("agent roster unavailable, returning empty match list", "leadId", lead.ID, "error", err)
		}
		return []domain.AgentMatch{}
	}

	return RankAgents(agents, lead, record, m.topK)
}

// RankAgents scores every candidate agent for the lead and returns the top-K
// matches with the contributing factors spelled out.
func RankAgents(agents []domain.Agent, lead *domain.Lead, record domain.ScoreRecord, topK int) []domain.AgentMatch {
	matches := make([]domain.AgentMatch, 0, len(agents))
	strongest := strongestCategory(record.Breakdown)

	for _, agent := range agents {
		score := agentBaseScore
		factors := []string{"base fit"}

		if lead.Industry != nil && hasTag(agent.ExpertiseTags, *lead.Industry) {
			score += industryMatchScore
			factors = append(factors, "industry expertise: "+*lead.Industry)
		}
		if lead.Language != nil && hasTag(agent.Languages, *lead.Language) {
			score += languageMatchScore
			factors = append(factors, "speaks "+*lead.Language)
		}
		if perf, ok := agent.CategoryPerformance[strongest]; ok && perf > 0 {
			score += perf * performanceScale
			factors = append(factors, "strong history with "+string(strongest)+" leads")
		}
		if agent.Capacity > 0 && float64(agent.CurrentLoad) < availabilityCutoff*float64(agent.Capacity) {
			score += availabilityBonus
			factors = append(factors, "has capacity")
		}

		matches = append(matches, domain.AgentMatch{
			AgentID:   agent.ID,
			AgentName: agent.Name,
			Score:     score,
			Factors:   factors,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].AgentName < matches[j].AgentName
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// RevenueForecast estimates revenue from the company-size baseline scaled by
// the score. A known budget figure overrides the baseline with a
// conservative discount. The band is a fixed ±20% around the estimate.
func RevenueForecast(lead *domain.Lead, record domain.ScoreRecord) domain.RevenueForecast {
	var estimated float64
	if lead.Budget != nil && *lead.Budget > 0 {
		estimated = *lead.Budget * budgetDiscount
	} else {
		base := defaultBaseline
		if lead.CompanySize != nil {
			if b, ok := companySizeBaselines[*lead.CompanySize]; ok {
				base = b
			}
		}
		estimated = base * float64(record.Total) / scoreMidpoint
	}

	confidence := float64(record.Total) / 100
	if confidence < probabilityFloor {
		confidence = probabilityFloor
	}

	return domain.RevenueForecast{
		Estimated:  estimated,
		Low:        estimated * (1 - varianceBand),
		High:       estimated * (1 + varianceBand),
		Confidence: confidence,
	}
}

func strongestCategory(scores domain.CategoryScores) domain.Category {
	best := domain.CategoryDemographic
	bestScore := scores.Demographic
	for _, cat := range domain.Categories()[1:] {
		if s := scores.For(cat); s > bestScore {
			best = cat
			bestScore = s
		}
	}
	return best
}

func hasTag(tags []string, value string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, value) {
			return true
		}
	}
	return false
}
