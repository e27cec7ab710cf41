// Package domain holds the core types of the scoring engine: leads as the
// engine sees them, score records, qualification stages, predictions and
// benchmarks. The engine never mutates a Lead; it is owned by the lead
// management collaborator and read here.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Factor categories. Every scoring factor belongs to exactly one.
type Category string

const (
	CategoryDemographic Category = "demographic"
	CategoryBehavioral  Category = "behavioral"
	CategorySource      Category = "source"
	CategoryIntent      Category = "intent"
)

// Categories lists all factor categories in their canonical order.
func Categories() []Category {
	return []Category{CategoryDemographic, CategoryBehavioral, CategorySource, CategoryIntent}
}

// Lead is the engine's read-only view of a prospect. Attribute fields are
// pointers: nil means the attribute was never captured and the factor's
// fallback applies. Missing data is an expected state, not an error.
type Lead struct {
	ID uuid.UUID

	// Contact profile
	Name    *string
	Email   *string
	Phone   *string
	Company *string

	// Demographic attributes
	AgeBracket   *string // e.g. "25_34", "35_44"
	Occupation   *string // e.g. "professional", "executive"
	LocationType *string // "urban", "suburban", "rural"
	CompanySize  *string // "solo", "small", "medium", "large", "enterprise"
	Industry     *string // free-form industry tag, used for agent matching
	Language     *string // preferred contact language, e.g. "en"

	// Behavioral attributes
	EngagementLevel    *string // "high", "medium", "low"
	ResponseSpeed      *string // "immediate", "same_day", "slow"
	VisitFrequency     *string // "frequent", "occasional", "rare"
	ContentInteraction *string // "downloads", "browsing", "none"

	// Source attributes
	Channel         *string // "referral", "organic", "paid", "cold"
	CampaignType    *string // "targeted", "broad", "remarketing"
	ReferrerQuality *string // "verified", "unverified"

	// Intent attributes
	PurchaseTimeline *string // "immediate", "quarter", "year", "undecided"
	BudgetStatus     *string // "confirmed", "estimated", "unknown"
	DecisionRole     *string // "decision_maker", "influencer", "researcher"
	Urgency          *string // "high", "medium", "low"

	// Flags
	IsReferral          bool
	IsReturningCustomer bool
	IsCompetitor        bool
	DoNotContact        bool

	// Optional numeric signals
	EstimatedValue       *float64
	Budget               *float64
	SpamScore            *float64 // 0..1 likelihood from upstream filtering
	FirstResponseMinutes *int

	AssignedAgentID *uuid.UUID
	CreatedAt       time.Time
}

// CategoryFactors maps each category to its declared factor names. The rule
// tables are keyed by these names; an attribute the lead never populated
// resolves to the factor's fallback.
var CategoryFactors = map[Category][]string{
	CategoryDemographic: {"age_bracket", "occupation", "location_type", "company_size"},
	CategoryBehavioral:  {"engagement_level", "response_speed", "visit_frequency", "content_interaction"},
	CategorySource:      {"channel", "campaign_type", "referrer_quality"},
	CategoryIntent:      {"purchase_timeline", "budget_status", "decision_role", "urgency"},
}

// FactorValue returns the lead's value for a named factor, and whether the
// attribute is populated. Unknown factor names report as absent.
func (l *Lead) FactorValue(factor string) (string, bool) {
	var v *string
	switch factor {
	case "age_bracket":
		v = l.AgeBracket
	case "occupation":
		v = l.Occupation
	case "location_type":
		v = l.LocationType
	case "company_size":
		v = l.CompanySize
	case "engagement_level":
		v = l.EngagementLevel
	case "response_speed":
		v = l.ResponseSpeed
	case "visit_frequency":
		v = l.VisitFrequency
	case "content_interaction":
		v = l.ContentInteraction
	case "channel":
		v = l.Channel
	case "campaign_type":
		v = l.CampaignType
	case "referrer_quality":
		v = l.ReferrerQuality
	case "purchase_timeline":
		v = l.PurchaseTimeline
	case "budget_status":
		v = l.BudgetStatus
	case "decision_role":
		v = l.DecisionRole
	case "urgency":
		v = l.Urgency
	}
	if v == nil || *v == "" {
		return "", false
	}
	return *v, true
}

// HasCompleteProfile reports whether all core contact fields are populated.
func (l *Lead) HasCompleteProfile() bool {
	for _, f := range []*string{l.Name, l.Email, l.Phone, l.Company} {
		if f == nil || *f == "" {
			return false
		}
	}
	return true
}

// HasContactChannel reports whether the lead can be reached at all.
func (l *Lead) HasContactChannel() bool {
	return (l.Email != nil && *l.Email != "") || (l.Phone != nil && *l.Phone != "")
}
