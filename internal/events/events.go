// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"leadscore_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Scoring Domain Events
// =============================================================================

// StageChanged is published when a lead's computed qualification stage
// differs from its previously recorded stage. It is emitted exactly once per
// transition, alongside the persisted StageTransition audit entry.
type StageChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	FromStage string    `json:"fromStage"`
	ToStage   string    `json:"toStage"`
	Score     int       `json:"score"`
}

func (e StageChanged) EventName() string { return "scoring.stage.changed" }

// ConfigUpdated is published after a new scoring configuration passes
// validation and becomes active.
type ConfigUpdated struct {
	BaseEvent
	Version int `json:"version"`
}

func (e ConfigUpdated) EventName() string { return "scoring.config.updated" }

// BenchmarkRecomputed is published when a fresh population benchmark
// snapshot has been computed.
type BenchmarkRecomputed struct {
	BaseEvent
	SampleSize int     `json:"sampleSize"`
	Average    float64 `json:"average"`
}

func (e BenchmarkRecomputed) EventName() string { return "scoring.benchmark.recomputed" }

// RescoreCompleted is published when a bulk rescore run finishes, whether it
// ran to completion or was cancelled partway.
type RescoreCompleted struct {
	BaseEvent
	Processed int  `json:"processed"`
	Failed    int  `json:"failed"`
	Cancelled bool `json:"cancelled"`
}

func (e RescoreCompleted) EventName() string { return "scoring.rescore.completed" }
