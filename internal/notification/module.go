// Package notification turns scoring domain events into operator-facing
// notifications. The current sink is the structured log; external delivery
// channels plug in behind the same event handlers.
package notification

import (
	"context"

	"leadscore_backend/internal/events"
	"leadscore_backend/platform/logger"
)

// Module subscribes to scoring events and emits notification log entries.
type Module struct {
	log *logger.Logger
}

// NewModule creates the notification module.
func NewModule(log *logger.Logger) *Module {
	return &Module{log: log}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.StageChanged{}.EventName(), m)
	bus.Subscribe(events.ConfigUpdated{}.EventName(), m)
	bus.Subscribe(events.BenchmarkRecomputed{}.EventName(), m)
	bus.Subscribe(events.RescoreCompleted{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.StageChanged:
		return m.handleStageChanged(ctx, e)
	case events.ConfigUpdated:
		return m.handleConfigUpdated(ctx, e)
	case events.BenchmarkRecomputed:
		return m.handleBenchmarkRecomputed(ctx, e)
	case events.RescoreCompleted:
		return m.handleRescoreCompleted(ctx, e)
	default:
		m.log.Warn("notification module received unhandled event", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleStageChanged(ctx context.Context, e events.StageChanged) error {
	m.log.WithContext(ctx).StageChanged(e.LeadID.String(), e.FromStage, e.ToStage, e.Score)
	return nil
}

func (m *Module) handleConfigUpdated(ctx context.Context, e events.ConfigUpdated) error {
	m.log.WithContext(ctx).Info("scoring configuration activated", "version", e.Version)
	return nil
}

func (m *Module) handleBenchmarkRecomputed(ctx context.Context, e events.BenchmarkRecomputed) error {
	m.log.WithContext(ctx).Info("benchmark snapshot recomputed",
		"sample_size", e.SampleSize,
		"average", e.Average,
	)
	return nil
}

func (m *Module) handleRescoreCompleted(ctx context.Context, e events.RescoreCompleted) error {
	log := m.log.WithContext(ctx)
	if e.Cancelled {
		log.Warn("bulk rescore cancelled before completion",
			"processed", e.Processed,
			"failed", e.Failed,
		)
		return nil
	}
	log.Info("bulk rescore completed",
		"processed", e.Processed,
		"failed", e.Failed,
	)
	return nil
}
