package notification

import (
	"context"
	"testing"

	"leadscore_backend/internal/events"
	"leadscore_backend/platform/logger"

	"github.com/google/uuid"
)

func TestHandleRoutesAllScoringEvents(t *testing.T) {
	m := NewModule(logger.New("test"))
	ctx := context.Background()

	cases := []events.Event{
		events.StageChanged{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    uuid.New(),
			FromStage: "new",
			ToStage:   "qualified",
			Score:     55,
		},
		events.ConfigUpdated{BaseEvent: events.NewBaseEvent(), Version: 2},
		events.BenchmarkRecomputed{BaseEvent: events.NewBaseEvent(), SampleSize: 10, Average: 61.5},
		events.RescoreCompleted{BaseEvent: events.NewBaseEvent(), Processed: 100, Failed: 2},
		events.RescoreCompleted{BaseEvent: events.NewBaseEvent(), Processed: 40, Cancelled: true},
	}
	for _, evt := range cases {
		if err := m.Handle(ctx, evt); err != nil {
			t.Fatalf("Handle(%s) returned error: %v", evt.EventName(), err)
		}
	}
}

func TestHandleIgnoresUnknownEvent(t *testing.T) {
	m := NewModule(logger.New("test"))

	if err := m.Handle(context.Background(), unknownEvent{BaseEvent: events.NewBaseEvent()}); err != nil {
		t.Fatalf("Handle(unknown) returned error: %v", err)
	}
}

type unknownEvent struct{ events.BaseEvent }

func (unknownEvent) EventName() string { return "scoring.test.unknown" }
