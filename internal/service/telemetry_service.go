package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/PUZZ-INC/puzzle/internal/events"
)

// EventWriter is the sink side of the telemetry relay.
type EventWriter interface {
	LogEvent(ctx context.Context, event events.Event) error
}

// TelemetryService forwards published account events to the analytics sink.
// Combined with the dispatcher contract, sink failures can never surface in
// the user-facing call that produced the event.
type TelemetryService struct {
	sink   EventWriter
	logger *zap.Logger
}

// NewTelemetryService constructs the relay.
func NewTelemetryService(sink EventWriter, logger *zap.Logger) *TelemetryService {
	return &TelemetryService{sink: sink, logger: logger}
}

// HandleEvent records one event, discarding the sink's advisory error.
func (t *TelemetryService) HandleEvent(ctx context.Context, event events.Event) error {
	if err := t.sink.LogEvent(ctx, event); err != nil {
		t.logger.Debug("telemetry write dropped",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return nil
}
