package worker

import (
	"go.uber.org/zap"

	"github.com/PUZZ-INC/puzzle/internal/events"
	"github.com/PUZZ-INC/puzzle/internal/service"
)

// StartTelemetryWorker wires the telemetry relay to every account event kind.
func StartTelemetryWorker(dispatcher events.Dispatcher, telemetry *service.TelemetryService, logger *zap.Logger) {
	for _, eventType := range events.AllEventTypes() {
		dispatcher.Subscribe(eventType, telemetry.HandleEvent)
	}
	logger.Info("telemetry worker subscribed", zap.Int("event_types", len(events.AllEventTypes())))
}
