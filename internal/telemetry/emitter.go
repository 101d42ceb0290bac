package telemetry

import (
	"context"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/feedlens/feedlens/internal/metrics"
)

// Emitter delivers a finished event somewhere. The classification core never
// calls an emitter; commands and handlers do, after building the event.
type Emitter interface {
	Emit(ctx context.Context, event *Event) error
}

// LogEmitter writes events to a structured logger. Useful as a development
// sink and as the default when no spool is configured.
type LogEmitter struct {
	Logger *logging.Logger
}

// Emit logs the event with one zap field per property. A nil logger or nil
// event is a no-op.
func (e *LogEmitter) Emit(_ context.Context, event *Event) error {
	if e == nil || e.Logger == nil || event == nil {
		return nil
	}

	props := event.Properties()
	fields := make([]zap.Field, 0, len(props)+1)
	fields = append(fields, zap.String("event", event.Name()))
	for key, value := range props {
		fields = append(fields, zap.Any(key, value))
	}

	e.Logger.Info("Telemetry event", fields...)
	metrics.RecordEventEmitted(event.Name(), "log")
	return nil
}

// MultiEmitter fans an event out to several sinks. Every sink sees the
// event; the first error is returned after all sinks ran.
type MultiEmitter []Emitter

func (m MultiEmitter) Emit(ctx context.Context, event *Event) error {
	var firstErr error
	for _, emitter := range m {
		if emitter == nil {
			continue
		}
		if err := emitter.Emit(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
