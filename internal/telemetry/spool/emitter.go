package spool

import (
	"context"

	"github.com/feedlens/feedlens/internal/metrics"
	"github.com/feedlens/feedlens/internal/telemetry"
)

// Emitter adapts the spool to the telemetry.Emitter interface so built
// events can be appended through the same delivery chain as other sinks.
type Emitter struct {
	Spool *Spool
}

func (e *Emitter) Emit(ctx context.Context, event *telemetry.Event) error {
	if e == nil || e.Spool == nil || event == nil {
		return nil
	}

	if err := e.Spool.Append(ctx, event); err != nil {
		return err
	}

	metrics.RecordEventEmitted(event.Name(), "spool")

	if pending, err := e.Spool.PendingCount(ctx); err == nil {
		metrics.SetSpoolPending(pending)
	}

	return nil
}
