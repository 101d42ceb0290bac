package metrics

import (
	"strconv"

	"github.com/feedlens/feedlens/internal/observability"
)

// Application-level metrics following Prometheus conventions
var (
	// Classification metrics
	ClassificationsTotal = "app_classifications_total"

	// Telemetry event metrics
	EventsEmittedTotal = "app_telemetry_events_total"
	SpoolPendingEvents = "app_spool_pending_events"

	// Operations metrics
	OperationsErrorsTotal = "app_operations_errors_total"

	// Server lifecycle metrics
	ServerStartTime = "app_server_start_time_seconds"
)

// RecordClassification records a source classification pass with the number
// of sources it examined.
func RecordClassification(operation string, sourceCount int) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			ClassificationsTotal,
			1,
			map[string]string{
				"operation": operation,
				"sources":   strconv.Itoa(sourceCount),
			},
		)
	}
}

// RecordEventEmitted records a telemetry event delivered through an emitter.
func RecordEventEmitted(eventName string, sink string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			EventsEmittedTotal,
			1,
			map[string]string{
				"event": eventName,
				"sink":  sink,
			},
		)
	}
}

// SetSpoolPending sets the current number of unshipped spooled events.
func SetSpoolPending(count int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			SpoolPendingEvents,
			float64(count),
			nil,
		)
	}
}

// RecordOperationError records an application operation error.
func RecordOperationError(operation string, errorType string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			OperationsErrorsTotal,
			1,
			map[string]string{
				"operation":  operation,
				"error_type": errorType,
			},
		)
	}
}

// SetServerStartTime records the server start time (Unix timestamp).
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerStartTime,
			float64(timestamp),
			nil,
		)
	}
}
