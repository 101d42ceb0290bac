package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/feedlens/feedlens/internal/core"
	"github.com/feedlens/feedlens/internal/core/classify"
	apperrors "github.com/feedlens/feedlens/internal/errors"
	"github.com/feedlens/feedlens/internal/metrics"
	"github.com/feedlens/feedlens/internal/server/middleware"
	"github.com/feedlens/feedlens/internal/telemetry"
	"github.com/google/uuid"
)

// SourceInput is one package source submitted for classification.
type SourceInput struct {
	Name            string `json:"name"`
	Location        string `json:"location"`
	Enabled         bool   `json:"enabled"`
	ProtocolVersion *int   `json:"protocol_version,omitempty"`
}

// ClassifyRequest is the body accepted by the classification endpoints.
// ParentID is optional; when absent the request ID is used if it is a valid
// UUID, otherwise a fresh one is generated.
type ClassifyRequest struct {
	ParentID string        `json:"parent_id,omitempty"`
	Sources  []SourceInput `json:"sources"`
}

// RestoreClassifyResponse carries the restore summary and the built event.
type RestoreClassifyResponse struct {
	Summary core.RestoreSummary `json:"summary"`
	Event   *telemetry.Event    `json:"event"`
}

// SearchClassifyResponse carries the search summary and the built event.
type SearchClassifyResponse struct {
	Summary core.SearchSummary `json:"summary"`
	Event   *telemetry.Event   `json:"event"`
}

// RestoreClassifyHandler classifies submitted sources for a restore operation
// and returns the summary together with the telemetry event it produces.
func RestoreClassifyHandler(w http.ResponseWriter, r *http.Request) {
	request, parentID, ok := decodeClassifyRequest(w, r)
	if !ok {
		return
	}

	descriptors := toDescriptors(request.Sources)
	summary := classify.ForRestore(descriptors)
	metrics.RecordClassification("restore", len(descriptors))

	event := telemetry.NewRestoreSourceSummaryEvent(parentID, summary)
	emitEvent(r, event)

	writeJSON(w, http.StatusOK, RestoreClassifyResponse{
		Summary: summary,
		Event:   event,
	})
}

// SearchClassifyHandler classifies submitted sources for a search operation
// and returns the summary together with the telemetry event it produces.
func SearchClassifyHandler(w http.ResponseWriter, r *http.Request) {
	request, parentID, ok := decodeClassifyRequest(w, r)
	if !ok {
		return
	}

	descriptors := toDescriptors(request.Sources)
	summary := classify.ForSearch(descriptors)
	metrics.RecordClassification("search", len(descriptors))

	event := telemetry.NewSearchSourceSummaryEvent(parentID, summary)
	emitEvent(r, event)

	writeJSON(w, http.StatusOK, SearchClassifyResponse{
		Summary: summary,
		Event:   event,
	})
}

func decodeClassifyRequest(w http.ResponseWriter, r *http.Request) (*ClassifyRequest, uuid.UUID, bool) {
	request := &ClassifyRequest{}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(request); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "Request body must be valid JSON"))
		return nil, uuid.Nil, false
	}

	parentID, err := resolveParentID(request.ParentID, middleware.GetRequestID(r.Context()))
	if err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "parent_id must be a valid UUID"))
		return nil, uuid.Nil, false
	}

	return request, parentID, true
}

// resolveParentID picks the parent operation ID: explicit value first, then
// the request ID when it parses as a UUID, then a fresh UUID.
func resolveParentID(explicit string, requestID string) (uuid.UUID, error) {
	if explicit != "" {
		return uuid.Parse(explicit)
	}

	if requestID != "" {
		if parsed, err := uuid.Parse(requestID); err == nil {
			return parsed, nil
		}
	}

	return uuid.New(), nil
}

func toDescriptors(sources []SourceInput) []core.SourceDescriptor {
	descriptors := make([]core.SourceDescriptor, 0, len(sources))
	for _, source := range sources {
		descriptors = append(descriptors, core.NewSourceDescriptor(
			source.Name,
			source.Location,
			source.Enabled,
			source.ProtocolVersion,
		))
	}
	return descriptors
}

// eventEmitter is injected by the server package so handlers deliver events
// through the configured sinks. A nil emitter means events are only returned.
var eventEmitter telemetry.Emitter

// SetEventEmitter wires the emitter used for events built by handlers.
func SetEventEmitter(emitter telemetry.Emitter) {
	eventEmitter = emitter
}

func emitEvent(r *http.Request, event *telemetry.Event) {
	if eventEmitter == nil {
		return
	}
	// Emission is fail-soft: a sink failure never fails the request
	_ = eventEmitter.Emit(r.Context(), event)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
