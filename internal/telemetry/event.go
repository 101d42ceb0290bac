// Package telemetry builds the immutable event records shipped to the
// telemetry backend. Builders only convert values; they cannot fail.
package telemetry

import "encoding/json"

// Event is a named, immutable telemetry record: an event name plus a bag of
// scalar properties. Events are constructed once and handed to an Emitter;
// there is no mutation API and accessors return copies.
type Event struct {
	name       string
	properties map[string]any
}

// NewEvent builds an event from a property map. The map is copied so later
// changes by the caller cannot leak into the record.
func NewEvent(name string, properties map[string]any) *Event {
	props := make(map[string]any, len(properties))
	for key, value := range properties {
		props[key] = value
	}
	return &Event{name: name, properties: props}
}

// Name returns the event identifier.
func (e *Event) Name() string {
	if e == nil {
		return ""
	}
	return e.name
}

// Properties returns a copy of the property bag.
func (e *Event) Properties() map[string]any {
	if e == nil {
		return nil
	}
	props := make(map[string]any, len(e.properties))
	for key, value := range e.properties {
		props[key] = value
	}
	return props
}

// Property returns a single property value.
func (e *Event) Property(key string) (any, bool) {
	if e == nil {
		return nil, false
	}
	value, ok := e.properties[key]
	return value, ok
}

// eventJSON is the serialized form used by MarshalJSON and the spool.
type eventJSON struct {
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties"`
}

// MarshalJSON serializes the event as {"name": ..., "properties": {...}}.
func (e *Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{Name: e.Name(), Properties: e.Properties()})
}

// UnmarshalJSON restores an event serialized by MarshalJSON.
func (e *Event) UnmarshalJSON(data []byte) error {
	var decoded eventJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	e.name = decoded.Name
	e.properties = decoded.Properties
	if e.properties == nil {
		e.properties = map[string]any{}
	}
	return nil
}
