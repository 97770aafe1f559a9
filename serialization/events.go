package serialization

import "github.com/tailored-agentic-units/statewire/observability"

// Serializer event types.
const (
	EventDump  observability.EventType = "serialization.dump"
	EventLoad  observability.EventType = "serialization.load"
	EventError observability.EventType = "serialization.error"
)
