package server

import "github.com/tailored-agentic-units/statewire/observability"

// Server event types.
const (
	EventStart observability.EventType = "server.start"
	EventStop  observability.EventType = "server.stop"
	EventError observability.EventType = "server.error"
)
