package domain

import "time"

// EventType identifies the kind of orchestration event.
type EventType string

const (
	EventTypeRunStarted     EventType = "run.started"
	EventTypeRunCompleted   EventType = "run.completed"
	EventTypeAgentStarted   EventType = "agent.started"
	EventTypeAgentCompleted EventType = "agent.completed"
	EventTypeAgentFailed    EventType = "agent.failed"
	EventTypeStateReset     EventType = "state.reset"
)

// Event is published on the event bus for every orchestration step.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Agent     string         `json:"agent,omitempty"`
	RunID     string         `json:"run_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}
