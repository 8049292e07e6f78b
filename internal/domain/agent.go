package domain

import "time"

// Handler is the unit of work an agent performs. It takes no arguments
// and either returns a structured result or an error. The orchestrator
// never interprets the result.
type Handler func() (any, error)

// Agent is a registered work unit with its declared dependencies.
// Agents are registered once at bootstrap and never mutated afterwards.
type Agent struct {
	Name         string
	Handler      Handler
	Dependencies []string
}

// Status is the latest known outcome for an agent.
type Status string

const (
	StatusNotRun  Status = "not_run"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// ExecutionRecord is an immutable log entry for one execution attempt.
// Every attempt appends its own record, retries included.
type ExecutionRecord struct {
	Agent     string    `json:"agent"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// AgentStatus is the latest-outcome projection for a single agent,
// overwritten on every attempt.
type AgentStatus struct {
	Status  Status    `json:"status"`
	Detail  any       `json:"details"`
	LastRun time.Time `json:"last_run"`
}
