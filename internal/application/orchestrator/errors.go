package orchestrator

import (
	"errors"
	"fmt"
)

// ErrAgentNotFound is returned when a named agent is not registered.
var ErrAgentNotFound = errors.New("agent not found")

// ErrPhaseNotFound is returned when a phase name has no definition.
var ErrPhaseNotFound = errors.New("phase not found")

// MissingDependencyError is a resolution failure: an agent declares a
// dependency that is not registered.
type MissingDependencyError struct {
	Agent   string
	Missing string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("dependency %s not found for agent %s", e.Missing, e.Agent)
}

// CircularDependencyError is a resolution failure naming the agent at
// which the cycle was detected.
type CircularDependencyError struct {
	Agent string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected at %s", e.Agent)
}

// ExecutionError wraps a failure raised by an agent's handler.
type ExecutionError struct {
	Agent string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("agent %s failed: %v", e.Agent, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
