package orchestrator

import (
	"sync"

	"github.com/taskorch/taskorch/internal/domain"
)

// Registry holds the set of registered agents and their declared
// dependency lists. Registration happens during bootstrap; afterwards the
// registry is read-only from the orchestrator's point of view.
//
// Iteration order is the order of first registration, so resolution is
// deterministic for a fixed bootstrap sequence.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]domain.Agent
	order  []string
}

// NewRegistry creates an empty agent registry.
func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[string]domain.Agent),
	}
}

// Register inserts or overwrites the agent under name. Dependencies are
// not validated here; they may reference names registered later and are
// checked by the resolver.
func (r *Registry) Register(name string, handler domain.Handler, dependencies []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[name]; !exists {
		r.order = append(r.order, name)
	}
	deps := make([]string, len(dependencies))
	copy(deps, dependencies)
	r.agents[name] = domain.Agent{
		Name:         name,
		Handler:      handler,
		Dependencies: deps,
	}
}

// Get returns the agent registered under name.
func (r *Registry) Get(name string) (domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, ok := r.agents[name]
	if !ok {
		return domain.Agent{}, ErrAgentNotFound
	}
	return agent, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.agents[name]
	return ok
}

// Names returns all registered names in first-registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Dependencies returns the declared dependency list for name, in
// declaration order. Unregistered names yield an empty list.
func (r *Registry) Dependencies(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, ok := r.agents[name]
	if !ok {
		return nil
	}
	deps := make([]string, len(agent.Dependencies))
	copy(deps, agent.Dependencies)
	return deps
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.agents)
}
