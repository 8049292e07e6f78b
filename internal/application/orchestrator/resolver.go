package orchestrator

import (
	"errors"

	"github.com/taskorch/taskorch/internal/domain"
)

// Resolver computes a dependency-respecting execution order over the
// registry using depth-first topological sort.
type Resolver struct {
	registry *Registry
}

// NewResolver creates a resolver over the given registry.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve returns one linear order of all registered agents such that
// every agent appears after all of its transitive dependencies.
//
// The visit uses temporary and permanent marks: re-entering a
// temporarily marked agent means a cycle, a dependency absent from the
// registry means a missing dependency. Either failure aborts the whole
// resolution; no partial order is ever returned. Roots are visited in
// registration order and dependencies in declaration order, so the
// output is deterministic for a fixed bootstrap sequence.
func (r *Resolver) Resolve() ([]string, error) {
	names := r.registry.Names()

	perm := make(map[string]bool, len(names))
	temp := make(map[string]bool)
	order := make([]string, 0, len(names))

	var visit func(name string) error
	visit = func(name string) error {
		if perm[name] {
			return nil
		}
		if temp[name] {
			return &CircularDependencyError{Agent: name}
		}

		temp[name] = true
		for _, dep := range r.registry.Dependencies(name) {
			if !r.registry.Has(dep) {
				return &MissingDependencyError{Agent: name, Missing: dep}
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		delete(temp, name)
		perm[name] = true

		// Post-order append: dependencies always precede dependents.
		order = append(order, name)
		return nil
	}

	for _, name := range names {
		if perm[name] {
			continue
		}
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// Validate checks the whole graph without executing anything. Unlike
// Resolve, it does not stop at the first problem: it collects every
// missing dependency and reports whether a cycle exists.
func (r *Resolver) Validate() domain.ValidationReport {
	issues := make([]domain.ValidationIssue, 0)

	for _, name := range r.registry.Names() {
		for _, dep := range r.registry.Dependencies(name) {
			if !r.registry.Has(dep) {
				issues = append(issues, domain.ValidationIssue{
					Type:    domain.IssueMissingDependency,
					Agent:   name,
					Missing: dep,
				})
			}
		}
	}

	circular := false
	if _, err := r.Resolve(); err != nil {
		var cycleErr *CircularDependencyError
		if errors.As(err, &cycleErr) {
			circular = true
			issues = append(issues, domain.ValidationIssue{
				Type:  domain.IssueCircularDependency,
				Agent: cycleErr.Agent,
				Error: cycleErr.Error(),
			})
		}
	}

	return domain.ValidationReport{
		Passed:               len(issues) == 0,
		Issues:               issues,
		TotalIssues:          len(issues),
		CircularDependencies: circular,
	}
}
