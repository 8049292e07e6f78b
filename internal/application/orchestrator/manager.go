package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/taskorch/taskorch/internal/domain"
	"github.com/taskorch/taskorch/internal/ports"
	"go.uber.org/zap"
)

// Manager is the orchestration facade: the single entry point composing
// registry, resolver, engine and tracker for the API layer. All state is
// owned by the Manager instance, never by the package, so tests can
// construct isolated managers.
//
// Batch operations (RunEverything, RunPhase) are serialized by an
// explicit run lock; two concurrent callers execute one after the other.
type Manager struct {
	registry *Registry
	resolver *Resolver
	engine   *Engine
	tracker  *Tracker
	phases   map[string][]string
	logger   *zap.Logger

	runMu sync.Mutex
}

// NewManager wires a manager from its collaborators. phases maps a phase
// name to the fixed list of agent names it executes; bus and metrics may
// be nil.
func NewManager(
	registry *Registry,
	tracker *Tracker,
	invoker ports.Invoker,
	bus ports.EventBus,
	metrics ports.MetricsCollector,
	phases map[string][]string,
	logger *zap.Logger,
	retryDelay time.Duration,
) *Manager {
	return &Manager{
		registry: registry,
		resolver: NewResolver(registry),
		engine:   NewEngine(registry, tracker, invoker, bus, metrics, logger, retryDelay),
		tracker:  tracker,
		phases:   phases,
		logger:   logger,
	}
}

// RunEverything executes all registered agents in dependency order.
// Resolution failures (missing dependency, cycle) propagate; per-agent
// failures are reported in the RunReport instead.
func (m *Manager) RunEverything(ctx context.Context, retryFailed bool, maxRetries int) (*domain.RunReport, error) {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	return m.engine.RunAll(ctx, retryFailed, maxRetries)
}

// RunOne executes a single agent by name. ErrAgentNotFound and
// *ExecutionError propagate to the caller.
func (m *Manager) RunOne(ctx context.Context, name string) (any, error) {
	return m.engine.RunAgent(ctx, name)
}

// RunPhase executes the fixed agent list defined for the named phase.
// Unknown phases return ErrPhaseNotFound; phase members missing from the
// registry are silently skipped.
func (m *Manager) RunPhase(ctx context.Context, phase string) (*domain.PhaseReport, error) {
	names, ok := m.phases[phase]
	if !ok {
		return nil, ErrPhaseNotFound
	}

	m.runMu.Lock()
	defer m.runMu.Unlock()

	results := m.engine.RunNamed(ctx, names)
	return &domain.PhaseReport{
		Phase:          phase,
		AgentsExecuted: len(results),
		Results:        results,
		Timestamp:      time.Now(),
	}, nil
}

// Phases returns the configured phase names.
func (m *Manager) Phases() []string {
	names := make([]string, 0, len(m.phases))
	for name := range m.phases {
		names = append(names, name)
	}
	return names
}

// Validate runs the resolver purely for its validation value: it reports
// every missing dependency and whether a cycle exists, executing nothing.
func (m *Manager) Validate() domain.ValidationReport {
	return m.resolver.Validate()
}

// Health classifies orchestrator health from the current status counts.
func (m *Manager) Health() domain.HealthReport {
	total := m.registry.Len()
	succeeded, failed := m.tracker.Counts()

	var status domain.HealthStatus
	switch {
	case failed == 0 && float64(succeeded) >= float64(total)*0.8:
		status = domain.HealthExcellent
	case float64(failed) < float64(total)*0.1 && float64(succeeded) >= float64(total)*0.6:
		status = domain.HealthGood
	case float64(failed) < float64(total)*0.2:
		status = domain.HealthFair
	default:
		status = domain.HealthPoor
	}

	percentage := 0.0
	if total > 0 {
		percentage = float64(succeeded) / float64(total) * 100
	}

	return domain.HealthReport{
		Status:            status,
		TotalAgents:       total,
		Successful:        succeeded,
		Failed:            failed,
		SuccessPercentage: percentage,
	}
}

// SystemStatus reports the coarse system health: healthy with no
// failures, degraded with any, critical when more than 30% of agents
// are failing.
func (m *Manager) SystemStatus() domain.SystemStatus {
	total := m.registry.Len()
	succeeded, failed := m.tracker.Counts()

	health := domain.SystemHealthy
	if failed > 0 {
		health = domain.SystemDegraded
	}
	if float64(failed) > float64(total)*0.3 {
		health = domain.SystemCritical
	}

	rate := 0.0
	if total > 0 {
		rate = float64(succeeded) / float64(total) * 100
	}

	return domain.SystemStatus{
		Health:        health,
		TotalAgents:   total,
		Successful:    succeeded,
		Failed:        failed,
		NotRun:        total - succeeded - failed,
		SuccessRate:   rate,
		LastExecution: m.tracker.LastRun(),
		TotalRecords:  m.tracker.Len(),
	}
}

// Dashboard returns the monitoring snapshot: counts, per-agent status
// details and the last 100 log entries.
func (m *Manager) Dashboard() domain.DashboardSummary {
	total := m.registry.Len()
	statuses := m.tracker.Statuses()
	succeeded, failed := m.tracker.Counts()

	return domain.DashboardSummary{
		TotalAgents:     total,
		Successful:      succeeded,
		Failed:          failed,
		NotRun:          total - len(statuses),
		Details:         statuses,
		RecentRecords:   m.tracker.Tail(100),
		TotalLogEntries: m.tracker.Len(),
	}
}

// ListAgents lists every registered agent with its dependencies and
// current status. ExecutionOrder is empty when the graph does not
// resolve; listing never fails.
func (m *Manager) ListAgents() domain.AgentList {
	names := m.registry.Names()

	agents := make([]domain.AgentInfo, 0, len(names))
	withDeps := 0
	for _, name := range names {
		deps := m.registry.Dependencies(name)
		if len(deps) > 0 {
			withDeps++
		}

		info := domain.AgentInfo{
			Name:         name,
			Dependencies: deps,
		}
		status := m.tracker.StatusOf(name)
		info.Status = status.Status
		if status.Status != domain.StatusNotRun {
			lastRun := status.LastRun
			info.LastRun = &lastRun
		}
		agents = append(agents, info)
	}

	order, err := m.resolver.Resolve()
	if err != nil {
		order = []string{}
	}

	return domain.AgentList{
		Agents:                 agents,
		TotalAgents:            len(agents),
		ExecutionOrder:         order,
		AgentsWithDependencies: withDeps,
	}
}

// AgentStatus returns the detailed view of one agent including its full
// execution history.
func (m *Manager) AgentStatus(name string) (*domain.AgentStatusReport, error) {
	if !m.registry.Has(name) {
		return nil, ErrAgentNotFound
	}

	report := &domain.AgentStatusReport{
		Agent:        name,
		Dependencies: m.registry.Dependencies(name),
	}

	status := m.tracker.StatusOf(name)
	report.CurrentStatus = status.Status
	if status.Status != domain.StatusNotRun {
		lastRun := status.LastRun
		report.LastRun = &lastRun
	}

	report.Records = m.tracker.RecordsFor(name)
	report.TotalExecutions = len(report.Records)

	return report, nil
}

// DependencyGraph reports, for every agent, its declared dependencies
// and the agents that depend on it. Derived on demand, never stored.
func (m *Manager) DependencyGraph() domain.DependencyGraph {
	names := m.registry.Names()

	graph := make(map[string]domain.GraphEntry, len(names))
	withDeps := 0
	withDependents := 0

	for _, name := range names {
		deps := m.registry.Dependencies(name)
		if len(deps) > 0 {
			withDeps++
		}

		dependents := make([]string, 0)
		for _, other := range names {
			for _, dep := range m.registry.Dependencies(other) {
				if dep == name {
					dependents = append(dependents, other)
					break
				}
			}
		}
		if len(dependents) > 0 {
			withDependents++
		}

		graph[name] = domain.GraphEntry{
			Dependencies: deps,
			Dependents:   dependents,
		}
	}

	return domain.DependencyGraph{
		Graph:                  graph,
		TotalAgents:            len(names),
		AgentsWithDependencies: withDeps,
		AgentsWithDependents:   withDependents,
	}
}

// ExecutionLog returns one page of the execution log.
func (m *Manager) ExecutionLog(limit, offset int) domain.LogPage {
	return m.tracker.Query(limit, offset)
}

// Reset clears the execution log and all statuses, returning the
// pre-reset counts for auditability.
func (m *Manager) Reset() domain.ResetReport {
	succeeded, failed, cleared := m.tracker.Reset()

	m.engine.publish(context.Background(), domain.Event{
		Type: domain.EventTypeStateReset,
		Data: map[string]any{"log_entries_cleared": cleared},
	})

	m.logger.Info("orchestrator state reset",
		zap.Int("log_entries_cleared", cleared),
		zap.Int("successful_agents", succeeded),
		zap.Int("failed_agents", failed))

	return domain.ResetReport{
		TotalAgents:       m.registry.Len(),
		Successful:        succeeded,
		Failed:            failed,
		LogEntriesCleared: cleared,
	}
}
