package domain

import "time"

// AgentOutcome is the per-agent result of a batch execution.
type AgentOutcome struct {
	Agent   string `json:"agent"`
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
	Retries int    `json:"retries,omitempty"`
}

// RunReport aggregates a full-graph execution.
type RunReport struct {
	RunID       string         `json:"run_id"`
	Results     []AgentOutcome `json:"results"`
	TotalAgents int            `json:"total_agents"`
	Successful  int            `json:"successful"`
	Failed      int            `json:"failed"`
	SuccessRate float64        `json:"success_rate"`
	Timestamp   time.Time      `json:"timestamp"`
}

// PhaseReport aggregates the execution of a named phase.
type PhaseReport struct {
	Phase          string         `json:"phase"`
	AgentsExecuted int            `json:"agents_executed"`
	Results        []AgentOutcome `json:"results"`
	Timestamp      time.Time      `json:"timestamp"`
}

// AgentInfo describes one registered agent for listings.
type AgentInfo struct {
	Name         string     `json:"name"`
	Dependencies []string   `json:"dependencies"`
	Status       Status     `json:"status"`
	LastRun      *time.Time `json:"last_run,omitempty"`
}

// AgentList is the registry listing with the current execution order.
// ExecutionOrder is empty when the graph does not resolve.
type AgentList struct {
	Agents                 []AgentInfo `json:"agents"`
	TotalAgents            int         `json:"total_agents"`
	ExecutionOrder         []string    `json:"execution_order"`
	AgentsWithDependencies int         `json:"agents_with_dependencies"`
}

// GraphEntry holds both directions of the dependency relation for one agent.
type GraphEntry struct {
	Dependencies []string `json:"dependencies"`
	Dependents   []string `json:"dependents"`
}

// DependencyGraph is the derived read-only view of the whole graph.
type DependencyGraph struct {
	Graph                  map[string]GraphEntry `json:"dependency_graph"`
	TotalAgents            int                   `json:"total_agents"`
	AgentsWithDependencies int                   `json:"agents_with_dependencies"`
	AgentsWithDependents   int                   `json:"agents_with_dependents"`
}

// Validation issue types.
const (
	IssueMissingDependency  = "missing_dependency"
	IssueCircularDependency = "circular_dependency"
)

// ValidationIssue describes one problem found during graph validation.
type ValidationIssue struct {
	Type    string `json:"type"`
	Agent   string `json:"agent,omitempty"`
	Missing string `json:"missing_dependency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ValidationReport is the outcome of a side-effect-free graph validation.
type ValidationReport struct {
	Passed               bool              `json:"validation_passed"`
	Issues               []ValidationIssue `json:"issues"`
	TotalIssues          int               `json:"total_issues"`
	CircularDependencies bool              `json:"circular_dependencies_detected"`
}

// HealthStatus classifies overall orchestrator health.
type HealthStatus string

const (
	HealthExcellent HealthStatus = "EXCELLENT"
	HealthGood      HealthStatus = "GOOD"
	HealthFair      HealthStatus = "FAIR"
	HealthPoor      HealthStatus = "POOR"
)

// HealthReport is a pure function of the current status map.
type HealthReport struct {
	Status            HealthStatus `json:"health_status"`
	TotalAgents       int          `json:"total_agents"`
	Successful        int          `json:"successful_agents"`
	Failed            int          `json:"failed_agents"`
	SuccessPercentage float64      `json:"success_percentage"`
}

// System health values reported in SystemStatus.
const (
	SystemHealthy  = "healthy"
	SystemDegraded = "degraded"
	SystemCritical = "critical"
)

// SystemStatus is the coarse orchestration system status.
type SystemStatus struct {
	Health        string     `json:"system_health"`
	TotalAgents   int        `json:"total_agents"`
	Successful    int        `json:"successful_agents"`
	Failed        int        `json:"failed_agents"`
	NotRun        int        `json:"not_run_agents"`
	SuccessRate   float64    `json:"success_rate"`
	LastExecution *time.Time `json:"last_execution,omitempty"`
	TotalRecords  int        `json:"total_action_logs"`
}

// DashboardSummary is the monitoring snapshot served to dashboards.
type DashboardSummary struct {
	TotalAgents     int                    `json:"total_agents"`
	Successful      int                    `json:"successful_agents"`
	Failed          int                    `json:"failed_agents"`
	NotRun          int                    `json:"not_run"`
	Details         map[string]AgentStatus `json:"details"`
	RecentRecords   []ExecutionRecord      `json:"action_log"`
	TotalLogEntries int                    `json:"total_log_entries"`
}

// ResetReport is the pre-reset snapshot returned by a reset for audit.
type ResetReport struct {
	TotalAgents       int `json:"total_agents"`
	Successful        int `json:"successful_agents"`
	Failed            int `json:"failed_agents"`
	LogEntriesCleared int `json:"log_entries_cleared"`
}

// LogPage is one page of the execution log, oldest first.
type LogPage struct {
	TotalEntries int               `json:"total_entries"`
	Returned     int               `json:"returned"`
	Offset       int               `json:"offset"`
	Limit        int               `json:"limit"`
	Records      []ExecutionRecord `json:"logs"`
}

// AgentStatusReport is the detailed per-agent view with its history.
type AgentStatusReport struct {
	Agent           string            `json:"agent_name"`
	Dependencies    []string          `json:"dependencies"`
	CurrentStatus   Status            `json:"current_status"`
	LastRun         *time.Time        `json:"last_run,omitempty"`
	Records         []ExecutionRecord `json:"execution_logs"`
	TotalExecutions int               `json:"total_executions"`
}
