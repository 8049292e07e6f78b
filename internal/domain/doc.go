// Package domain defines the core types of the agent orchestrator:
// agents, execution records, status projections, events, and the
// structured reports returned by the orchestration facade.
package domain
