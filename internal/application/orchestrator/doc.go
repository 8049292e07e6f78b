// Package orchestrator implements the dependency-aware agent
// orchestration core.
//
// It is built from four pieces composed by the Manager facade:
//   - Registry: the named agents and their declared dependencies
//   - Resolver: depth-first topological sort with cycle and
//     missing-dependency detection
//   - Engine: sequential execution in resolver order with per-agent
//     retry policy
//   - Tracker: the append-only execution log and latest-status map
//
// Batch execution never cascades failures: an agent whose dependency
// failed is still attempted, and its outcome is recorded independently.
package orchestrator
