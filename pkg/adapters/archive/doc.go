// Package archive provides execution record archive implementations.
// The archive is an observability mirror of the in-memory execution
// log; the orchestrator never reads state back from it.
//
// Implementations:
//   - redis: capped Redis list with JSON serialization
//   - memory: in-memory for testing
package archive
