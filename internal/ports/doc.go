// Package ports declares the interfaces between the orchestration core
// and its adapters: event bus, record archive, worker invoker, and
// metrics collection. Adapters live under pkg/adapters.
package ports
