package ports

import (
	"context"
	"time"

	"github.com/taskorch/taskorch/internal/domain"
)

// EventHandler processes one event delivered by the bus.
type EventHandler func(ctx context.Context, event domain.Event) error

// EventBus publishes and delivers orchestration events.
type EventBus interface {
	Publish(ctx context.Context, topic string, event domain.Event) error
	Subscribe(ctx context.Context, topic string, handler EventHandler) error
	Unsubscribe(ctx context.Context, topic string) error
	Close() error
}

// RecordArchive mirrors execution records to an external sink for
// observability. The in-memory tracker log remains the source of truth;
// archive failures never affect orchestration.
type RecordArchive interface {
	Append(ctx context.Context, record domain.ExecutionRecord) error
	Recent(ctx context.Context, n int64) ([]domain.ExecutionRecord, error)
	Clear(ctx context.Context) error
}

// Invoker runs a work unit off the caller's goroutine and blocks until
// it completes, returning its result or error.
type Invoker interface {
	Invoke(ctx context.Context, job func() (any, error)) (any, error)
}

// MetricsCollector records orchestration metrics.
type MetricsCollector interface {
	RecordRunStarted()
	RecordRunCompleted(status string, duration time.Duration)
	RecordAgentExecuted(status string, duration time.Duration)
	RecordRetry(agent string)
	RecordReset()
	RecordWorkerPoolStatus(idle, busy, stopped int)
	SetLogSize(size int)
}

// NopMetrics is a MetricsCollector that discards everything. Used in
// tests and as a default when no collector is wired.
type NopMetrics struct{}

func (NopMetrics) RecordRunStarted()                                   {}
func (NopMetrics) RecordRunCompleted(status string, d time.Duration)   {}
func (NopMetrics) RecordAgentExecuted(status string, d time.Duration)  {}
func (NopMetrics) RecordRetry(agent string)                            {}
func (NopMetrics) RecordReset()                                        {}
func (NopMetrics) RecordWorkerPoolStatus(idle, busy, stopped int)      {}
func (NopMetrics) SetLogSize(size int)                                 {}
