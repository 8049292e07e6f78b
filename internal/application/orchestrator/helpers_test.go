package orchestrator

import (
	"context"
	"time"

	"github.com/taskorch/taskorch/internal/domain"
	"github.com/taskorch/taskorch/internal/ports"
	"go.uber.org/zap"
)

// directInvoker runs the job on the caller's goroutine. It keeps engine
// tests independent of worker pool scheduling.
type directInvoker struct{}

func (directInvoker) Invoke(ctx context.Context, run func() (any, error)) (any, error) {
	return run()
}

func okHandler(result any) domain.Handler {
	return func() (any, error) { return result, nil }
}

func failHandler(err error) domain.Handler {
	return func() (any, error) { return nil, err }
}

func newTestTracker() *Tracker {
	return NewTracker(nil, ports.NopMetrics{}, zap.NewNop())
}

func newTestEngine(registry *Registry, tracker *Tracker) *Engine {
	return NewEngine(registry, tracker, directInvoker{}, nil, nil, zap.NewNop(), time.Millisecond)
}

func newTestManager(registry *Registry, tracker *Tracker, phases map[string][]string) *Manager {
	return NewManager(registry, tracker, directInvoker{}, nil, nil, phases, zap.NewNop(), time.Millisecond)
}
