package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskorch/taskorch/internal/domain"
	"github.com/taskorch/taskorch/internal/ports"
	"go.uber.org/zap"
)

// Event bus topics used by the engine.
const (
	TopicAgentEvents = "agent.events"
	TopicRunEvents   = "run.events"
)

// Engine executes agents in resolver order, one at a time. Each handler
// invocation is offloaded to the invoker (worker pool) and awaited
// before the engine advances, so a batch never reorders or overlaps
// agents. There is no per-agent timeout: a hung handler hangs the batch.
type Engine struct {
	registry *Registry
	resolver *Resolver
	tracker  *Tracker
	invoker  ports.Invoker
	bus      ports.EventBus
	metrics  ports.MetricsCollector
	logger   *zap.Logger

	// Fixed delay between retry attempts within RunAll.
	retryDelay time.Duration
}

// NewEngine creates an execution engine. bus may be nil when no event
// streaming is wired.
func NewEngine(
	registry *Registry,
	tracker *Tracker,
	invoker ports.Invoker,
	bus ports.EventBus,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
	retryDelay time.Duration,
) *Engine {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return &Engine{
		registry:   registry,
		resolver:   NewResolver(registry),
		tracker:    tracker,
		invoker:    invoker,
		bus:        bus,
		metrics:    metrics,
		logger:     logger,
		retryDelay: retryDelay,
	}
}

// RunAgent executes a single agent: one attempt, no retries. The attempt
// is recorded in the tracker whatever its outcome. A handler failure is
// returned wrapped as *ExecutionError; an unknown name returns
// ErrAgentNotFound without recording anything.
func (e *Engine) RunAgent(ctx context.Context, name string) (any, error) {
	return e.runAgent(ctx, name, "")
}

func (e *Engine) runAgent(ctx context.Context, name, runID string) (any, error) {
	agent, err := e.registry.Get(name)
	if err != nil {
		return nil, err
	}

	e.publish(ctx, domain.Event{
		Type:  domain.EventTypeAgentStarted,
		Agent: name,
		RunID: runID,
	})

	start := time.Now()
	result, err := e.invoker.Invoke(ctx, agent.Handler)
	duration := time.Since(start)
	now := time.Now()

	if err != nil {
		e.tracker.Append(domain.ExecutionRecord{
			Agent:     name,
			Success:   false,
			Message:   err.Error(),
			Timestamp: now,
		})
		e.tracker.SetStatus(name, domain.StatusFailed, err.Error(), now)
		e.metrics.RecordAgentExecuted(string(domain.StatusFailed), duration)
		e.publish(ctx, domain.Event{
			Type:  domain.EventTypeAgentFailed,
			Agent: name,
			RunID: runID,
			Data:  map[string]any{"error": err.Error()},
		})
		e.logger.Warn("agent execution failed",
			zap.String("agent", name),
			zap.Duration("duration", duration),
			zap.Error(err))
		return nil, &ExecutionError{Agent: name, Err: err}
	}

	e.tracker.Append(domain.ExecutionRecord{
		Agent:     name,
		Success:   true,
		Message:   "executed successfully",
		Timestamp: now,
	})
	e.tracker.SetStatus(name, domain.StatusSuccess, result, now)
	e.metrics.RecordAgentExecuted(string(domain.StatusSuccess), duration)
	e.publish(ctx, domain.Event{
		Type:  domain.EventTypeAgentCompleted,
		Agent: name,
		RunID: runID,
	})
	e.logger.Info("agent executed",
		zap.String("agent", name),
		zap.Duration("duration", duration))

	return result, nil
}

// RunAll executes every registered agent in dependency order. The order
// is resolved first; a resolution failure aborts the whole call before
// anything runs. Per-agent failures never abort the batch: each agent is
// retried up to maxRetries attempts (when retryFailed is set) and then
// recorded as failed, and execution moves to the next agent in order —
// dependents of a failed agent are still attempted.
func (e *Engine) RunAll(ctx context.Context, retryFailed bool, maxRetries int) (*domain.RunReport, error) {
	order, err := e.resolver.Resolve()
	if err != nil {
		e.logger.Error("graph resolution failed", zap.Error(err))
		return nil, err
	}

	runID := uuid.New().String()
	start := time.Now()
	e.metrics.RecordRunStarted()
	e.publish(ctx, domain.Event{
		Type:  domain.EventTypeRunStarted,
		RunID: runID,
		Data:  map[string]any{"agents": len(order)},
	})
	e.logger.Info("run started",
		zap.String("run_id", runID),
		zap.Int("agents", len(order)),
		zap.Bool("retry_failed", retryFailed),
		zap.Int("max_retries", maxRetries))

	results := make([]domain.AgentOutcome, 0, len(order))
	for _, name := range order {
		results = append(results, e.attempt(ctx, name, runID, retryFailed, maxRetries))
	}

	successful := 0
	for _, outcome := range results {
		if outcome.Success {
			successful++
		}
	}
	failed := len(results) - successful

	rate := 0.0
	if total := e.registry.Len(); total > 0 {
		rate = float64(successful) / float64(total) * 100
	}

	report := &domain.RunReport{
		RunID:       runID,
		Results:     results,
		TotalAgents: e.registry.Len(),
		Successful:  successful,
		Failed:      failed,
		SuccessRate: rate,
		Timestamp:   time.Now(),
	}

	status := string(domain.StatusSuccess)
	if failed > 0 {
		status = string(domain.StatusFailed)
	}
	e.metrics.RecordRunCompleted(status, time.Since(start))
	e.publish(ctx, domain.Event{
		Type:  domain.EventTypeRunCompleted,
		RunID: runID,
		Data: map[string]any{
			"successful": successful,
			"failed":     failed,
		},
	})
	e.logger.Info("run completed",
		zap.String("run_id", runID),
		zap.Int("successful", successful),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)))

	return report, nil
}

// attempt runs one agent with the batch retry policy: at most maxRetries
// attempts, each recorded individually, with a fixed delay between them.
// retryFailed=false stops after the first failure.
func (e *Engine) attempt(ctx context.Context, name, runID string, retryFailed bool, maxRetries int) domain.AgentOutcome {
	if maxRetries < 1 {
		maxRetries = 1
	}

	retries := 0
	for {
		result, err := e.runAgent(ctx, name, runID)
		if err == nil {
			return domain.AgentOutcome{
				Agent:   name,
				Success: true,
				Result:  result,
				Retries: retries,
			}
		}

		retries++
		if retries >= maxRetries || !retryFailed {
			return domain.AgentOutcome{
				Agent:   name,
				Success: false,
				Error:   err.Error(),
				Retries: retries,
			}
		}

		e.metrics.RecordRetry(name)
		e.logger.Info("retrying agent",
			zap.String("agent", name),
			zap.String("run_id", runID),
			zap.Int("attempt", retries+1),
			zap.Int("max_retries", maxRetries))
		time.Sleep(e.retryDelay)
	}
}

// RunNamed executes the given names in the given order, one attempt
// each. Names absent from the registry are silently skipped; per-agent
// failures are collected, never propagated.
func (e *Engine) RunNamed(ctx context.Context, names []string) []domain.AgentOutcome {
	results := make([]domain.AgentOutcome, 0, len(names))

	for _, name := range names {
		if !e.registry.Has(name) {
			continue
		}

		result, err := e.RunAgent(ctx, name)
		if err != nil {
			results = append(results, domain.AgentOutcome{
				Agent:   name,
				Success: false,
				Error:   err.Error(),
			})
			continue
		}
		results = append(results, domain.AgentOutcome{
			Agent:   name,
			Success: true,
			Result:  result,
		})
	}

	return results
}

func (e *Engine) publish(ctx context.Context, event domain.Event) {
	if e.bus == nil {
		return
	}

	event.ID = uuid.New().String()
	event.Timestamp = time.Now()

	topic := TopicAgentEvents
	if event.Agent == "" {
		topic = TopicRunEvents
	}

	if err := e.bus.Publish(ctx, topic, event); err != nil {
		e.logger.Warn("failed to publish event",
			zap.String("type", string(event.Type)),
			zap.String("topic", topic),
			zap.Error(err))
	}
}
