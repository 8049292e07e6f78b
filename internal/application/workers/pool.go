package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/taskorch/taskorch/internal/ports"
	"go.uber.org/zap"
)

// Pool manages a fixed set of worker goroutines that run agent handlers
// on behalf of the execution engine. The engine submits one job and
// blocks until it completes, so the pool gives offload, not concurrency
// within a batch: a slow handler never stalls goroutines hosting the
// API layer, but completion is always awaited before the engine
// advances.
type Pool struct {
	size    int
	metrics ports.MetricsCollector
	logger  *zap.Logger
	health  *HealthMonitor

	jobs    chan *job
	workers []*worker
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

type job struct {
	ctx  context.Context
	run  func() (any, error)
	done chan jobResult
}

type jobResult struct {
	value any
	err   error
}

// worker is a single pool goroutine.
type worker struct {
	id      string
	pool    *Pool
	status  WorkerStatus
	mu      sync.RWMutex
	lastJob time.Time
}

// WorkerStatus represents worker status.
type WorkerStatus string

const (
	WorkerStatusIdle    WorkerStatus = "idle"
	WorkerStatusBusy    WorkerStatus = "busy"
	WorkerStatusStopped WorkerStatus = "stopped"
)

// NewPool creates a worker pool of the given size.
func NewPool(size int, metrics ports.MetricsCollector, logger *zap.Logger, healthCheckInterval time.Duration) *Pool {
	if size < 1 {
		size = 1
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	pool := &Pool{
		size:    size,
		metrics: metrics,
		logger:  logger,
		jobs:    make(chan *job),
		workers: make([]*worker, size),
		ctx:     ctx,
		cancel:  cancel,
	}

	pool.health = NewHealthMonitor(pool, healthCheckInterval, logger)

	return pool
}

// Start starts the worker goroutines and the health monitor.
func (p *Pool) Start() error {
	p.logger.Info("starting worker pool", zap.Int("size", p.size))

	for i := 0; i < p.size; i++ {
		w := &worker{
			id:      fmt.Sprintf("worker-%d", i),
			pool:    p,
			status:  WorkerStatusIdle,
			lastJob: time.Now(),
		}
		p.workers[i] = w

		p.wg.Add(1)
		go w.run(p.ctx)
	}

	p.health.Start()

	p.logger.Info("worker pool started", zap.Int("workers", p.size))
	return nil
}

// Invoke submits a job and blocks until a worker has run it to
// completion, returning the job's result or error. It implements
// ports.Invoker.
func (p *Pool) Invoke(ctx context.Context, run func() (any, error)) (any, error) {
	j := &job{
		ctx:  ctx,
		run:  run,
		done: make(chan jobResult, 1),
	}

	select {
	case p.jobs <- j:
	case <-p.ctx.Done():
		return nil, fmt.Errorf("worker pool is shut down")
	}

	res := <-j.done
	return res.value, res.err
}

// Shutdown gracefully shuts down the worker pool, waiting for in-flight
// jobs up to the context deadline.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.logger.Info("shutting down worker pool")

	p.health.Stop()
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool shut down complete")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout")
	}
}

// GetStatus returns the status of all workers.
func (p *Pool) GetStatus() map[string]WorkerStatus {
	status := make(map[string]WorkerStatus)
	for _, w := range p.workers {
		w.mu.RLock()
		status[w.id] = w.status
		w.mu.RUnlock()
	}
	return status
}

// run is the main worker loop.
func (w *worker) run(ctx context.Context) {
	defer w.pool.wg.Done()

	w.pool.logger.Info("worker started", zap.String("worker_id", w.id))

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.status = WorkerStatusStopped
			w.mu.Unlock()
			w.pool.logger.Info("worker stopped", zap.String("worker_id", w.id))
			return

		case j := <-w.pool.jobs:
			w.mu.Lock()
			w.status = WorkerStatusBusy
			w.lastJob = time.Now()
			w.mu.Unlock()

			j.done <- w.execute(j)

			w.mu.Lock()
			w.status = WorkerStatusIdle
			w.mu.Unlock()
		}
	}
}

// execute runs one job, converting a handler panic into an error so a
// misbehaving agent cannot take down the pool.
func (w *worker) execute(j *job) (res jobResult) {
	defer func() {
		if r := recover(); r != nil {
			w.pool.logger.Error("handler panicked",
				zap.String("worker_id", w.id),
				zap.Any("panic", r))
			res = jobResult{err: fmt.Errorf("handler panic: %v", r)}
		}
	}()

	value, err := j.run()
	return jobResult{value: value, err: err}
}
