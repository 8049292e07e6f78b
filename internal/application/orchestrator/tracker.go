package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/taskorch/taskorch/internal/domain"
	"github.com/taskorch/taskorch/internal/ports"
	"go.uber.org/zap"
)

// Tracker keeps the append-only execution log and the latest-status map.
// Both live in memory for the lifetime of the process and are cleared
// only by Reset. When a record archive is configured, every appended
// record is mirrored to it in the background; the in-memory log stays
// the source of truth.
type Tracker struct {
	mu       sync.RWMutex
	records  []domain.ExecutionRecord
	statuses map[string]domain.AgentStatus

	archive ports.RecordArchive
	metrics ports.MetricsCollector
	logger  *zap.Logger
}

// NewTracker creates an empty tracker. archive may be nil.
func NewTracker(archive ports.RecordArchive, metrics ports.MetricsCollector, logger *zap.Logger) *Tracker {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Tracker{
		statuses: make(map[string]domain.AgentStatus),
		archive:  archive,
		metrics:  metrics,
		logger:   logger,
	}
}

// Append adds one record to the log.
func (t *Tracker) Append(record domain.ExecutionRecord) {
	t.mu.Lock()
	t.records = append(t.records, record)
	size := len(t.records)
	t.mu.Unlock()

	t.metrics.SetLogSize(size)

	if t.archive != nil {
		go func() {
			if err := t.archive.Append(context.Background(), record); err != nil {
				t.logger.Warn("failed to archive execution record",
					zap.String("agent", record.Agent),
					zap.Error(err))
			}
		}()
	}
}

// SetStatus upserts the latest status for an agent.
func (t *Tracker) SetStatus(name string, status domain.Status, detail any, lastRun time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.statuses[name] = domain.AgentStatus{
		Status:  status,
		Detail:  detail,
		LastRun: lastRun,
	}
}

// StatusOf returns the latest status for an agent. Agents with no
// recorded attempt report StatusNotRun.
func (t *Tracker) StatusOf(name string) domain.AgentStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if status, ok := t.statuses[name]; ok {
		return status
	}
	return domain.AgentStatus{Status: domain.StatusNotRun}
}

// Statuses returns a copy of the full status map.
func (t *Tracker) Statuses() map[string]domain.AgentStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]domain.AgentStatus, len(t.statuses))
	for name, status := range t.statuses {
		out[name] = status
	}
	return out
}

// Counts returns how many agents currently report success and failure.
func (t *Tracker) Counts() (succeeded, failed int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, status := range t.statuses {
		switch status.Status {
		case domain.StatusSuccess:
			succeeded++
		case domain.StatusFailed:
			failed++
		}
	}
	return succeeded, failed
}

// Len returns the current log length.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.records)
}

// Query returns one page of the log in insertion order, oldest first.
// Pages beyond the end of the log are empty, not an error.
func (t *Tracker) Query(limit, offset int) domain.LogPage {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	total := len(t.records)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	page := make([]domain.ExecutionRecord, end-start)
	copy(page, t.records[start:end])

	return domain.LogPage{
		TotalEntries: total,
		Returned:     len(page),
		Offset:       offset,
		Limit:        limit,
		Records:      page,
	}
}

// RecordsFor returns every record for one agent, oldest first.
func (t *Tracker) RecordsFor(name string) []domain.ExecutionRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []domain.ExecutionRecord
	for _, record := range t.records {
		if record.Agent == name {
			out = append(out, record)
		}
	}
	return out
}

// Tail returns the newest n records, oldest first.
func (t *Tracker) Tail(n int) []domain.ExecutionRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.records) {
		n = len(t.records)
	}
	out := make([]domain.ExecutionRecord, n)
	copy(out, t.records[len(t.records)-n:])
	return out
}

// LastRun returns the timestamp of the most recent attempt across all
// agents, or nil if nothing has run.
func (t *Tracker) LastRun() *time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var last *time.Time
	for _, status := range t.statuses {
		run := status.LastRun
		if last == nil || run.After(*last) {
			last = &run
		}
	}
	return last
}

// Reset clears the log and the status map and returns the pre-reset
// counts. The snapshot and the clear happen under one lock, so the
// returned counts always match what was discarded.
func (t *Tracker) Reset() (succeeded, failed, cleared int) {
	t.mu.Lock()
	succeeded, failed = 0, 0
	for _, status := range t.statuses {
		switch status.Status {
		case domain.StatusSuccess:
			succeeded++
		case domain.StatusFailed:
			failed++
		}
	}
	cleared = len(t.records)
	t.records = nil
	t.statuses = make(map[string]domain.AgentStatus)
	t.mu.Unlock()

	t.metrics.RecordReset()
	t.metrics.SetLogSize(0)

	if t.archive != nil {
		go func() {
			if err := t.archive.Clear(context.Background()); err != nil {
				t.logger.Warn("failed to clear record archive", zap.Error(err))
			}
		}()
	}

	return succeeded, failed, cleared
}
