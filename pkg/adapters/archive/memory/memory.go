package memory

import (
	"context"
	"sync"

	"github.com/taskorch/taskorch/internal/domain"
)

// InMemoryRecordArchive implements the record archive with a plain
// slice. This is for testing purposes only.
type InMemoryRecordArchive struct {
	mu      sync.RWMutex
	records []domain.ExecutionRecord
}

// NewInMemoryRecordArchive creates a new in-memory record archive.
func NewInMemoryRecordArchive() *InMemoryRecordArchive {
	return &InMemoryRecordArchive{}
}

// Append stores one record.
func (a *InMemoryRecordArchive) Append(ctx context.Context, record domain.ExecutionRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.records = append(a.records, record)
	return nil
}

// Recent returns the newest n records, oldest first.
func (a *InMemoryRecordArchive) Recent(ctx context.Context, n int64) ([]domain.ExecutionRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if n <= 0 || n > int64(len(a.records)) {
		n = int64(len(a.records))
	}
	out := make([]domain.ExecutionRecord, n)
	copy(out, a.records[int64(len(a.records))-n:])
	return out, nil
}

// Clear drops all stored records.
func (a *InMemoryRecordArchive) Clear(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.records = nil
	return nil
}

// Len returns the number of stored records.
func (a *InMemoryRecordArchive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.records)
}
