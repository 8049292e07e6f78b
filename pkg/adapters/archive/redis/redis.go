package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/taskorch/taskorch/internal/domain"
	"go.uber.org/zap"
)

const recordsKey = "taskorch:records"

// RecordArchive mirrors execution records into a capped Redis list so
// external tooling can tail the orchestrator's history.
type RecordArchive struct {
	client  *redis.Client
	logger  *zap.Logger
	maxSize int64
}

// NewRecordArchive creates a Redis record archive keeping at most
// maxSize records.
func NewRecordArchive(client *redis.Client, maxSize int64, logger *zap.Logger) *RecordArchive {
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &RecordArchive{
		client:  client,
		logger:  logger,
		maxSize: maxSize,
	}
}

// Append pushes one record onto the archive list and trims it to the
// configured size.
func (a *RecordArchive) Append(ctx context.Context, record domain.ExecutionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	pipe := a.client.TxPipeline()
	pipe.RPush(ctx, recordsKey, data)
	pipe.LTrim(ctx, recordsKey, -a.maxSize, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}

	a.logger.Debug("record archived",
		zap.String("agent", record.Agent),
		zap.Bool("success", record.Success))

	return nil
}

// Recent returns the newest n archived records, oldest first.
func (a *RecordArchive) Recent(ctx context.Context, n int64) ([]domain.ExecutionRecord, error) {
	if n <= 0 {
		n = 100
	}

	entries, err := a.client.LRange(ctx, recordsKey, -n, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	records := make([]domain.ExecutionRecord, 0, len(entries))
	for _, entry := range entries {
		var record domain.ExecutionRecord
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			a.logger.Warn("skipping malformed archived record", zap.Error(err))
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// Clear deletes the archive list.
func (a *RecordArchive) Clear(ctx context.Context) error {
	if err := a.client.Del(ctx, recordsKey).Err(); err != nil {
		return fmt.Errorf("failed to clear archive: %w", err)
	}

	a.logger.Debug("record archive cleared")
	return nil
}
