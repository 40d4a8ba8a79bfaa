// Package queue hands table sync jobs to a background worker.
package queue

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/goinsights/goinsights/internal/config"
)

const (
	// TaskTypeSyncTables is the asynq task type of a table sync job.
	TaskTypeSyncTables = "datasource:sync_tables"

	// QueueName is the asynq queue table sync jobs are placed on.
	QueueName = "default"

	maxRetry = 3
)

// SyncTablesTask asks the worker to refresh the table list of one data source.
type SyncTablesTask struct {
	DataSource string `json:"data_source"`
}

// Processor runs one table sync job.
type Processor func(ctx context.Context, task *SyncTablesTask) error

// TaskQueue accepts table sync jobs. Enqueue never waits for the job to run.
type TaskQueue interface {
	Enqueue(task *SyncTablesTask) error
	// IsAsync reports whether jobs leave the process (redis backed).
	IsAsync() bool
	Close() error
}

// New returns an asynq queue when redis is enabled and reachable, otherwise
// an in-process queue running jobs with processor.
func New(cfg *config.Redis, processor Processor) TaskQueue {
	if !cfg.Enabled {
		log.Info().Msg("redis disabled, table sync runs in-process")
		return NewLocalQueue(processor)
	}

	q, err := NewAsyncQueue(cfg)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis unavailable, table sync falls back to in-process")
		return NewLocalQueue(processor)
	}

	log.Info().Str("addr", cfg.Addr).Msg("table sync queue backed by redis")

	return q
}
