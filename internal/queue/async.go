package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/goinsights/goinsights/internal/config"
)

// AsyncQueue places jobs on a redis queue through asynq.
type AsyncQueue struct {
	client *asynq.Client
}

// RedisOpt converts the redis settings to asynq connection options.
func RedisOpt(cfg *config.Redis) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewAsyncQueue connects to redis and verifies the connection.
func NewAsyncQueue(cfg *config.Redis) (*AsyncQueue, error) {
	opt := RedisOpt(cfg)

	inspector := asynq.NewInspector(opt)
	defer inspector.Close()

	if _, err := inspector.Queues(); err != nil {
		return nil, errors.Wrap(err, "redis ping failed")
	}

	return &AsyncQueue{client: asynq.NewClient(opt)}, nil
}

// NewSyncTablesTask encodes a table sync job.
func NewSyncTablesTask(task *SyncTablesTask) (*asynq.Task, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskTypeSyncTables, payload, asynq.Queue(QueueName), asynq.MaxRetry(maxRetry)), nil
}

// Enqueue implements TaskQueue.
func (q *AsyncQueue) Enqueue(task *SyncTablesTask) error {
	t, err := NewSyncTablesTask(task)
	if err != nil {
		return err
	}

	info, err := q.client.Enqueue(t)
	if err != nil {
		return errors.Wrap(err, "enqueue table sync")
	}

	log.Debug().Str("task_id", info.ID).Str("queue", info.Queue).Str("data_source", task.DataSource).
		Msg("table sync enqueued")

	return nil
}

// IsAsync implements TaskQueue.
func (q *AsyncQueue) IsAsync() bool {
	return true
}

// Close implements TaskQueue.
func (q *AsyncQueue) Close() error {
	return q.client.Close()
}
