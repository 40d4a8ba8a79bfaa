package queue

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/goinsights/goinsights/internal/config"
)

const defaultConcurrency = 5

// Worker consumes table sync jobs from redis.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	processor Processor
	mu        sync.Mutex
	running   bool
}

// NewWorker creates a worker for the redis settings.
func NewWorker(cfg *config.Redis, processor Processor) *Worker {
	concurrency := cfg.Concurrency
	if concurrency == 0 {
		concurrency = defaultConcurrency
	}

	server := asynq.NewServer(RedisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueName: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			log.Error().Err(err).Str("task_type", task.Type()).Msg("task failed")
		}),
	})

	w := &Worker{
		server:    server,
		mux:       asynq.NewServeMux(),
		processor: processor,
	}
	w.mux.HandleFunc(TaskTypeSyncTables, w.HandleSyncTables)

	return w
}

// Start runs the worker in the background.
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	if err := w.server.Start(w.mux); err != nil {
		return errors.Wrap(err, "start task worker")
	}

	w.running = true

	log.Info().Msg("table sync worker started")

	return nil
}

// Stop waits for in-flight jobs and stops the worker.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	w.server.Shutdown()
	w.running = false

	log.Info().Msg("table sync worker stopped")
}

// HandleSyncTables decodes and runs a table sync task.
func (w *Worker) HandleSyncTables(ctx context.Context, t *asynq.Task) error {
	var task SyncTablesTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		// a malformed payload never succeeds on retry
		return errors.Wrapf(asynq.SkipRetry, "decode table sync task: %v", err)
	}

	if w.processor == nil {
		return nil
	}

	return w.processor(ctx, &task)
}
