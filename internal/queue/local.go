package queue

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// LocalQueue runs every job in its own goroutine.
type LocalQueue struct {
	processor Processor
	wg        sync.WaitGroup
}

// NewLocalQueue creates an in-process queue. A nil processor drops jobs.
func NewLocalQueue(processor Processor) *LocalQueue {
	return &LocalQueue{processor: processor}
}

// Enqueue implements TaskQueue.
func (q *LocalQueue) Enqueue(task *SyncTablesTask) error {
	if q.processor == nil {
		log.Warn().Str("data_source", task.DataSource).Msg("no table sync processor, job dropped")
		return nil
	}

	q.wg.Add(1)

	go func() {
		defer q.wg.Done()

		if err := q.processor(context.Background(), task); err != nil {
			log.Error().Err(err).Str("data_source", task.DataSource).Msg("table sync failed")
		}
	}()

	return nil
}

// Wait blocks until every enqueued job has finished.
func (q *LocalQueue) Wait() {
	q.wg.Wait()
}

// IsAsync implements TaskQueue.
func (q *LocalQueue) IsAsync() bool {
	return false
}

// Close waits for running jobs.
func (q *LocalQueue) Close() error {
	q.Wait()
	return nil
}
