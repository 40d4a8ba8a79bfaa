package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goinsights/goinsights/internal/config"
)

func TestLocalQueueRunsProcessor(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)

	q := NewLocalQueue(func(_ context.Context, task *SyncTablesTask) error {
		mu.Lock()
		defer mu.Unlock()

		seen = append(seen, task.DataSource)

		return nil
	})

	require.NoError(t, q.Enqueue(&SyncTablesTask{DataSource: "Shop"}))
	require.NoError(t, q.Enqueue(&SyncTablesTask{DataSource: "DWH"}))
	require.NoError(t, q.Close())

	assert.ElementsMatch(t, []string{"Shop", "DWH"}, seen)
	assert.False(t, q.IsAsync())
}

func TestLocalQueueSwallowsProcessorErrors(t *testing.T) {
	q := NewLocalQueue(func(context.Context, *SyncTablesTask) error {
		return errors.New("boom") //nolint:err113
	})

	require.NoError(t, q.Enqueue(&SyncTablesTask{DataSource: "Shop"}))
	q.Wait()
}

func TestLocalQueueWithoutProcessor(t *testing.T) {
	q := NewLocalQueue(nil)

	require.NoError(t, q.Enqueue(&SyncTablesTask{DataSource: "Shop"}))
	require.NoError(t, q.Close())
}

func TestNewFallsBackToLocal(t *testing.T) {
	q := New(&config.Redis{Enabled: false}, nil)
	assert.IsType(t, &LocalQueue{}, q)
}

func TestNewSyncTablesTask(t *testing.T) {
	task, err := NewSyncTablesTask(&SyncTablesTask{DataSource: "Shop"})
	require.NoError(t, err)

	assert.Equal(t, TaskTypeSyncTables, task.Type())

	var decoded SyncTablesTask
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, "Shop", decoded.DataSource)
}

func TestWorkerHandleSyncTables(t *testing.T) {
	var got string

	w := &Worker{processor: func(_ context.Context, task *SyncTablesTask) error {
		got = task.DataSource
		return nil
	}}

	task, err := NewSyncTablesTask(&SyncTablesTask{DataSource: "Shop"})
	require.NoError(t, err)

	require.NoError(t, w.HandleSyncTables(context.Background(), task))
	assert.Equal(t, "Shop", got)

	err = w.HandleSyncTables(context.Background(), asynq.NewTask(TaskTypeSyncTables, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
