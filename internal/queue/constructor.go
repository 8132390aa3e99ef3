package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// Concurrent refresh requests inside this window collapse into one task.
const refreshUniqueWindow = 5 * time.Second

// Enqueuer is the part of asynq.Client the dispatcher uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher hands post refreshes to the asynq worker instead of running
// them on the caller's goroutine.
type Dispatcher struct {
	client Enqueuer
}

func NewDispatcher(client Enqueuer) *Dispatcher {
	return &Dispatcher{client: client}
}

// Refresh enqueues an explicit refresh.
func (d *Dispatcher) Refresh(ctx context.Context) error {
	return EnqueueRefresh(ctx, d.client, RefreshPostsPayload{Silent: false})
}

func EnqueueRefresh(ctx context.Context, client Enqueuer, payload RefreshPostsPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeRefreshPosts, taskPayload)

	_, err = client.EnqueueContext(ctx, task, asynq.MaxRetry(0), asynq.Unique(refreshUniqueWindow))
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("Task enqueued: %s %+v", TaskTypeRefreshPosts, payload)
	return nil
}
