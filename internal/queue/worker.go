package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

func (q *Queue) HandleRefreshPostsTask(ctx context.Context, task *asynq.Task) error {
	var payload RefreshPostsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	if payload.Silent {
		return q.st.RefreshSilently(ctx)
	}
	return q.st.Refresh(ctx)
}

// Register wires the queue's handlers into mux.
func (q *Queue) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskTypeRefreshPosts, q.HandleRefreshPostsTask)
}
