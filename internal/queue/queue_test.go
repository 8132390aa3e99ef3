package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	if f.err != nil {
		return nil, f.err
	}
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

type fakeRefresher struct {
	explicit, silent int
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.explicit++
	return nil
}

func (f *fakeRefresher) RefreshSilently(ctx context.Context) error {
	f.silent++
	return nil
}

func TestDispatcherRefresh(t *testing.T) {
	client := &fakeEnqueuer{}
	if err := NewDispatcher(client).Refresh(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(client.tasks) != 1 || client.tasks[0].Type() != TaskTypeRefreshPosts {
		t.Fatalf("expected one refresh task, got %d", len(client.tasks))
	}

	var payload RefreshPostsPayload
	if err := json.Unmarshal(client.tasks[0].Payload(), &payload); err != nil || payload.Silent {
		t.Errorf("expected explicit refresh payload, got %+v (%v)", payload, err)
	}
}

func TestEnqueueRefreshDuplicate(t *testing.T) {
	client := &fakeEnqueuer{err: asynq.ErrDuplicateTask}
	if err := EnqueueRefresh(context.Background(), client, RefreshPostsPayload{}); err != nil {
		t.Errorf("expected duplicate to be ignored, got %v", err)
	}

	client = &fakeEnqueuer{err: errors.New("redis down")}
	if err := EnqueueRefresh(context.Background(), client, RefreshPostsPayload{}); err == nil {
		t.Error("expected enqueue error")
	}
}

func TestHandleRefreshPostsTask(t *testing.T) {
	st := &fakeRefresher{}
	q := NewQueue(st)

	silent, _ := json.Marshal(RefreshPostsPayload{Silent: true})
	if err := q.HandleRefreshPostsTask(context.Background(), asynq.NewTask(TaskTypeRefreshPosts, silent)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	explicit, _ := json.Marshal(RefreshPostsPayload{})
	q.HandleRefreshPostsTask(context.Background(), asynq.NewTask(TaskTypeRefreshPosts, explicit))

	if st.silent != 1 || st.explicit != 1 {
		t.Errorf("expected one of each refresh, got silent=%d explicit=%d", st.silent, st.explicit)
	}

	if err := q.HandleRefreshPostsTask(context.Background(), asynq.NewTask(TaskTypeRefreshPosts, []byte("{"))); err == nil {
		t.Error("expected malformed payload error")
	}
}
