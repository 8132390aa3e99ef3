package queue

import "context"

const TaskTypeRefreshPosts = "posts:refresh"

type RefreshPostsPayload struct {
	Silent bool `json:"silent"`
}

// PostRefresher is what the worker drives.
type PostRefresher interface {
	Refresh(ctx context.Context) error
	RefreshSilently(ctx context.Context) error
}

type Queue struct {
	st PostRefresher
}

func NewQueue(st PostRefresher) *Queue {
	return &Queue{st: st}
}
