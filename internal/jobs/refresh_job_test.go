package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type blockingRefresher struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (b *blockingRefresher) RefreshSilently(ctx context.Context) error {
	b.calls.Add(1)
	if b.release != nil {
		<-b.release
	}
	return b.err
}

func TestRefreshPostsSkipsOverlappingTicks(t *testing.T) {
	r := &blockingRefresher{release: make(chan struct{})}
	j := NewRefreshJob(r, time.Second)

	done := make(chan struct{})
	go func() {
		j.RefreshPosts()
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for r.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first refresh never started")
		}
		time.Sleep(time.Millisecond)
	}

	j.RefreshPosts()
	if got := r.calls.Load(); got != 1 {
		t.Errorf("expected overlapping tick to be skipped, got %d calls", got)
	}

	close(r.release)
	<-done

	j.RefreshPosts()
	if got := r.calls.Load(); got != 2 {
		t.Errorf("expected a later tick to run, got %d calls", got)
	}
}

func TestRefreshPostsSwallowsErrors(t *testing.T) {
	r := &blockingRefresher{err: errors.New("offline")}
	NewRefreshJob(r, 0).RefreshPosts()
	if r.calls.Load() != 1 {
		t.Error("expected one refresh attempt")
	}
}

func TestStartRejectsBadSpec(t *testing.T) {
	if _, err := Start("every now and then", NewRefreshJob(&blockingRefresher{}, time.Second)); err == nil {
		t.Error("expected invalid schedule error")
	}

	c, err := Start("@every 1h", NewRefreshJob(&blockingRefresher{}, time.Second))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	c.Stop()
}
