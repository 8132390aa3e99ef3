package job

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron"
)

// SilentRefresher reloads posts without user-visible loading state.
type SilentRefresher interface {
	RefreshSilently(ctx context.Context) error
}

type RefreshJob struct {
	st      SilentRefresher
	timeout time.Duration
	running atomic.Bool
}

func NewRefreshJob(st SilentRefresher, timeout time.Duration) *RefreshJob {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RefreshJob{st: st, timeout: timeout}
}

// RefreshPosts is the cron callback. A tick that lands while the previous
// refresh is still running is skipped.
func (j *RefreshJob) RefreshPosts() {
	if !j.running.CompareAndSwap(false, true) {
		slog.Debug("previous refresh still running, skipping tick")
		return
	}
	defer j.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.st.RefreshSilently(ctx); err != nil {
		slog.Info("background refresh failed", "error", err)
	}
}

// Start registers the job on a new cron runner and starts it. Stop the
// returned runner to tear the timer down.
func Start(spec string, j *RefreshJob) (*cron.Cron, error) {
	c := cron.New()
	if err := c.AddFunc(spec, j.RefreshPosts); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
