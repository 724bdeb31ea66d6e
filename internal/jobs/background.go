package jobs

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// Background runs detached fire-and-forget tasks. Callers get no handle to
// a spawned task; its outcome is only visible in the logs.
type Background struct {
	timeout time.Duration
	wg      sync.WaitGroup
	mu      sync.Mutex
	active  int
}

// NewBackground creates an executor whose tasks are bounded by timeout
func NewBackground(timeout time.Duration) *Background {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Background{timeout: timeout}
}

// Go runs fn on its own goroutine. The task context keeps the values of ctx
// (request id, trace span) but not its cancellation, so a finished request
// never aborts the task. A panic in fn is logged and swallowed.
func (b *Background) Go(ctx context.Context, name string, fn func(ctx context.Context)) {
	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)

	b.wg.Add(1)
	b.mu.Lock()
	b.active++
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		defer cancel()
		defer func() {
			b.mu.Lock()
			b.active--
			b.mu.Unlock()
		}()
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("background task panicked",
					slog.String("task", name),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()

		start := time.Now()
		fn(taskCtx)
		slog.Debug("background task finished",
			slog.String("task", name),
			slog.Duration("duration", time.Since(start)),
		)
	}()
}

// Active returns the number of tasks still running
func (b *Background) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Wait blocks until every spawned task has returned or ctx is done. It is a
// best-effort drain for shutdown and tests; the request path never calls it.
func (b *Background) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
