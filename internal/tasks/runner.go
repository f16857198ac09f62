package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Result describes one finished task.
type Result struct {
	ID       string
	Name     string
	Err      error
	Duration time.Duration
}

// Observer is notified after every task finishes, on the task's goroutine.
type Observer func(Result)

// Runner executes outbound work in the background so webhook responses never wait on it.
// Tasks outlive the request that scheduled them; only the per-task timeout cancels them.
type Runner struct {
	logger   zerolog.Logger
	timeout  time.Duration
	observer Observer

	wg sync.WaitGroup
}

func NewRunner(logger zerolog.Logger, timeout time.Duration, observer Observer) *Runner {
	return &Runner{
		logger:   logger,
		timeout:  timeout,
		observer: observer,
	}
}

// Go schedules fn and returns immediately with the task id.
func (r *Runner) Go(ctx context.Context, name string, fn func(ctx context.Context) error) string {
	id := uuid.NewString()

	base := zerolog.Ctx(ctx)
	if base.GetLevel() == zerolog.Disabled {
		base = &r.logger
	}
	logger := base.With().Str("task_id", id).Str("task", name).Logger()
	taskCtx := logger.WithContext(context.WithoutCancel(ctx))

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		if r.timeout > 0 {
			var cancel context.CancelFunc
			taskCtx, cancel = context.WithTimeout(taskCtx, r.timeout)
			defer cancel()
		}

		start := time.Now()
		err := run(taskCtx, fn)
		res := Result{ID: id, Name: name, Err: err, Duration: time.Since(start)}

		if err != nil {
			logger.Error().Err(err).Dur("duration", res.Duration).Msg("task failed")
		} else {
			logger.Debug().Dur("duration", res.Duration).Msg("task completed")
		}

		if r.observer != nil {
			r.observer(res)
		}
	}()
	return id
}

// Wait blocks until every scheduled task has finished or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for tasks: %w", ctx.Err())
	}
}

func run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task panicked: %v", p)
		}
	}()
	return fn(ctx)
}
