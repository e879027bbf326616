package queue

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
)

// InlineDispatcher runs tasks in-process when no broker is configured.
// Each task runs once in its own goroutine; a failure is logged and
// recorded, never retried, same as a dead-lettered broker delivery.
type InlineDispatcher struct {
	Handler   TaskHandler
	Logger    *zap.Logger
	Timeout   time.Duration
	OnFailure FailureRecorder

	wg sync.WaitGroup
}

func NewInlineDispatcher(handler TaskHandler, logger *zap.Logger) *InlineDispatcher {
	return &InlineDispatcher{
		Handler: handler,
		Logger:  logger,
		Timeout: 30 * time.Second,
	}
}

func (d *InlineDispatcher) Enqueue(_ context.Context, task entity.Task) error {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(task)
	}()
	return nil
}

// Wait blocks until every dispatched task has finished.
func (d *InlineDispatcher) Wait() {
	d.wg.Wait()
}

func (d *InlineDispatcher) run(task entity.Task) {
	// Detached from the request: the HTTP response may already be gone.
	ctx, cancel := context.WithTimeout(context.Background(), d.Timeout)
	defer cancel()

	if err := d.Handler.HandleTask(ctx, task); err != nil {
		d.Logger.Error("inline task failed",
			zap.String("task_id", task.ID),
			zap.String("kind", task.Kind),
			zap.String("lead_id", task.LeadID),
			zap.Error(err),
		)
		if d.OnFailure != nil {
			d.OnFailure(task.Kind)
		}
	}
}
