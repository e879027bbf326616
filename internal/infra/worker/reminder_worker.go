package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ReminderDispatcher turns due follow-up reminders into notify tasks.
type ReminderDispatcher interface {
	DispatchDue(ctx context.Context, now time.Time) (int, error)
}

type ReminderWorker struct {
	dispatcher   ReminderDispatcher
	logger       *zap.Logger
	tickInterval time.Duration
	now          func() time.Time
}

func NewReminderWorker(dispatcher ReminderDispatcher, interval time.Duration, logger *zap.Logger) *ReminderWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReminderWorker{
		dispatcher:   dispatcher,
		logger:       logger,
		tickInterval: interval,
		now:          time.Now,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	w.logger.Info("reminder worker started", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.dispatch(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker stopped")
			return
		case <-ticker.C:
			w.dispatch(ctx)
		}
	}
}

func (w *ReminderWorker) dispatch(ctx context.Context) {
	n, err := w.dispatcher.DispatchDue(ctx, w.now().UTC())
	if err != nil {
		w.logger.Error("failed to dispatch due reminders", zap.Error(err))
		return
	}
	if n > 0 {
		w.logger.Info("reminders dispatched", zap.Int("count", n))
	}
}
