package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
)

// TaskHandler executes one side-effect task.
type TaskHandler interface {
	HandleTask(ctx context.Context, task entity.Task) error
}

// FailureRecorder is told about every task that failed.
type FailureRecorder func(kind string)

type Worker struct {
	Channel   *amqp.Channel
	Handler   TaskHandler
	Logger    *zap.Logger
	OnFailure FailureRecorder
}

func NewWorker(ch *amqp.Channel, handler TaskHandler, logger *zap.Logger) *Worker {
	return &Worker{Channel: ch, Handler: handler, Logger: logger}
}

// Start consumes until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	if err := w.Channel.Qos(10, 0, false); err != nil {
		return err
	}

	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	w.Logger.Info("task worker consuming", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("task worker stopping")
			return nil
		case d, ok := <-msgs:
			if !ok {
				w.Logger.Warn("delivery channel closed")
				return nil
			}
			w.process(ctx, d.Body, d)
		}
	}
}

// Acknowledger is the part of amqp.Delivery the worker settles with.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (w *Worker) process(ctx context.Context, body []byte, ack Acknowledger) {
	var task entity.Task
	if err := json.Unmarshal(body, &task); err != nil {
		w.Logger.Error("malformed task, dead-lettering", zap.Error(err))
		ack.Nack(false, false)
		return
	}

	if err := w.Handler.HandleTask(ctx, task); err != nil {
		// Side effects are best-effort; failures go to the DLQ, never back
		// into the live queue.
		w.Logger.Error("task failed",
			zap.String("task_id", task.ID),
			zap.String("kind", task.Kind),
			zap.String("lead_id", task.LeadID),
			zap.Error(err),
		)
		if w.OnFailure != nil {
			w.OnFailure(task.Kind)
		}
		ack.Nack(false, false)
		return
	}

	ack.Ack(false)
}
