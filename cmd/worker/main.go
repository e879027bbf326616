package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/app"
	"github.com/xavierca1/lead-intake/internal/config"
	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
	"github.com/xavierca1/lead-intake/internal/infra/queue"
	"github.com/xavierca1/lead-intake/internal/infra/worker"
	"github.com/xavierca1/lead-intake/internal/logger"
)

// The worker consumes side-effect tasks from RabbitMQ and schedules
// follow-up reminders.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.RabbitMQURL == "" {
		log.Fatal("RABBITMQ_URL is required for the worker")
	}

	logg, err := logger.New(cfg.LogLevel, cfg.LogFormat, "lead-intake-worker")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logg)
	if err != nil {
		logg.Fatal("startup failed", zap.Error(err))
	}
	defer a.Close()

	go worker.NewReminderWorker(a.Reminders, cfg.ReminderInterval, logg).Start(ctx)

	consumer := queue.NewWorker(a.Broker.Ch, a.SideEffects, logg)
	consumer.OnFailure = middleware.RecordSideEffectFailure
	if err := consumer.Start(ctx, queue.QueueName); err != nil {
		logg.Error("consumer stopped", zap.Error(err))
	}
}
