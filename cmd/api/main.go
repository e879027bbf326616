package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/app"
	"github.com/xavierca1/lead-intake/internal/config"
	"github.com/xavierca1/lead-intake/internal/infra/http/handlers"
	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
	"github.com/xavierca1/lead-intake/internal/infra/http/router"
	"github.com/xavierca1/lead-intake/internal/infra/integration/places"
	"github.com/xavierca1/lead-intake/internal/infra/worker"
	"github.com/xavierca1/lead-intake/internal/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel, cfg.LogFormat, "lead-intake-api")
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

	// In-process mode has no separate worker binary, so reminders are
	// scheduled here.
	if a.Inline != nil {
		go worker.NewReminderWorker(a.Reminders, cfg.ReminderInterval, logg).Start(ctx)
	}

	h := router.Handlers{
		Webhook:      handlers.NewWebhookHandler(a.Intake, cfg.ManyChat.WebhookSecret, logg),
		Lead:         handlers.NewLeadHandler(a.Intake, a.Claim, a.MarkLost, a.Assign, a.Manage, logg),
		Notification: handlers.NewNotificationHandler(a.Inbox, logg),
		Message:      handlers.NewMessageHandler(a.Messages, logg),
		Health:       handlers.NewHealthHandler(a.DB, brokerConn(a), a.Redis, version),
	}
	if cfg.Places.APIKey != "" {
		h.Places = handlers.NewPlacesHandler(places.NewClient(cfg.Places.BaseURL, cfg.Places.APIKey, logg), logg)
	}

	srv := &http.Server{
		Addr: ":" + cfg.ServerPort,
		Handler: router.New(h, router.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			Auth:           middleware.NewAuthenticator(cfg.JWTSecret),
			WebhookLimiter: middleware.NewRateLimiter(cfg.WebhookRateLimit, time.Minute, ctx.Done()),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info("http server listening", zap.String("addr", srv.Addr), zap.Bool("broker", a.Broker != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("graceful shutdown failed", zap.Error(err))
	}
}

func brokerConn(a *app.App) *amqp.Connection {
	if a.Broker == nil {
		return nil
	}
	return a.Broker.Conn
}
