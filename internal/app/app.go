package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/config"
	"github.com/xavierca1/lead-intake/internal/infra/cache"
	"github.com/xavierca1/lead-intake/internal/infra/database"
	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
	"github.com/xavierca1/lead-intake/internal/infra/integration/manychat"
	"github.com/xavierca1/lead-intake/internal/infra/integration/meta"
	"github.com/xavierca1/lead-intake/internal/infra/integration/trello"
	"github.com/xavierca1/lead-intake/internal/infra/mail"
	"github.com/xavierca1/lead-intake/internal/infra/queue"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

// App holds the shared dependencies of the api and worker binaries.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	DB     *sql.DB
	Redis  *redis.Client
	Broker *queue.RabbitMQ
	Inline *queue.InlineDispatcher

	Leads         *database.LeadRepository
	Agents        *database.AgentRepository
	Notifications *database.NotificationRepository
	Notes         *database.LeadNoteRepository

	Tasks       usecase.TaskQueue
	SideEffects *usecase.SideEffectRouter

	Intake    *usecase.IntakeLeadUseCase
	Assign    *usecase.AssignLeadUseCase
	Claim     *usecase.ClaimLeadUseCase
	MarkLost  *usecase.MarkLostUseCase
	Manage    *usecase.ManageLeadUseCase
	Inbox     *usecase.NotificationInboxUseCase
	Reminders *usecase.ReminderUseCase
	Messages  *usecase.SendMessageUseCase
}

// New connects to the database, Redis and (when configured) RabbitMQ and
// builds the use cases. Without RABBITMQ_URL, side effects run in-process.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	for _, w := range cfg.Warnings() {
		logger.Warn(w, zap.String("environment", cfg.Environment))
	}

	db, err := database.NewDBConnection(cfg.Database.URL, database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	a.DB = db

	if err := database.Migrate(ctx, db); err != nil {
		a.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	rdb, err := cache.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	a.Redis = rdb

	a.Leads = database.NewLeadRepository(db)
	a.Agents = database.NewAgentRepository(db)
	a.Notifications = database.NewNotificationRepository(db)
	a.Notes = database.NewLeadNoteRepository(db)

	var emailService usecase.EmailService
	if cfg.SMTPEnabled() {
		emailService = mail.NewEmailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	}

	a.Assign = usecase.NewAssignLeadUseCase(a.Leads, a.Agents, cache.NewRoundRobinCursor(rdb), logger)
	a.SideEffects = &usecase.SideEffectRouter{
		Notify: usecase.NewNotifyUseCase(a.Leads, a.Agents, a.Notifications, emailService, logger),
		Assign: a.Assign,
		Leads:  a.Leads,
		Logger: logger,
	}
	if cfg.MetaEnabled() {
		a.SideEffects.Conversion = meta.NewConversionsClient(cfg.Meta.BaseURL, cfg.Meta.PixelID, cfg.Meta.AccessToken, cfg.Meta.TestEventCode, logger)
	}
	if cfg.TrelloEnabled() {
		a.SideEffects.Board = trello.NewClient(cfg.Trello.BaseURL, cfg.Trello.APIKey, cfg.Trello.Token, cfg.Trello.ListID, logger)
	}

	if cfg.RabbitMQURL != "" {
		broker, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		a.Broker = broker
		a.Tasks = queue.NewProducer(broker.Ch)
	} else {
		logger.Warn("RABBITMQ_URL not set, running side effects in-process")
		a.Inline = queue.NewInlineDispatcher(a.SideEffects, logger)
		a.Inline.OnFailure = middleware.RecordSideEffectFailure
		a.Tasks = a.Inline
	}

	a.Intake = usecase.NewIntakeLeadUseCase(a.Leads, a.Tasks, logger)
	a.Claim = usecase.NewClaimLeadUseCase(a.Leads, logger)
	a.MarkLost = usecase.NewMarkLostUseCase(a.Leads, logger)
	a.Manage = usecase.NewManageLeadUseCase(a.Leads, a.Notes, logger)
	a.Inbox = usecase.NewNotificationInboxUseCase(a.Notifications)
	a.Reminders = usecase.NewReminderUseCase(a.Leads, a.Tasks, logger)
	a.Messages = usecase.NewSendMessageUseCase(
		manychat.NewClient(cfg.ManyChat.BaseURL, cfg.ManyChat.APIKey, logger),
		logger,
	)

	return a, nil
}

// Close waits for in-process tasks and releases connections.
func (a *App) Close() {
	if a.Inline != nil {
		a.Inline.Wait()
	}
	if a.Broker != nil {
		a.Broker.Close()
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
