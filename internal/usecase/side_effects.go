package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
)

// SideEffectRouter executes tasks taken off the outbox.
type SideEffectRouter struct {
	Notify     *NotifyUseCase
	Assign     *AssignLeadUseCase
	Leads      entity.LeadRepositoryInterface
	Conversion ConversionTracker
	Board      BoardSync
	Logger     *zap.Logger
}

func (r *SideEffectRouter) HandleTask(ctx context.Context, task entity.Task) error {
	switch task.Kind {
	case entity.TaskNotify:
		out, err := r.Notify.Execute(ctx, NotifyInput{LeadID: task.LeadID, Reason: task.Reason})
		if err != nil {
			return err
		}
		r.Logger.Info("notifications delivered",
			zap.String("lead_id", task.LeadID),
			zap.String("reason", task.Reason),
			zap.Int("count", out.Created),
		)
		return nil

	case entity.TaskAssign:
		_, err := r.Assign.Execute(ctx, task.LeadID)
		var de *DomainError
		if errors.As(err, &de) {
			// Business outcomes are final; retrying will not change them.
			r.Logger.Warn("round-robin assignment skipped", zap.String("lead_id", task.LeadID), zap.String("code", de.Code))
			return nil
		}
		return err

	case entity.TaskTrackConversion:
		if r.Conversion == nil {
			return nil
		}
		lead, err := r.lead(ctx, task.LeadID)
		if err != nil {
			return err
		}
		return r.Conversion.TrackLead(ctx, lead)

	case entity.TaskSyncBoard:
		if r.Board == nil {
			return nil
		}
		lead, err := r.lead(ctx, task.LeadID)
		if err != nil {
			return err
		}
		cardID, err := r.Board.CreateLeadCard(ctx, lead)
		if err != nil {
			return err
		}
		r.Logger.Info("lead synced to board", zap.String("lead_id", lead.ID), zap.String("card_id", cardID))
		return nil
	}

	r.Logger.Warn("unknown task kind, dropping", zap.String("kind", task.Kind))
	return nil
}

func (r *SideEffectRouter) lead(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := r.Leads.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load lead %s: %w", id, err)
	}
	return lead, nil
}

// ReminderUseCase turns due reminders into notify tasks.
type ReminderUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Tasks  TaskQueue
	Logger *zap.Logger
}

func NewReminderUseCase(leads entity.LeadRepositoryInterface, tasks TaskQueue, logger *zap.Logger) *ReminderUseCase {
	return &ReminderUseCase{Leads: leads, Tasks: tasks, Logger: logger}
}

func (uc *ReminderUseCase) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	due, err := uc.Leads.ClaimDueReminders(ctx, now)
	if err != nil {
		return 0, dbError("failed to claim due reminders", err)
	}

	dispatched := 0
	for _, lead := range due {
		task := entity.Task{
			ID:         uuid.New().String(),
			Kind:       entity.TaskNotify,
			LeadID:     lead.ID,
			Reason:     entity.ReasonReminder,
			EnqueuedAt: now.UTC(),
		}
		if err := uc.Tasks.Enqueue(ctx, task); err != nil {
			uc.Logger.Warn("failed to enqueue reminder", zap.String("lead_id", lead.ID), zap.Error(err))
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

type SendMessageInput struct {
	SubscriberID string `json:"subscriber_id"`
	Phone        string `json:"phone"`
	Text         string `json:"text" validate:"required,max=4096"`
}

// SendMessageUseCase sends an agent-written WhatsApp text through the chat
// platform.
type SendMessageUseCase struct {
	Messenger Messenger
	Logger    *zap.Logger
}

func NewSendMessageUseCase(messenger Messenger, logger *zap.Logger) *SendMessageUseCase {
	return &SendMessageUseCase{Messenger: messenger, Logger: logger}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, input SendMessageInput) error {
	if errs := ValidateInput(input); len(errs) > 0 {
		return validationFailed(errs)
	}
	if input.SubscriberID == "" && input.Phone == "" {
		return fieldInvalid("phone", "subscriber_id or phone is required")
	}

	phone := ""
	if input.Phone != "" {
		p, err := entity.NormalizeAndValidatePhone(input.Phone)
		if err != nil {
			return fieldInvalid("phone", err.Error())
		}
		phone = p
	}

	if err := uc.Messenger.SendText(ctx, input.SubscriberID, phone, input.Text); err != nil {
		uc.Logger.Error("whatsapp send failed", zap.String("phone", phone), zap.Error(err))
		return upstreamError("failed to send WhatsApp message", err)
	}
	return nil
}
