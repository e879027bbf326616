package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/lead-intake/internal/entity"
)

const defaultInboxLimit = 50

type NotificationInboxUseCase struct {
	Notifications entity.NotificationRepositoryInterface
}

func NewNotificationInboxUseCase(notifications entity.NotificationRepositoryInterface) *NotificationInboxUseCase {
	return &NotificationInboxUseCase{Notifications: notifications}
}

func (uc *NotificationInboxUseCase) List(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultInboxLimit
	}
	items, err := uc.Notifications.ListByRecipient(ctx, recipientID, unreadOnly, limit)
	if err != nil {
		return nil, dbError("failed to list notifications", err)
	}
	return items, nil
}

// MarkRead only touches notifications owned by recipientID.
func (uc *NotificationInboxUseCase) MarkRead(ctx context.Context, id, recipientID string) error {
	err := uc.Notifications.MarkRead(ctx, id, recipientID)
	if errors.Is(err, entity.ErrNotificationNotFound) {
		return &DomainError{Code: CodeNotificationNotFound, Message: err.Error()}
	}
	if err != nil {
		return dbError("failed to mark notification read", err)
	}
	return nil
}
