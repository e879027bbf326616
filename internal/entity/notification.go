package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	NotificationWarning    = "warning"
	NotificationLeadUpdate = "lead_update"
	NotificationReminder   = "reminder"
	NotificationInfo       = "info"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Type        string    `json:"type"`
	LeadID      *string   `json:"lead_id,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewNotification(recipientID, title, message, kind string, leadID *string) *Notification {
	return &Notification{
		ID:          uuid.New().String(),
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Type:        kind,
		LeadID:      leadID,
		CreatedAt:   time.Now().UTC(),
	}
}

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *Notification) error

	// CreateForRecipients inserts one copy of the template per recipient in
	// a single statement.
	CreateForRecipients(ctx context.Context, recipients []string, template *Notification) (int, error)
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
}
