package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/xavierca1/lead-intake/internal/entity"
)

type NotificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, title, message, type, lead_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		n.ID, n.RecipientID, n.Title, n.Message, n.Type, n.LeadID, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// CreateForRecipients fans the template out with one INSERT ... SELECT so a
// roster-wide alert is all-or-nothing.
func (r *NotificationRepository) CreateForRecipients(ctx context.Context, recipients []string, template *entity.Notification) (int, error) {
	if len(recipients) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO notifications (id, recipient_id, title, message, type, lead_id, is_read, created_at)
		SELECT gen_random_uuid(), recipient, $2, $3, $4, $5, FALSE, $6
		FROM unnest($1::uuid[]) AS recipient
	`
	res, err := r.DB.ExecContext(ctx, query,
		pq.Array(recipients),
		template.Title,
		template.Message,
		template.Type,
		template.LeadID,
		template.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert notifications: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	query := `
		SELECT id, recipient_id, title, message, type, lead_id, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1 AND ($2 = FALSE OR is_read = FALSE)
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.DB.QueryContext(ctx, query, recipientID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Notification, 0)
	for rows.Next() {
		var (
			n      entity.Notification
			leadID sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Message, &n.Type, &leadID, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if leadID.Valid {
			n.LeadID = &leadID.String
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`,
		id, recipientID,
	)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotificationNotFound
	}
	return nil
}
