package usecase

import (
	"context"

	"github.com/xavierca1/lead-intake/internal/entity"
)

// TaskQueue accepts side effects after the primary write has committed.
type TaskQueue interface {
	Enqueue(ctx context.Context, task entity.Task) error
}

// RoundRobinCursor hands out a monotonically increasing position shared by
// every process that assigns leads.
type RoundRobinCursor interface {
	Next(ctx context.Context) (int64, error)
}

type EmailService interface {
	SendReminder(to, agentName, leadName, leadPhone string) error
}

type ConversionTracker interface {
	TrackLead(ctx context.Context, lead *entity.Lead) error
}

type BoardSync interface {
	CreateLeadCard(ctx context.Context, lead *entity.Lead) (string, error)
}

type Messenger interface {
	SendText(ctx context.Context, subscriberID, phone, text string) error
}
