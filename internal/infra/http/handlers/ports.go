package handlers

import (
	"context"
	"time"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/integration/places"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

type LeadIntaker interface {
	Execute(ctx context.Context, input usecase.IntakeLeadInput) (*usecase.IntakeLeadOutput, error)
}

type LeadClaimer interface {
	Preview(ctx context.Context, leadID string) (*usecase.ClaimPreview, error)
	Execute(ctx context.Context, input usecase.ClaimLeadInput) (*entity.Lead, error)
}

type LeadLostMarker interface {
	Execute(ctx context.Context, input usecase.MarkLostInput) (*entity.Lead, error)
}

type LeadAssigner interface {
	Execute(ctx context.Context, leadID string) (*usecase.AssignLeadOutput, error)
}

type LeadManager interface {
	Get(ctx context.Context, leadID string) (*usecase.LeadDetails, error)
	ListUnassigned(ctx context.Context, limit int) ([]*entity.Lead, error)
	UpdateStatus(ctx context.Context, input usecase.UpdateStatusInput) (*entity.Lead, error)
	AddNote(ctx context.Context, input usecase.AddNoteInput) (*entity.LeadNote, error)
	SetReminder(ctx context.Context, leadID string, at *time.Time) (*entity.Lead, error)
}

type NotificationInbox interface {
	List(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
}

type MessageSender interface {
	Execute(ctx context.Context, input usecase.SendMessageInput) error
}

type PlacesSearcher interface {
	Autocomplete(ctx context.Context, input, sessionToken string) ([]places.Prediction, error)
	Details(ctx context.Context, placeID, sessionToken string) (*places.Place, error)
}
