package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
)

const defaultPoolLimit = 100

type LeadDetails struct {
	Lead  *entity.Lead       `json:"lead"`
	Notes []*entity.LeadNote `json:"notes"`
}

type UpdateStatusInput struct {
	LeadID string `json:"lead_id" validate:"required"`
	Status string `json:"status" validate:"required"`
}

type AddNoteInput struct {
	LeadID   string `json:"lead_id" validate:"required"`
	AuthorID string `json:"author_id" validate:"required"`
	Body     string `json:"body" validate:"required,max=5000"`
}

// ManageLeadUseCase covers the day-to-day edits outside the claim/lost
// guard: status, notes, reminders and the unassigned pool.
type ManageLeadUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Notes  entity.LeadNoteRepositoryInterface
	Logger *zap.Logger
}

func NewManageLeadUseCase(leads entity.LeadRepositoryInterface, notes entity.LeadNoteRepositoryInterface, logger *zap.Logger) *ManageLeadUseCase {
	return &ManageLeadUseCase{Leads: leads, Notes: notes, Logger: logger}
}

func (uc *ManageLeadUseCase) Get(ctx context.Context, leadID string) (*LeadDetails, error) {
	lead, err := uc.load(ctx, leadID)
	if err != nil {
		return nil, err
	}
	notes, err := uc.Notes.ListByLead(ctx, lead.ID)
	if err != nil {
		return nil, dbError("failed to load lead notes", err)
	}
	return &LeadDetails{Lead: lead, Notes: notes}, nil
}

// ListUnassigned returns the pool, lost leads included.
func (uc *ManageLeadUseCase) ListUnassigned(ctx context.Context, limit int) ([]*entity.Lead, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultPoolLimit
	}
	leads, err := uc.Leads.ListUnassigned(ctx, limit)
	if err != nil {
		return nil, dbError("failed to list unassigned leads", err)
	}
	return leads, nil
}

func (uc *ManageLeadUseCase) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*entity.Lead, error) {
	if errs := ValidateInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	if !entity.ValidStatus(input.Status) {
		return nil, fieldInvalid("status", entity.ErrInvalidLeadStatus.Error())
	}
	if input.Status == entity.LeadStatusLost {
		return nil, fieldInvalid("status", "use the lost action to mark a lead lost")
	}

	lead, err := uc.load(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if err := uc.Leads.UpdateStatus(ctx, lead.ID, input.Status); err != nil {
		return nil, dbError("failed to update lead status", err)
	}

	lead.Status = input.Status
	return lead, nil
}

func (uc *ManageLeadUseCase) AddNote(ctx context.Context, input AddNoteInput) (*entity.LeadNote, error) {
	if errs := ValidateInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	lead, err := uc.load(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}

	note, err := entity.NewLeadNote(lead.ID, input.AuthorID, input.Body)
	if err != nil {
		return nil, fieldInvalid("body", err.Error())
	}
	if err := uc.Notes.Create(ctx, note); err != nil {
		return nil, dbError("failed to save note", err)
	}
	return note, nil
}

// SetReminder stores the follow-up time; nil clears it.
func (uc *ManageLeadUseCase) SetReminder(ctx context.Context, leadID string, at *time.Time) (*entity.Lead, error) {
	lead, err := uc.load(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if at != nil {
		utc := at.UTC()
		at = &utc
	}
	if err := uc.Leads.SetReminder(ctx, lead.ID, at); err != nil {
		return nil, dbError("failed to set reminder", err)
	}
	lead.ReminderAt = at
	return lead, nil
}

func (uc *ManageLeadUseCase) load(ctx context.Context, leadID string) (*entity.Lead, error) {
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return nil, notFound("lead not found: " + leadID)
	}
	if err != nil {
		return nil, dbError("failed to load lead", err)
	}
	return lead, nil
}
