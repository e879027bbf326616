package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
)

type IntakeLeadInput struct {
	ClientName string `json:"client_name" validate:"max=200"`
	Phone      string `json:"phone" validate:"required"`
	LeadSource string `json:"lead_source" validate:"max=100"`
	Service    string `json:"service" validate:"max=100"`
}

type IntakeLeadOutput struct {
	LeadID       string  `json:"lead_id"`
	ClientName   string  `json:"client_name"`
	MobileNumber string  `json:"mobile_number"`
	AssignedTo   *string `json:"assigned_to,omitempty"`
	Duplicate    bool    `json:"duplicate"`
	Message      string  `json:"message"`
}

type IntakeLeadUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Tasks  TaskQueue
	Logger *zap.Logger
}

func NewIntakeLeadUseCase(leads entity.LeadRepositoryInterface, tasks TaskQueue, logger *zap.Logger) *IntakeLeadUseCase {
	return &IntakeLeadUseCase{Leads: leads, Tasks: tasks, Logger: logger}
}

func (uc *IntakeLeadUseCase) Execute(ctx context.Context, input IntakeLeadInput) (*IntakeLeadOutput, error) {
	if errs := ValidateInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	phone, err := entity.NormalizeAndValidatePhone(input.Phone)
	if err != nil {
		return nil, fieldInvalid("phone", err.Error())
	}

	existing, err := uc.findDuplicate(ctx, phone)
	if err != nil {
		return nil, dbError("failed to look up lead by phone", err)
	}
	if existing != nil {
		return uc.repeatContact(ctx, existing), nil
	}

	lead, err := entity.NewLead(cleanClientName(input.ClientName), phone, input.LeadSource, input.Service)
	if err != nil {
		return nil, fieldInvalid("phone", err.Error())
	}

	if err := uc.Leads.Create(ctx, lead); err != nil {
		if !errors.Is(err, entity.ErrLeadAlreadyExists) {
			return nil, dbError("failed to create lead", err)
		}

		// Lost the race against a concurrent contact with the same number;
		// the unique index picked the winner.
		winner, ferr := uc.Leads.FindByPhone(ctx, phone)
		if ferr != nil {
			return nil, dbError("failed to load existing lead after conflict", ferr)
		}
		return uc.repeatContact(ctx, winner), nil
	}

	uc.Logger.Info("lead created",
		zap.String("lead_id", lead.ID),
		zap.String("phone", lead.MobileNumber),
		zap.String("source", lead.LeadSource),
	)

	uc.enqueue(ctx, entity.TaskAssign, lead.ID, "")
	uc.enqueue(ctx, entity.TaskTrackConversion, lead.ID, "")
	uc.enqueue(ctx, entity.TaskSyncBoard, lead.ID, "")

	return &IntakeLeadOutput{
		LeadID:       lead.ID,
		ClientName:   lead.ClientName,
		MobileNumber: lead.MobileNumber,
		Message:      "Lead created successfully",
	}, nil
}

func (uc *IntakeLeadUseCase) findDuplicate(ctx context.Context, phone string) (*entity.Lead, error) {
	lead, err := uc.Leads.FindByPhone(ctx, phone)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (uc *IntakeLeadUseCase) repeatContact(ctx context.Context, lead *entity.Lead) *IntakeLeadOutput {
	uc.Logger.Info("repeat contact for existing lead",
		zap.String("lead_id", lead.ID),
		zap.Bool("assigned", lead.IsAssigned()),
	)

	uc.enqueue(ctx, entity.TaskNotify, lead.ID, entity.ReasonDuplicateContact)

	msg := "Lead already exists; sales team notified"
	if lead.IsAssigned() {
		msg = "Lead already exists; assigned agent notified"
	}
	return &IntakeLeadOutput{
		LeadID:       lead.ID,
		ClientName:   lead.ClientName,
		MobileNumber: lead.MobileNumber,
		AssignedTo:   lead.AssignedTo,
		Duplicate:    true,
		Message:      msg,
	}
}

// enqueue never fails the caller: the lead row is already committed.
func (uc *IntakeLeadUseCase) enqueue(ctx context.Context, kind, leadID, reason string) {
	if uc.Tasks == nil {
		return
	}
	task := entity.Task{
		ID:         uuid.New().String(),
		Kind:       kind,
		LeadID:     leadID,
		Reason:     reason,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := uc.Tasks.Enqueue(ctx, task); err != nil {
		uc.Logger.Warn("failed to enqueue side effect",
			zap.String("task", kind),
			zap.String("lead_id", leadID),
			zap.Error(err),
		)
	}
}

func cleanClientName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || IsTemplatePlaceholder(name) {
		return ""
	}
	return name
}
