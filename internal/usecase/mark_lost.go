package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
)

type MarkLostInput struct {
	LeadID    string `json:"lead_id" validate:"required"`
	ActorID   string `json:"actor_id" validate:"required"`
	ActorRole string `json:"actor_role"`
	Reason    string `json:"reason" validate:"max=1000"`
}

// MarkLostUseCase returns an assigned lead to the pool as Lost and keeps
// who, when and why on the row.
type MarkLostUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Logger *zap.Logger
	Now    func() time.Time
}

func NewMarkLostUseCase(leads entity.LeadRepositoryInterface, logger *zap.Logger) *MarkLostUseCase {
	return &MarkLostUseCase{Leads: leads, Logger: logger, Now: time.Now}
}

func (uc *MarkLostUseCase) Execute(ctx context.Context, input MarkLostInput) (*entity.Lead, error) {
	if errs := ValidateInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	lead, err := uc.Leads.FindByID(ctx, input.LeadID)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return nil, notFound("lead not found: " + input.LeadID)
	}
	if err != nil {
		return nil, dbError("failed to load lead", err)
	}

	if !lead.IsAssigned() {
		return nil, &DomainError{Code: CodeLeadNotAssigned, Message: entity.ErrLeadNotAssigned.Error()}
	}
	if *lead.AssignedTo != input.ActorID && input.ActorRole != entity.RoleAdmin {
		return nil, &DomainError{Code: CodeForbidden, Message: "only the assigned agent or an admin can mark this lead lost"}
	}

	history := entity.LostHistory{
		LostBy: input.ActorID,
		LostAt: uc.Now().UTC(),
		Reason: lostReason(input.Reason),
	}
	if err := uc.Leads.MarkLost(ctx, lead.ID, history); err != nil {
		if errors.Is(err, entity.ErrLeadNotAssigned) {
			return nil, &DomainError{Code: CodeLeadNotAssigned, Message: err.Error()}
		}
		return nil, dbError("failed to mark lead lost", err)
	}

	uc.Logger.Info("lead marked lost",
		zap.String("lead_id", lead.ID),
		zap.String("actor_id", input.ActorID),
	)

	lead.Status = entity.LeadStatusLost
	lead.AssignedTo = nil
	lead.Lost = &history
	return lead, nil
}

func lostReason(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return entity.NoLostReason
	}
	return reason
}
