package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
)

type ClaimLeadInput struct {
	LeadID             string `json:"lead_id" validate:"required"`
	AgentID            string `json:"agent_id" validate:"required"`
	ConfirmLostHistory bool   `json:"confirm_lost_history"`
}

type ClaimPreview struct {
	LeadID      string              `json:"lead_id"`
	Assigned    bool                `json:"assigned"`
	LostHistory *entity.LostHistory `json:"lost_history,omitempty"`
}

// ClaimLeadUseCase moves a lead from the unassigned pool to an agent.
// Leads that were lost before need an explicit confirmation.
type ClaimLeadUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Logger *zap.Logger
}

func NewClaimLeadUseCase(leads entity.LeadRepositoryInterface, logger *zap.Logger) *ClaimLeadUseCase {
	return &ClaimLeadUseCase{Leads: leads, Logger: logger}
}

func (uc *ClaimLeadUseCase) Preview(ctx context.Context, leadID string) (*ClaimPreview, error) {
	lead, err := uc.load(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return &ClaimPreview{LeadID: lead.ID, Assigned: lead.IsAssigned(), LostHistory: lead.Lost}, nil
}

func (uc *ClaimLeadUseCase) Execute(ctx context.Context, input ClaimLeadInput) (*entity.Lead, error) {
	if errs := ValidateInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	lead, err := uc.load(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}

	if lead.IsAssigned() {
		return nil, &DomainError{Code: CodeLeadAlreadyAssigned, Message: entity.ErrLeadAlreadyAssigned.Error()}
	}

	if lead.HasLostHistory() && !input.ConfirmLostHistory {
		return nil, &DomainError{
			Code:    CodeLostConfirmationMissing,
			Message: "lead was previously marked lost; confirm to claim it",
			Details: lead.Lost,
		}
	}

	ok, err := uc.Leads.ClaimIfUnchanged(ctx, lead.ID, input.AgentID, lead.LostAt())
	if err != nil {
		return nil, dbError("failed to claim lead", err)
	}
	if !ok {
		return nil, uc.lostRace(ctx, lead.ID)
	}

	uc.Logger.Info("lead claimed",
		zap.String("lead_id", lead.ID),
		zap.String("agent_id", input.AgentID),
		zap.Bool("had_lost_history", lead.HasLostHistory()),
	)

	agentID := input.AgentID
	lead.AssignedTo = &agentID
	lead.Status = entity.LeadStatusInProgress
	return lead, nil
}

// lostRace explains a claim whose conditional update matched nothing: the
// lead was taken, or it was marked lost again after it was read.
func (uc *ClaimLeadUseCase) lostRace(ctx context.Context, leadID string) error {
	current, err := uc.load(ctx, leadID)
	if err != nil {
		return err
	}
	if current.IsAssigned() {
		return &DomainError{Code: CodeLeadAlreadyAssigned, Message: entity.ErrLeadAlreadyAssigned.Error()}
	}
	return &DomainError{
		Code:    CodeLostConfirmationMissing,
		Message: "lead was marked lost again; confirm the new history to claim it",
		Details: current.Lost,
	}
}

func (uc *ClaimLeadUseCase) load(ctx context.Context, leadID string) (*entity.Lead, error) {
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return nil, notFound("lead not found: " + leadID)
	}
	if err != nil {
		return nil, dbError("failed to load lead", err)
	}
	return lead, nil
}
