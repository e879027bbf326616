package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
)

type AssignLeadOutput struct {
	LeadID     string `json:"lead_id"`
	AssignedTo string `json:"assigned_to"`
	Changed    bool   `json:"changed"`
}

// AssignLeadUseCase distributes unassigned leads across active sales agents
// in rotation.
type AssignLeadUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Agents entity.AgentRepositoryInterface
	Cursor RoundRobinCursor
	Logger *zap.Logger
}

func NewAssignLeadUseCase(
	leads entity.LeadRepositoryInterface,
	agents entity.AgentRepositoryInterface,
	cursor RoundRobinCursor,
	logger *zap.Logger,
) *AssignLeadUseCase {
	return &AssignLeadUseCase{Leads: leads, Agents: agents, Cursor: cursor, Logger: logger}
}

func (uc *AssignLeadUseCase) Execute(ctx context.Context, leadID string) (*AssignLeadOutput, error) {
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return nil, notFound("lead not found: " + leadID)
	}
	if err != nil {
		return nil, dbError("failed to load lead", err)
	}

	if lead.IsAssigned() {
		return &AssignLeadOutput{LeadID: lead.ID, AssignedTo: *lead.AssignedTo}, nil
	}

	// A previously lost lead must be claimed by someone who has seen why
	// it was lost; rotation would skip that step.
	if lead.HasLostHistory() {
		return nil, &DomainError{
			Code:    CodeLostConfirmationMissing,
			Message: "lead has lost history and must be claimed manually",
			Details: lead.Lost,
		}
	}

	agents, err := uc.Agents.ListActiveSalesAgents(ctx)
	if err != nil {
		return nil, dbError("failed to list sales agents", err)
	}
	if len(agents) == 0 {
		return nil, &DomainError{Code: CodeNoAgentsAvailable, Message: "no active sales agents to assign to"}
	}

	pos, err := uc.Cursor.Next(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to advance round-robin cursor", Err: err}
	}
	agent := agents[pickIndex(pos, len(agents))]

	ok, err := uc.Leads.AssignIfUnassigned(ctx, lead.ID, agent.ID, lead.Status)
	if err != nil {
		return nil, dbError("failed to assign lead", err)
	}
	if !ok {
		// Someone claimed it between the read and the update.
		current, err := uc.Leads.FindByID(ctx, lead.ID)
		if err != nil {
			return nil, dbError("failed to reload lead", err)
		}
		out := &AssignLeadOutput{LeadID: lead.ID}
		if current.IsAssigned() {
			out.AssignedTo = *current.AssignedTo
		}
		return out, nil
	}

	uc.Logger.Info("lead assigned by rotation",
		zap.String("lead_id", lead.ID),
		zap.String("agent_id", agent.ID),
		zap.Int64("cursor", pos),
	)
	return &AssignLeadOutput{LeadID: lead.ID, AssignedTo: agent.ID, Changed: true}, nil
}

// pickIndex maps a 1-based cursor value onto the agent slice.
func pickIndex(pos int64, n int) int {
	i := (pos - 1) % int64(n)
	if i < 0 {
		i += int64(n)
	}
	return int(i)
}
