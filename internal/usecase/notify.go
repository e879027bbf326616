package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
)

type NotifyInput struct {
	LeadID string
	Reason string
}

type NotifyOutput struct {
	Recipients []string
	Created    int
}

// NotifyUseCase picks the audience for a lead event and stores the
// notifications. It runs from the task worker, never inline with intake.
type NotifyUseCase struct {
	Leads         entity.LeadRepositoryInterface
	Agents        entity.AgentRepositoryInterface
	Notifications entity.NotificationRepositoryInterface
	EmailService  EmailService
	Logger        *zap.Logger
}

func NewNotifyUseCase(
	leads entity.LeadRepositoryInterface,
	agents entity.AgentRepositoryInterface,
	notifications entity.NotificationRepositoryInterface,
	emailService EmailService,
	logger *zap.Logger,
) *NotifyUseCase {
	return &NotifyUseCase{
		Leads:         leads,
		Agents:        agents,
		Notifications: notifications,
		EmailService:  emailService,
		Logger:        logger,
	}
}

func (uc *NotifyUseCase) Execute(ctx context.Context, input NotifyInput) (*NotifyOutput, error) {
	lead, err := uc.Leads.FindByID(ctx, input.LeadID)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return nil, notFound("lead not found: " + input.LeadID)
	}
	if err != nil {
		return nil, dbError("failed to load lead", err)
	}

	if input.Reason == entity.ReasonReminder {
		return uc.remind(ctx, lead)
	}

	leadID := lead.ID
	if lead.IsAssigned() {
		owner := *lead.AssignedTo
		n := entity.NewNotification(
			owner,
			"Repeat contact",
			fmt.Sprintf("%s (%s) contacted us again.", lead.ClientName, lead.MobileNumber),
			entity.NotificationLeadUpdate,
			&leadID,
		)
		if err := uc.Notifications.Create(ctx, n); err != nil {
			return nil, dbError("failed to store notification", err)
		}
		return &NotifyOutput{Recipients: []string{owner}, Created: 1}, nil
	}

	agents, err := uc.Agents.ListActiveSalesAgents(ctx)
	if err != nil {
		return nil, dbError("failed to list sales agents", err)
	}
	if len(agents) == 0 {
		uc.Logger.Warn("no sales agents to notify", zap.String("lead_id", lead.ID))
		return &NotifyOutput{}, nil
	}

	recipients := make([]string, 0, len(agents))
	for _, a := range agents {
		recipients = append(recipients, a.ID)
	}

	template := entity.NewNotification(
		"",
		"Duplicate lead needs pickup",
		fmt.Sprintf("%s (%s) contacted us again and is not assigned to anyone.", lead.ClientName, lead.MobileNumber),
		entity.NotificationWarning,
		&leadID,
	)
	created, err := uc.Notifications.CreateForRecipients(ctx, recipients, template)
	if err != nil {
		return nil, dbError("failed to store notifications", err)
	}
	return &NotifyOutput{Recipients: recipients, Created: created}, nil
}

func (uc *NotifyUseCase) remind(ctx context.Context, lead *entity.Lead) (*NotifyOutput, error) {
	if !lead.IsAssigned() {
		uc.Logger.Info("reminder fired for unassigned lead, skipping", zap.String("lead_id", lead.ID))
		return &NotifyOutput{}, nil
	}

	owner := *lead.AssignedTo
	leadID := lead.ID
	n := entity.NewNotification(
		owner,
		"Follow-up reminder",
		fmt.Sprintf("Time to follow up with %s (%s).", lead.ClientName, lead.MobileNumber),
		entity.NotificationReminder,
		&leadID,
	)
	if err := uc.Notifications.Create(ctx, n); err != nil {
		return nil, dbError("failed to store reminder notification", err)
	}

	if uc.EmailService != nil {
		agent, err := uc.Agents.FindByID(ctx, owner)
		switch {
		case err != nil:
			uc.Logger.Warn("reminder email skipped, agent lookup failed", zap.String("agent_id", owner), zap.Error(err))
		case agent.Email != "":
			if err := uc.EmailService.SendReminder(agent.Email, agent.FullName, lead.ClientName, lead.MobileNumber); err != nil {
				uc.Logger.Warn("reminder email failed", zap.String("agent_id", owner), zap.Error(err))
			}
		}
	}

	return &NotifyOutput{Recipients: []string{owner}, Created: 1}, nil
}
