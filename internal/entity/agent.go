package entity

import "context"

const (
	RoleAdmin      = "admin"
	RoleSalesAgent = "sales_agent"
	RoleOperations = "operations"
)

// SalesAgent is the slice of a BaaS user profile this service needs.
// Profiles are owned by the auth provider and only read here.
type SalesAgent struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

type AgentRepositoryInterface interface {
	// ListActiveSalesAgents returns active sales agents ordered by id.
	ListActiveSalesAgents(ctx context.Context) ([]*SalesAgent, error)
	FindByID(ctx context.Context, id string) (*SalesAgent, error)
}
