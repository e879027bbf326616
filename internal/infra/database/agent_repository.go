package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/lead-intake/internal/entity"
)

var ErrAgentNotFound = errors.New("agent not found")

// AgentRepository reads the auth provider's profiles table. This service
// never writes to it.
type AgentRepository struct {
	DB *sql.DB
}

func NewAgentRepository(db *sql.DB) *AgentRepository {
	return &AgentRepository{DB: db}
}

func (r *AgentRepository) ListActiveSalesAgents(ctx context.Context) ([]*entity.SalesAgent, error) {
	query := `
		SELECT id, COALESCE(full_name, ''), COALESCE(email, ''), role, is_active
		FROM profiles
		WHERE role = $1 AND is_active = TRUE
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query, entity.RoleSalesAgent)
	if err != nil {
		return nil, fmt.Errorf("list sales agents: %w", err)
	}
	defer rows.Close()

	agents := make([]*entity.SalesAgent, 0)
	for rows.Next() {
		var a entity.SalesAgent
		if err := rows.Scan(&a.ID, &a.FullName, &a.Email, &a.Role, &a.Active); err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, &a)
	}
	return agents, rows.Err()
}

func (r *AgentRepository) FindByID(ctx context.Context, id string) (*entity.SalesAgent, error) {
	query := `
		SELECT id, COALESCE(full_name, ''), COALESCE(email, ''), role, is_active
		FROM profiles
		WHERE id = $1
	`
	var a entity.SalesAgent
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.FullName, &a.Email, &a.Role, &a.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAgentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find agent: %w", err)
	}
	return &a, nil
}
