package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type LeadNote struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func NewLeadNote(leadID, authorID, body string) (*LeadNote, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.New("note body is required")
	}
	return &LeadNote{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}, nil
}

type LeadNoteRepositoryInterface interface {
	Create(ctx context.Context, note *LeadNote) error
	ListByLead(ctx context.Context, leadID string) ([]*LeadNote, error)
}
