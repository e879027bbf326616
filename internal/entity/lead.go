package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Lead status values as stored in leads.status.
const (
	LeadStatusNew        = "New Lead"
	LeadStatusInProgress = "In Progress"
	LeadStatusFollowUp   = "Follow Up"
	LeadStatusWon        = "Won"
	LeadStatusLost       = "Lost"
)

const (
	DefaultLeadName    = "WhatsApp Lead"
	DefaultLeadSource  = "WhatsApp"
	DefaultLeadService = "General Inquiry"
	NoLostReason       = "No reason provided"
)

var (
	ErrLeadNotFound        = errors.New("lead not found")
	ErrLeadAlreadyExists   = errors.New("lead with this mobile number already exists")
	ErrLeadAlreadyAssigned = errors.New("lead is already assigned")
	ErrLeadNotAssigned     = errors.New("lead is not assigned")
	ErrInvalidLeadStatus   = errors.New("invalid lead status")
)

// LostHistory is kept on the lead after it has been marked Lost, so whoever
// claims it later can see why it was dropped.
type LostHistory struct {
	LostBy string    `json:"lost_by"`
	LostAt time.Time `json:"lost_at"`
	Reason string    `json:"reason"`
}

type Lead struct {
	ID           string       `json:"id"`
	ClientName   string       `json:"client_name"`
	MobileNumber string       `json:"mobile_number"`
	LeadSource   string       `json:"lead_source"`
	Service      string       `json:"service"`
	Status       string       `json:"status"`
	AssignedTo   *string      `json:"assigned_to,omitempty"`
	ReminderAt   *time.Time   `json:"reminder_at,omitempty"`
	Lost         *LostHistory `json:"lost_history,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewLead builds an unassigned lead in status New Lead. The mobile number
// must already be normalized.
func NewLead(clientName, mobile, source, service string) (*Lead, error) {
	if err := ValidatePhone(mobile); err != nil {
		return nil, err
	}
	if clientName == "" {
		clientName = DefaultLeadName
	}
	if source == "" {
		source = DefaultLeadSource
	}
	if service == "" {
		service = DefaultLeadService
	}

	now := time.Now().UTC()
	return &Lead{
		ID:           uuid.New().String(),
		ClientName:   clientName,
		MobileNumber: mobile,
		LeadSource:   source,
		Service:      service,
		Status:       LeadStatusNew,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (l *Lead) IsAssigned() bool {
	return l.AssignedTo != nil && *l.AssignedTo != ""
}

func (l *Lead) HasLostHistory() bool {
	return l.Lost != nil
}

// LostAt is the date of the last loss, nil for a lead never lost.
func (l *Lead) LostAt() *time.Time {
	if l.Lost == nil {
		return nil
	}
	t := l.Lost.LostAt
	return &t
}

// ValidStatus reports whether s is a known lead status.
func ValidStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusInProgress, LeadStatusFollowUp, LeadStatusWon, LeadStatusLost:
		return true
	}
	return false
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	FindByPhone(ctx context.Context, mobile string) (*Lead, error)
	ListUnassigned(ctx context.Context, limit int) ([]*Lead, error)

	// AssignIfUnassigned sets the owner only when the lead has none and
	// reports whether the row was updated.
	AssignIfUnassigned(ctx context.Context, leadID, agentID, status string) (bool, error)

	// ClaimIfUnchanged assigns an unassigned lead to agentID and moves it to
	// In Progress, but only while its lost date still equals seenLostAt.
	ClaimIfUnchanged(ctx context.Context, leadID, agentID string, seenLostAt *time.Time) (bool, error)
	MarkLost(ctx context.Context, leadID string, history LostHistory) error
	UpdateStatus(ctx context.Context, leadID, status string) error
	SetReminder(ctx context.Context, leadID string, at *time.Time) error

	// ClaimDueReminders clears every reminder at or before now and returns
	// the affected leads.
	ClaimDueReminders(ctx context.Context, now time.Time) ([]*Lead, error)
}
