package entity

import "time"

// Side-effect task kinds carried by the outbox.
const (
	TaskNotify          = "notify"
	TaskAssign          = "assign"
	TaskTrackConversion = "track_conversion"
	TaskSyncBoard       = "sync_board"
)

// Notify reasons.
const (
	ReasonDuplicateContact = "duplicate_contact"
	ReasonReminder         = "reminder"
)

// Task is a best-effort side effect scheduled after a lead write commits.
type Task struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	LeadID     string    `json:"lead_id"`
	Reason     string    `json:"reason,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
