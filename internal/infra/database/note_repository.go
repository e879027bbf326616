package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/lead-intake/internal/entity"
)

type LeadNoteRepository struct {
	DB *sql.DB
}

func NewLeadNoteRepository(db *sql.DB) *LeadNoteRepository {
	return &LeadNoteRepository{DB: db}
}

func (r *LeadNoteRepository) Create(ctx context.Context, note *entity.LeadNote) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO lead_notes (id, lead_id, author_id, body, created_at) VALUES ($1, $2, $3, $4, $5)`,
		note.ID, note.LeadID, note.AuthorID, note.Body, note.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead note: %w", err)
	}
	return nil
}

func (r *LeadNoteRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.LeadNote, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, lead_id, author_id, body, created_at FROM lead_notes WHERE lead_id = $1 ORDER BY created_at`,
		leadID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lead notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*entity.LeadNote, 0)
	for rows.Next() {
		var n entity.LeadNote
		if err := rows.Scan(&n.ID, &n.LeadID, &n.AuthorID, &n.Body, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lead note: %w", err)
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}
