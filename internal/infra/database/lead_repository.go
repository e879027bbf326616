package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/lead-intake/internal/entity"
)

const leadColumns = `id, client_name, mobile_number, lead_source, service, status,
	assigned_to, reminder_at, lost_by, lost_at, lost_reason, created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, client_name, mobile_number, lead_source, service, status, assigned_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.ClientName,
		lead.MobileNumber,
		lead.LeadSource,
		lead.Service,
		lead.Status,
		lead.AssignedTo,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrLeadAlreadyExists
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	return scanLead(row)
}

func (r *LeadRepository) FindByPhone(ctx context.Context, mobile string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE mobile_number = $1`, mobile)
	return scanLead(row)
}

func (r *LeadRepository) ListUnassigned(ctx context.Context, limit int) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + `
		FROM leads
		WHERE assigned_to IS NULL AND status <> $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, entity.LeadStatusWon, limit)
	if err != nil {
		return nil, fmt.Errorf("list unassigned leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

func (r *LeadRepository) AssignIfUnassigned(ctx context.Context, leadID, agentID, status string) (bool, error) {
	query := `
		UPDATE leads
		SET assigned_to = $2, status = $3, updated_at = NOW()
		WHERE id = $1 AND assigned_to IS NULL
	`
	res, err := r.DB.ExecContext(ctx, query, leadID, agentID, status)
	if err != nil {
		return false, fmt.Errorf("assign lead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *LeadRepository) ClaimIfUnchanged(ctx context.Context, leadID, agentID string, seenLostAt *time.Time) (bool, error) {
	query := `
		UPDATE leads
		SET assigned_to = $2, status = $3, updated_at = NOW()
		WHERE id = $1
			AND assigned_to IS NULL
			AND lost_at IS NOT DISTINCT FROM $4::timestamptz
	`
	res, err := r.DB.ExecContext(ctx, query, leadID, agentID, entity.LeadStatusInProgress, seenLostAt)
	if err != nil {
		return false, fmt.Errorf("claim lead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *LeadRepository) MarkLost(ctx context.Context, leadID string, history entity.LostHistory) error {
	query := `
		UPDATE leads
		SET status = $2,
			assigned_to = NULL,
			lost_by = $3,
			lost_at = $4,
			lost_reason = $5,
			updated_at = NOW()
		WHERE id = $1 AND assigned_to IS NOT NULL
	`
	res, err := r.DB.ExecContext(ctx, query, leadID, entity.LeadStatusLost, history.LostBy, history.LostAt, history.Reason)
	if err != nil {
		return fmt.Errorf("mark lead lost: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrLeadNotAssigned
	}
	return nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, leadID, status string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1`,
		leadID, status,
	)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	return expectOneRow(res)
}

func (r *LeadRepository) SetReminder(ctx context.Context, leadID string, at *time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET reminder_at = $2, updated_at = NOW() WHERE id = $1`,
		leadID, at,
	)
	if err != nil {
		return fmt.Errorf("set reminder: %w", err)
	}
	return expectOneRow(res)
}

func (r *LeadRepository) ClaimDueReminders(ctx context.Context, now time.Time) ([]*entity.Lead, error) {
	query := `
		UPDATE leads
		SET reminder_at = NULL, updated_at = NOW()
		WHERE reminder_at IS NOT NULL
			AND reminder_at <= $1
			AND assigned_to IS NOT NULL
		RETURNING ` + leadColumns

	rows, err := r.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("claim due reminders: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		l          entity.Lead
		assignedTo sql.NullString
		reminderAt sql.NullTime
		lostBy     sql.NullString
		lostAt     sql.NullTime
		lostReason sql.NullString
	)

	err := row.Scan(
		&l.ID,
		&l.ClientName,
		&l.MobileNumber,
		&l.LeadSource,
		&l.Service,
		&l.Status,
		&assignedTo,
		&reminderAt,
		&lostBy,
		&lostAt,
		&lostReason,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan lead: %w", err)
	}

	if assignedTo.Valid {
		l.AssignedTo = &assignedTo.String
	}
	if reminderAt.Valid {
		t := reminderAt.Time
		l.ReminderAt = &t
	}
	if lostAt.Valid {
		l.Lost = &entity.LostHistory{
			LostBy: lostBy.String,
			LostAt: lostAt.Time,
			Reason: lostReason.String,
		}
		if l.Lost.Reason == "" {
			l.Lost.Reason = entity.NoLostReason
		}
	}

	return &l, nil
}

func scanLeads(rows *sql.Rows) ([]*entity.Lead, error) {
	leads := make([]*entity.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}
