package rsvp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aura-invites/backend/internal/models"
)

// Repository stores responses in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an RSVP repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert writes a new response and fills in its id and timestamp.
func (r *Repository) Insert(ctx context.Context, rec *models.RSVP) error {
	const q = `INSERT INTO rsvps (id, invite_id, name, email, attendance_status, guest_count, message)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, q, rec.InviteID, rec.Name, rec.Email, rec.AttendanceStatus, rec.GuestCount, rec.Message).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert rsvp: %w", err)
	}
	return nil
}

// ListByInvite returns all responses for an invitation, newest first.
func (r *Repository) ListByInvite(ctx context.Context, inviteID uuid.UUID) ([]models.RSVP, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, invite_id, name, email, attendance_status, guest_count, message, created_at
		FROM rsvps WHERE invite_id = $1 ORDER BY created_at DESC`, inviteID)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	defer rows.Close()
	var list []models.RSVP
	for rows.Next() {
		var rec models.RSVP
		if err := rows.Scan(&rec.ID, &rec.InviteID, &rec.Name, &rec.Email, &rec.AttendanceStatus, &rec.GuestCount, &rec.Message, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rsvp: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
