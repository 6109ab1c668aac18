package invites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aura-invites/backend/internal/models"
	apperrors "github.com/aura-invites/backend/pkg/errors"
)

const uniqueViolation = "23505"

const columns = `id, owner_id, slug, template_id, published, bride_name, groom_name, bride_initial, groom_initial,
	event_date, event_time, venue_name, venue_address, map_url, schedule_items, story_text, hero_image_url,
	audio_url, theme_tokens, rsvp_enabled, rsvp_deadline, view_count, skip_envelope, created_at, updated_at`

// Repository handles invitation persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an invitation repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanInvitation(row pgx.Row) (*models.Invitation, error) {
	var (
		inv      models.Invitation
		id       uuid.UUID
		date     time.Time
		deadline *time.Time
	)
	err := row.Scan(&id, &inv.OwnerID, &inv.Slug, &inv.TemplateID, &inv.Published, &inv.BrideName, &inv.GroomName,
		&inv.BrideInitial, &inv.GroomInitial, &date, &inv.EventTime, &inv.VenueName, &inv.VenueAddress, &inv.MapURL,
		&inv.ScheduleItems, &inv.StoryText, &inv.HeroImageURL, &inv.AudioURL, &inv.ThemeTokens, &inv.RSVPEnabled,
		&deadline, &inv.ViewCount, &inv.SkipEnvelope, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.ID = &id
	inv.EventDate = models.DateOf(date)
	if deadline != nil {
		d := models.DateOf(*deadline)
		inv.RSVPDeadline = &d
	}
	return &inv, nil
}

func deadlineArg(d *models.Date) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

func scheduleArg(items []models.ScheduleItem) []models.ScheduleItem {
	if items == nil {
		return []models.ScheduleItem{}
	}
	return items
}

// mapErr converts driver errors into the shared taxonomy.
func mapErr(op, key string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError("invitation", key)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperrors.NewValidationError("slug", "is already taken")
	}
	return fmt.Errorf("%s: %w", op, err)
}

// GetBySlug returns the invitation at slug. With publishedOnly, drafts are
// reported as not found.
func (r *Repository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Invitation, error) {
	q := `SELECT ` + columns + ` FROM invitations WHERE slug = $1`
	if publishedOnly {
		q += ` AND published = TRUE`
	}
	inv, err := scanInvitation(r.pool.QueryRow(ctx, q, slug))
	if err != nil {
		return nil, mapErr("get invitation by slug", slug, err)
	}
	return inv, nil
}

// GetByID returns an invitation by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	inv, err := scanInvitation(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM invitations WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr("get invitation", id.String(), err)
	}
	return inv, nil
}

// Insert creates a new invitation and fills in its id and timestamps.
func (r *Repository) Insert(ctx context.Context, inv *models.Invitation) error {
	const q = `INSERT INTO invitations (id, owner_id, slug, template_id, published, bride_name, groom_name,
		bride_initial, groom_initial, event_date, event_time, venue_name, venue_address, map_url, schedule_items,
		story_text, hero_image_url, audio_url, theme_tokens, rsvp_enabled, rsvp_deadline, skip_envelope)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id, view_count, created_at, updated_at`
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, q, inv.OwnerID, inv.Slug, inv.TemplateID, inv.Published, inv.BrideName, inv.GroomName,
		inv.BrideInitial, inv.GroomInitial, inv.EventDate.Time, inv.EventTime, inv.VenueName, inv.VenueAddress, inv.MapURL,
		scheduleArg(inv.ScheduleItems), inv.StoryText, inv.HeroImageURL, inv.AudioURL, inv.ThemeTokens, inv.RSVPEnabled,
		deadlineArg(inv.RSVPDeadline), inv.SkipEnvelope).
		Scan(&id, &inv.ViewCount, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return mapErr("insert invitation", inv.Slug, err)
	}
	inv.ID = &id
	return nil
}

// Replace overwrites every editable field of the invitation with inv.ID.
// Owner, view count and creation time are left alone. Last write wins.
func (r *Repository) Replace(ctx context.Context, inv *models.Invitation) error {
	if !inv.Persisted() {
		return apperrors.NewNotFoundError("invitation", "")
	}
	const q = `UPDATE invitations SET slug = $1, template_id = $2, published = $3, bride_name = $4, groom_name = $5,
		bride_initial = $6, groom_initial = $7, event_date = $8, event_time = $9, venue_name = $10, venue_address = $11,
		map_url = $12, schedule_items = $13, story_text = $14, hero_image_url = $15, audio_url = $16, theme_tokens = $17,
		rsvp_enabled = $18, rsvp_deadline = $19, skip_envelope = $20, updated_at = NOW()
		WHERE id = $21
		RETURNING view_count, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, inv.Slug, inv.TemplateID, inv.Published, inv.BrideName, inv.GroomName,
		inv.BrideInitial, inv.GroomInitial, inv.EventDate.Time, inv.EventTime, inv.VenueName, inv.VenueAddress,
		inv.MapURL, scheduleArg(inv.ScheduleItems), inv.StoryText, inv.HeroImageURL, inv.AudioURL, inv.ThemeTokens,
		inv.RSVPEnabled, deadlineArg(inv.RSVPDeadline), inv.SkipEnvelope, *inv.ID).
		Scan(&inv.ViewCount, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return mapErr("replace invitation", inv.ID.String(), err)
	}
	return nil
}

// ListByOwner returns an owner's invitations, newest first. A nil owner
// lists everything.
func (r *Repository) ListByOwner(ctx context.Context, ownerID *uuid.UUID) ([]models.Invitation, error) {
	base := `SELECT ` + columns + ` FROM invitations`
	var args []interface{}
	var cond string
	if ownerID != nil {
		cond = " WHERE owner_id = $1"
		args = append(args, *ownerID)
	}
	rows, err := r.pool.Query(ctx, base+cond+" ORDER BY created_at DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	var list []models.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		list = append(list, *inv)
	}
	return list, rows.Err()
}

// Delete removes an invitation and, through the foreign key, its RSVPs.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("invitation", id.String())
	}
	return nil
}

// SlugExists reports whether any invitation, published or not, uses slug.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invitations WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// URLReferenced reports whether any invitation uses url as its hero image
// or audio.
func (r *Repository) URLReferenced(ctx context.Context, url string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM invitations WHERE hero_image_url = $1 OR audio_url = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, q, url).Scan(&exists); err != nil {
		return false, fmt.Errorf("check asset reference: %w", err)
	}
	return exists, nil
}

// AddViews adds n to the stored view count of the invitation with id.
func (r *Repository) AddViews(ctx context.Context, id uuid.UUID, n int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE invitations SET view_count = view_count + $1 WHERE id = $2`, n, id)
	if err != nil {
		return fmt.Errorf("add views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("invitation", id.String())
	}
	return nil
}
