// Package rsvp collects guest responses for published invitations.
package rsvp

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aura-invites/backend/internal/models"
	"github.com/aura-invites/backend/internal/validation"
	apperrors "github.com/aura-invites/backend/pkg/errors"
)

// Store persists RSVP records.
type Store interface {
	Insert(ctx context.Context, rec *models.RSVP) error
	ListByInvite(ctx context.Context, inviteID uuid.UUID) ([]models.RSVP, error)
}

// InviteLookup resolves the invitation a response belongs to. A missing
// record must be reported as a NotFoundError.
type InviteLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error)
}

// FormInput is the guest-submitted form.
type FormInput struct {
	Name             string                  `json:"name" form:"name" validate:"required,trimmed_min=2,max=200"`
	Email            string                  `json:"email" form:"email" validate:"required,email,max=254"`
	AttendanceStatus models.AttendanceStatus `json:"attendance_status" form:"attendance_status" validate:"required,attendance"`
	GuestCount       int                     `json:"guest_count" form:"guest_count" validate:"gte=1,lte=10"`
	Message          string                  `json:"message" form:"message" validate:"max=1000"`
}

func (in FormInput) normalized() FormInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	return in
}

// Service validates and stores responses.
type Service struct {
	store   Store
	invites InviteLookup
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates an RSVP service.
func NewService(store Store, invites InviteLookup, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, invites: invites, logger: logger, now: time.Now}
}

// InLocation makes deadline checks use the calendar date in loc.
func (s *Service) InLocation(loc *time.Location) *Service {
	if loc != nil {
		s.now = func() time.Time { return time.Now().In(loc) }
	}
	return s
}

// Submit validates in and persists it against inviteID. Validation runs
// before any store access. Store failures surface as PersistenceError and
// are never retried here.
func (s *Service) Submit(ctx context.Context, inviteID uuid.UUID, in FormInput) (*models.RSVP, error) {
	in = in.normalized()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	inv, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, apperrors.NewPersistenceError("load invitation", err)
	}
	if !inv.RSVPEnabled {
		return nil, apperrors.NewNotFoundError("invitation", inviteID.String())
	}
	if inv.RSVPClosed(s.now()) {
		return nil, apperrors.NewValidationError("invite", "rsvp deadline has passed")
	}

	rec := &models.RSVP{
		InviteID:         inviteID,
		Name:             in.Name,
		Email:            in.Email,
		AttendanceStatus: in.AttendanceStatus,
		GuestCount:       in.GuestCount,
		Message:          in.Message,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		s.logger.Error("insert rsvp failed", zap.Error(err), zap.String("invite_id", inviteID.String()))
		return nil, apperrors.NewPersistenceError("insert rsvp", err)
	}
	s.logger.Info("rsvp received",
		zap.String("invite_id", inviteID.String()),
		zap.String("status", string(rec.AttendanceStatus)),
		zap.Int("guest_count", rec.GuestCount))
	return rec, nil
}

// List returns every response for an invitation, newest first.
func (s *Service) List(ctx context.Context, inviteID uuid.UUID) ([]models.RSVP, error) {
	list, err := s.store.ListByInvite(ctx, inviteID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list rsvps", err)
	}
	return list, nil
}

// Summary aggregates responses per status.
type Summary struct {
	Total           int `json:"total"`
	Attending       int `json:"attending"`
	Maybe           int `json:"maybe"`
	NotAttending    int `json:"not_attending"`
	AttendingGuests int `json:"attending_guests"`
}

// Summarize counts responses. AttendingGuests sums the guest counts of
// attending rows only.
func Summarize(list []models.RSVP) Summary {
	var s Summary
	for _, r := range list {
		s.Total++
		switch r.AttendanceStatus {
		case models.AttendanceAttending:
			s.Attending++
			s.AttendingGuests += r.GuestCount
		case models.AttendanceMaybe:
			s.Maybe++
		case models.AttendanceNotAttending:
			s.NotAttending++
		}
	}
	return s
}
