// Package invites manages invitation records: operator CRUD, the public
// page, the demo gallery and calendar downloads.
package invites

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/aura-invites/backend/internal/catalog"
	"github.com/aura-invites/backend/internal/models"
	"github.com/aura-invites/backend/internal/validation"
	apperrors "github.com/aura-invites/backend/pkg/errors"
)

// Store persists invitation records. Missing records are reported as
// NotFoundError and slug collisions as a ValidationError on "slug".
type Store interface {
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Invitation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error)
	Insert(ctx context.Context, inv *models.Invitation) error
	Replace(ctx context.Context, inv *models.Invitation) error
	ListByOwner(ctx context.Context, ownerID *uuid.UUID) ([]models.Invitation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	URLReferenced(ctx context.Context, url string) (bool, error)
}

// AssetCleaner schedules removal of uploaded files no record points to.
type AssetCleaner interface {
	EnqueueAssetCleanup(ctx context.Context, url string) error
}

const (
	minSlugLen      = 3
	maxSlugLen      = 80
	maxSlugAttempts = 50
)

// Input is the editable surface of an invitation.
type Input struct {
	Slug          string                `json:"slug" validate:"omitempty,slug,min=3,max=80"`
	TemplateID    models.TemplateID     `json:"template_id" validate:"template_id"`
	Published     bool                  `json:"published"`
	BrideName     string                `json:"bride_name" validate:"required,trimmed_min=2,max=100"`
	GroomName     string                `json:"groom_name" validate:"required,trimmed_min=2,max=100"`
	BrideInitial  string                `json:"bride_initial" validate:"omitempty,single_char"`
	GroomInitial  string                `json:"groom_initial" validate:"omitempty,single_char"`
	EventDate     string                `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventTime     string                `json:"event_time" validate:"required,clock"`
	VenueName     string                `json:"venue_name" validate:"required,trimmed_min=2,max=200"`
	VenueAddress  string                `json:"venue_address" validate:"required,trimmed_min=5,max=500"`
	MapURL        string                `json:"map_url" validate:"omitempty,url"`
	ScheduleItems []models.ScheduleItem `json:"schedule_items" validate:"max=30,dive"`
	StoryText     string                `json:"story_text" validate:"max=5000"`
	HeroImageURL  string                `json:"hero_image_url" validate:"omitempty,url"`
	AudioURL      string                `json:"audio_url" validate:"omitempty,url"`
	ThemeTokens   models.ThemeTokens    `json:"theme_tokens"`
	RSVPEnabled   bool                  `json:"rsvp_enabled"`
	RSVPDeadline  string                `json:"rsvp_deadline" validate:"omitempty,datetime=2006-01-02"`
	SkipEnvelope  bool                  `json:"skip_envelope"`
}

func (in Input) normalized() Input {
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	in.BrideName = strings.TrimSpace(in.BrideName)
	in.GroomName = strings.TrimSpace(in.GroomName)
	in.BrideInitial = strings.TrimSpace(in.BrideInitial)
	in.GroomInitial = strings.TrimSpace(in.GroomInitial)
	in.EventTime = strings.TrimSpace(in.EventTime)
	in.VenueName = strings.TrimSpace(in.VenueName)
	in.VenueAddress = strings.TrimSpace(in.VenueAddress)
	in.MapURL = strings.TrimSpace(in.MapURL)
	in.HeroImageURL = strings.TrimSpace(in.HeroImageURL)
	in.AudioURL = strings.TrimSpace(in.AudioURL)
	return in
}

// apply copies the validated input onto inv.
func (in Input) apply(inv *models.Invitation) error {
	date, err := models.ParseDate(in.EventDate)
	if err != nil {
		return apperrors.NewValidationError("event_date", "must be a YYYY-MM-DD date")
	}
	inv.RSVPDeadline = nil
	if in.RSVPDeadline != "" {
		d, err := models.ParseDate(in.RSVPDeadline)
		if err != nil {
			return apperrors.NewValidationError("rsvp_deadline", "must be a YYYY-MM-DD date")
		}
		inv.RSVPDeadline = &d
	}
	if in.Slug != "" {
		inv.Slug = in.Slug
	}
	inv.TemplateID = catalog.CoerceID(string(in.TemplateID))
	inv.Published = in.Published
	inv.BrideName = in.BrideName
	inv.GroomName = in.GroomName
	inv.BrideInitial = initial(in.BrideInitial, in.BrideName)
	inv.GroomInitial = initial(in.GroomInitial, in.GroomName)
	inv.EventDate = date
	inv.EventTime = in.EventTime
	inv.VenueName = in.VenueName
	inv.VenueAddress = in.VenueAddress
	inv.MapURL = in.MapURL
	inv.ScheduleItems = append([]models.ScheduleItem{}, in.ScheduleItems...)
	inv.StoryText = in.StoryText
	inv.HeroImageURL = in.HeroImageURL
	inv.AudioURL = in.AudioURL
	inv.ThemeTokens = in.ThemeTokens.WithDefaults()
	inv.RSVPEnabled = in.RSVPEnabled
	inv.SkipEnvelope = in.SkipEnvelope
	return nil
}

// initial returns explicit when set, otherwise the upper-cased first rune
// of name.
func initial(explicit, name string) string {
	if explicit != "" {
		return explicit
	}
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return ""
	}
	return strings.ToUpper(string(r))
}

// Service implements invitation management on top of a Store.
type Service struct {
	store   Store
	cleaner AssetCleaner
	logger  *zap.Logger
}

// NewService creates an invitation service. cleaner may be nil.
func NewService(store Store, cleaner AssetCleaner, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cleaner: cleaner, logger: logger}
}

// storeErr passes typed errors through and wraps anything else as a
// PersistenceError.
func storeErr(op string, err error) error {
	if apperrors.IsNotFound(err) || apperrors.IsValidation(err) || apperrors.IsPersistence(err) {
		return err
	}
	return apperrors.NewPersistenceError(op, err)
}

// Published returns the published invitation at slug.
func (s *Service) Published(ctx context.Context, slug string) (*models.Invitation, error) {
	inv, err := s.store.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)), true)
	if err != nil {
		return nil, storeErr("get invitation", err)
	}
	return inv, nil
}

// Get returns an invitation by id regardless of publication.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	inv, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get invitation", err)
	}
	return inv, nil
}

// List returns the invitations of owner; nil lists all of them.
func (s *Service) List(ctx context.Context, owner *uuid.UUID) ([]models.Invitation, error) {
	list, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, storeErr("list invitations", err)
	}
	return list, nil
}

// Create validates in and stores a new invitation for owner. Without a
// slug one is suggested from the couple's names.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, in Input) (*models.Invitation, error) {
	in = in.normalized()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	inv := &models.Invitation{OwnerID: owner}
	if err := in.apply(inv); err != nil {
		return nil, err
	}
	if inv.Slug == "" {
		suggested, err := s.uniqueSlug(ctx, SuggestSlug(inv.BrideName, inv.GroomName))
		if err != nil {
			return nil, err
		}
		inv.Slug = suggested
	} else if err := s.ensureFree(ctx, inv.Slug); err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, inv); err != nil {
		return nil, storeErr("insert invitation", err)
	}
	s.logger.Info("invitation created", zap.String("invite_id", inv.ID.String()), zap.String("slug", inv.Slug))
	return inv, nil
}

// Replace overwrites the invitation with id. Hero image and audio files that
// are no longer referenced are queued for removal.
func (s *Service) Replace(ctx context.Context, id uuid.UUID, in Input) (*models.Invitation, error) {
	in = in.normalized()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get invitation", err)
	}
	next := *existing
	if err := in.apply(&next); err != nil {
		return nil, err
	}
	if next.Slug != existing.Slug {
		if err := s.ensureFree(ctx, next.Slug); err != nil {
			return nil, err
		}
	}
	if err := s.store.Replace(ctx, &next); err != nil {
		return nil, storeErr("replace invitation", err)
	}
	s.cleanup(ctx, existing.HeroImageURL, next.HeroImageURL)
	s.cleanup(ctx, existing.AudioURL, next.AudioURL)
	return &next, nil
}

// Delete removes the invitation and queues its uploaded files for removal.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return storeErr("get invitation", err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return storeErr("delete invitation", err)
	}
	s.cleanup(ctx, existing.HeroImageURL, "")
	s.cleanup(ctx, existing.AudioURL, "")
	return nil
}

// Duplicate copies the invitation with id into a new unpublished draft
// owned by caller. The copy gets a fresh slug derived from the source and
// starts with zero views. Uploaded files are shared with the source until
// either side replaces them; cleanup keeps a file while any record uses it.
func (s *Service) Duplicate(ctx context.Context, id, caller uuid.UUID) (*models.Invitation, error) {
	src, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get invitation", err)
	}
	cp := *src
	cp.ID = nil
	cp.OwnerID = caller
	cp.Published = false
	cp.ViewCount = 0
	cp.ScheduleItems = append([]models.ScheduleItem{}, src.ScheduleItems...)
	if src.RSVPDeadline != nil {
		d := *src.RSVPDeadline
		cp.RSVPDeadline = &d
	}
	cp.Slug, err = s.uniqueSlug(ctx, src.Slug+"-copy")
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, &cp); err != nil {
		return nil, storeErr("insert invitation", err)
	}
	s.logger.Info("invitation duplicated",
		zap.String("source_id", id.String()),
		zap.String("invite_id", cp.ID.String()),
		zap.String("slug", cp.Slug))
	return &cp, nil
}

// SuggestSlug builds a URL slug from the couple's names, e.g. "ayse-mehmet".
func SuggestSlug(bride, groom string) string {
	return trimSlug(slug.Make(strings.TrimSpace(bride+" "+groom)), maxSlugLen)
}

func trimSlug(s string, n int) string {
	if len(s) > n {
		s = strings.TrimRight(s[:n], "-")
	}
	return s
}

func (s *Service) ensureFree(ctx context.Context, candidate string) error {
	taken, err := s.store.SlugExists(ctx, candidate)
	if err != nil {
		return storeErr("check slug", err)
	}
	if taken {
		return apperrors.NewValidationError("slug", "is already taken")
	}
	return nil
}

// uniqueSlug returns base, or base with the first free numeric suffix.
func (s *Service) uniqueSlug(ctx context.Context, base string) (string, error) {
	// leave room for a "-NN" or "-xxxxxxxx" suffix
	base = trimSlug(slug.Make(base), maxSlugLen-9)
	if len(base) < minSlugLen {
		base = strings.Trim("davet-"+base, "-")
	}
	for i := 1; i <= maxSlugAttempts; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		taken, err := s.store.SlugExists(ctx, candidate)
		if err != nil {
			return "", storeErr("check slug", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return base + "-" + uuid.NewString()[:8], nil
}

// cleanup queues before for removal once no invitation points to it.
func (s *Service) cleanup(ctx context.Context, before, after string) {
	if s.cleaner == nil || before == "" || before == after {
		return
	}
	inUse, err := s.store.URLReferenced(ctx, before)
	if err != nil {
		s.logger.Warn("asset reference check failed, keeping file", zap.String("url", before), zap.Error(err))
		return
	}
	if inUse {
		s.logger.Debug("asset still referenced, keeping file", zap.String("url", before))
		return
	}
	apperrors.BestEffort(s.logger, "enqueue asset cleanup", s.cleaner.EnqueueAssetCleanup(ctx, before))
}
