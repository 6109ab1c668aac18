package analytics

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aura-invites/backend/internal/invites"
	"github.com/aura-invites/backend/internal/models"
	"github.com/aura-invites/backend/internal/rsvp"
	"github.com/aura-invites/backend/pkg/response"
)

// PendingViews reports page views not yet flushed to the database.
type PendingViews interface {
	Pending(ctx context.Context, id uuid.UUID) (int64, error)
}

// RSVPLister lists the responses of an invitation.
type RSVPLister interface {
	List(ctx context.Context, inviteID uuid.UUID) ([]models.RSVP, error)
}

// Handler handles GET /api/admin/invites/:id/stats.
type Handler struct {
	views  PendingViews
	rsvps  RSVPLister
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewHandler creates an analytics handler. Days until the event are counted
// in loc.
func NewHandler(views PendingViews, rsvps RSVPLister, loc *time.Location, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{views: views, rsvps: rsvps, loc: loc, now: time.Now, logger: logger}
}

// StatsResponse is the JSON shape of the invitation dashboard card.
type StatsResponse struct {
	InviteID     uuid.UUID    `json:"invite_id"`
	Slug         string       `json:"slug"`
	Published    bool         `json:"published"`
	Views        int64        `json:"views"`
	RSVP         rsvp.Summary `json:"rsvp"`
	RSVPOpen     bool         `json:"rsvp_open"`
	DaysUntil    int          `json:"days_until"`
	ResponseRate *float64     `json:"response_rate,omitempty"`
}

// GetByInvite handles GET /api/admin/invites/:id/stats. Ownership is
// enforced by route middleware.
func (h *Handler) GetByInvite(c *gin.Context) {
	v, ok := c.Get(invites.ContextInvite)
	inv, _ := v.(*models.Invitation)
	if !ok || inv == nil || inv.ID == nil {
		response.NotFound(c, "invitation not found")
		return
	}
	ctx := c.Request.Context()

	views := inv.ViewCount
	if h.views != nil {
		pending, err := h.views.Pending(ctx, *inv.ID)
		if err != nil {
			h.logger.Warn("pending views unavailable", zap.String("invite_id", inv.ID.String()), zap.Error(err))
		}
		views += pending
	}

	list, err := h.rsvps.List(ctx, *inv.ID)
	if err != nil {
		h.logger.Error("stats rsvp list failed", zap.Error(err), zap.String("invite_id", inv.ID.String()))
		response.FromError(c, err)
		return
	}
	now := h.now()
	out := StatsResponse{
		InviteID:  *inv.ID,
		Slug:      inv.Slug,
		Published: inv.Published,
		Views:     views,
		RSVP:      rsvp.Summarize(list),
		RSVPOpen:  inv.RSVPEnabled && !inv.RSVPClosed(now),
		DaysUntil: daysUntil(inv.EventDate, now.In(h.loc)),
	}
	if views > 0 {
		rate := float64(out.RSVP.Total) / float64(views)
		out.ResponseRate = &rate
	}
	response.OK(c, out)
}

// daysUntil counts calendar days from today to the event; negative once it
// has passed.
func daysUntil(event models.Date, today time.Time) int {
	from := models.DateOf(today)
	return int(event.Sub(from.Time).Hours() / 24)
}
