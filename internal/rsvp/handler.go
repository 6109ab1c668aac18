package rsvp

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aura-invites/backend/internal/export"
	"github.com/aura-invites/backend/internal/i18n"
	"github.com/aura-invites/backend/pkg/response"
)

// Handler serves the public RSVP form endpoint and the owner views.
type Handler struct {
	svc    *Service
	local  *i18n.Localizer
	logger *zap.Logger
}

// NewHandler creates an RSVP handler.
func NewHandler(svc *Service, local *i18n.Localizer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if local == nil {
		local = i18n.New(i18n.DefaultLocale)
	}
	return &Handler{svc: svc, local: local, logger: logger}
}

// Submit handles POST /api/invites/:id/rsvps. Accepts JSON or a form post.
func (h *Handler) Submit(c *gin.Context) {
	inviteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid invite id")
		return
	}
	var in FormInput
	if err := c.ShouldBind(&in); err != nil {
		response.Invalid(c, map[string]string{"input": "invalid request: " + err.Error()})
		return
	}
	rec, err := h.svc.Submit(c.Request.Context(), inviteID, in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, gin.H{
		"rsvp":    rec,
		"message": h.local.T("rsvp.received"),
	})
}

// List handles GET /api/admin/invites/:id/rsvps.
func (h *Handler) List(c *gin.Context) {
	inviteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid invite id")
		return
	}
	list, err := h.svc.List(c.Request.Context(), inviteID)
	if err != nil {
		h.logger.Error("list rsvps failed", zap.Error(err), zap.String("invite_id", inviteID.String()))
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{
		"rsvps":   list,
		"summary": Summarize(list),
	})
}

// ExportCSV handles GET /api/admin/invites/:id/rsvps/export.csv. The
// optional "title" query names the file.
func (h *Handler) ExportCSV(c *gin.Context) {
	inviteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid invite id")
		return
	}
	list, err := h.svc.List(c.Request.Context(), inviteID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	local := h.local
	if lang := c.Query("lang"); lang != "" {
		local = i18n.New(lang)
	}
	var buf bytes.Buffer
	if err := export.WriteRSVPCSV(&buf, list, local); err != nil {
		h.logger.Error("write csv failed", zap.Error(err))
		response.Internal(c, response.MsgInternal)
		return
	}
	title := c.DefaultQuery("title", inviteID.String())
	c.Header("Content-Disposition", `attachment; filename="`+export.CSVFilename(title, time.Now())+`"`)
	c.Data(http.StatusOK, export.CSVContentType, buf.Bytes())
}
