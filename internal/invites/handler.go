package invites

import (
	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aura-invites/backend/internal/catalog"
	"github.com/aura-invites/backend/internal/i18n"
	"github.com/aura-invites/backend/internal/middleware"
	"github.com/aura-invites/backend/internal/models"
	"github.com/aura-invites/backend/internal/render"
	apperrors "github.com/aura-invites/backend/pkg/errors"
	"github.com/aura-invites/backend/pkg/response"
)

// Handler serves the operator endpoints under /api/admin/invites.
type Handler struct {
	svc      *Service
	renderer *render.Renderer
	logger   *zap.Logger
}

// NewHandler creates an invitations handler.
func NewHandler(svc *Service, local *i18n.Localizer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, renderer: render.NewRenderer(local), logger: logger}
}

// List handles GET /invites. Admins see every invitation, operators their own.
func (h *Handler) List(c *gin.Context) {
	userID, role, _ := middleware.Caller(c)
	var owner *uuid.UUID
	if role != models.RoleAdmin {
		owner = &userID
	}
	list, err := h.svc.List(c.Request.Context(), owner)
	if err != nil {
		h.logger.Error("list invitations failed", zap.Error(err))
		response.FromError(c, err)
		return
	}
	if list == nil {
		list = []models.Invitation{}
	}
	response.OK(c, list)
}

// Create handles POST /invites.
func (h *Handler) Create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	inv, err := h.svc.Create(c.Request.Context(), userID, in)
	if err != nil {
		h.fail(c, "create invitation failed", err)
		return
	}
	response.Created(c, inv)
}

// Get handles GET /invites/:id.
func (h *Handler) Get(c *gin.Context) {
	response.OK(c, inviteFrom(c))
}

// Replace handles PUT /invites/:id.
func (h *Handler) Replace(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	inv, err := h.svc.Replace(c.Request.Context(), *inviteFrom(c).ID, in)
	if err != nil {
		h.fail(c, "replace invitation failed", err)
		return
	}
	response.OK(c, inv)
}

// Delete handles DELETE /invites/:id.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), *inviteFrom(c).ID); err != nil {
		h.fail(c, "delete invitation failed", err)
		return
	}
	response.NoContent(c)
}

// Duplicate handles POST /invites/:id/duplicate.
func (h *Handler) Duplicate(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	inv, err := h.svc.Duplicate(c.Request.Context(), *inviteFrom(c).ID, userID)
	if err != nil {
		h.fail(c, "duplicate invitation failed", err)
		return
	}
	response.Created(c, inv)
}

// Preview handles GET /invites/:id/preview. ?template= renders the record
// with another layout without saving it.
func (h *Handler) Preview(c *gin.Context) {
	inv := *inviteFrom(c)
	if t := c.Query("template"); t != "" {
		inv.TemplateID = catalog.CoerceID(t)
	}
	doc := h.renderer.Render(inv, true)
	if c.Query("format") == "json" {
		response.OK(c, doc)
		return
	}
	page := render.Page{
		Doc:   doc,
		Lang:  langOf(h.renderer.Localizer().Locale()),
		Local: h.renderer.Localizer(),
	}
	templ.Handler(render.HTML(page)).ServeHTTP(c.Writer, c.Request)
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	if !apperrors.IsValidation(err) && !apperrors.IsNotFound(err) {
		h.logger.Error(msg, zap.Error(err))
	}
	response.FromError(c, err)
}
