package media

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aura-invites/backend/internal/middleware"
	apperrors "github.com/aura-invites/backend/pkg/errors"
	"github.com/aura-invites/backend/pkg/response"
)

// RemoveRequest is the body for DELETE /uploads.
type RemoveRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// Handler serves the operator upload endpoints.
type Handler struct {
	blobs  BlobStore
	logger *zap.Logger
}

// NewHandler creates a media handler.
func NewHandler(blobs BlobStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{blobs: blobs, logger: logger}
}

// Upload handles POST /uploads (multipart: "file", "folder").
func (h *Handler) Upload(c *gin.Context) {
	owner, _, ok := middleware.Caller(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.Invalid(c, map[string]string{"file": "is required"})
		return
	}
	folder := c.PostForm("folder")
	// reject before the part is opened
	if _, _, err := Check(folder, fh.Filename, fh.Header.Get("Content-Type"), fh.Size); err != nil {
		response.FromError(c, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "unreadable file")
		return
	}
	defer f.Close()

	url, err := h.blobs.Upload(c.Request.Context(), owner, folder, fh.Filename, fh.Header.Get("Content-Type"), f, fh.Size)
	if err != nil {
		if !apperrors.IsValidation(err) {
			h.logger.Error("upload failed", zap.Error(err), zap.String("folder", folder))
		}
		response.FromError(c, err)
		return
	}
	response.Created(c, gin.H{"url": url, "folder": folder, "size": fh.Size})
}

// Remove handles DELETE /uploads. Operators may only remove their own files.
func (h *Handler) Remove(c *gin.Context) {
	caller, role, ok := middleware.Caller(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	var req RemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.blobs.RemoveAs(c.Request.Context(), caller, role, req.URL); err != nil {
		if !apperrors.IsValidation(err) && !apperrors.IsForbidden(err) {
			h.logger.Error("remove failed", zap.Error(err))
		}
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}
