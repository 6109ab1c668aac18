package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aura-invites/backend/internal/models"
	apperrors "github.com/aura-invites/backend/pkg/errors"
	"github.com/aura-invites/backend/pkg/response"
	"github.com/aura-invites/backend/pkg/utils"
)

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"required,max=200"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.Profile `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo   Store
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo Store, jwt *JWTService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, jwt: jwt, logger: logger}
}

// Register handles POST /auth/register. The first account becomes the
// admin; every later one is an operator.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := h.repo.GetByEmail(ctx, email); err == nil {
		response.Invalid(c, map[string]string{"email": "is already registered"})
		return
	} else if !apperrors.IsNotFound(err) {
		h.logger.Error("register lookup failed", zap.Error(err))
		response.ServiceUnavailable(c, response.MsgRetry)
		return
	}

	role := models.RoleOperator
	n, err := h.repo.Count(ctx)
	if err != nil {
		h.logger.Error("count users failed", zap.Error(err))
		response.ServiceUnavailable(c, response.MsgRetry)
		return
	}
	if n == 0 {
		role = models.RoleAdmin
	}

	hash, err := utils.HashPassword(req.Password)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		response.Invalid(c, map[string]string{"password": "is too long"})
		return
	}
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	user, err := h.repo.Create(ctx, email, hash, strings.TrimSpace(req.FullName), role)
	if err != nil {
		if !apperrors.IsValidation(err) {
			h.logger.Error("create user failed", zap.Error(err))
			err = apperrors.NewPersistenceError("create user", err)
		}
		response.FromError(c, err)
		return
	}

	token, err := h.jwt.Generate(user)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	h.logger.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("role", string(role)))
	response.Created(c, TokenResponse{Token: token, User: user.Profile()})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if !apperrors.IsNotFound(err) {
			h.logger.Error("login lookup failed", zap.Error(err))
		}
		response.Unauthorized(c, "invalid email or password")
		return
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	token, err := h.jwt.Generate(user)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.OK(c, TokenResponse{Token: token, User: user.Profile()})
}

// List handles GET /api/admin/users (admin only).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		response.ServiceUnavailable(c, response.MsgRetry)
		return
	}
	if list == nil {
		list = []models.Profile{}
	}
	response.OK(c, list)
}
