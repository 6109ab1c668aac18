package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aura-invites/backend/internal/auth"
	"github.com/aura-invites/backend/internal/models"
	"github.com/aura-invites/backend/pkg/response"
)

// Context keys set by JWT for the authenticated operator.
const (
	ContextUserID    = "user_id"    // uuid.UUID
	ContextUserRole  = "user_role"  // models.Role
	ContextUserEmail = "user_email" // string
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// JWT rejects requests without a valid bearer token and stores the
// operator's identity in the gin context.
func JWT(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := tokens.Validate(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// Caller returns the operator identity stored by JWT. ok is false on
// routes the middleware did not run for.
func Caller(c *gin.Context) (id uuid.UUID, role models.Role, ok bool) {
	id, okID := c.Value(ContextUserID).(uuid.UUID)
	role, okRole := c.Value(ContextUserRole).(models.Role)
	return id, role, okID && okRole && role.Valid()
}
