package invites

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aura-invites/backend/internal/middleware"
	"github.com/aura-invites/backend/internal/models"
	"github.com/aura-invites/backend/pkg/response"
)

// ContextInvite is the context key for the invitation loaded by RequireOwner.
const ContextInvite = "invite"

// RequireOwner loads the invitation named by :id and lets the request through
// only for its owner or an admin. Call after JWT.
func RequireOwner(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "invalid invite id")
			c.Abort()
			return
		}
		inv, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}
		userID, role, _ := middleware.Caller(c)
		if !role.CanManage(userID, inv.OwnerID) {
			response.Forbidden(c, "not the owner of this invitation")
			c.Abort()
			return
		}
		c.Set(ContextInvite, inv)
		c.Next()
	}
}

func inviteFrom(c *gin.Context) *models.Invitation {
	inv, _ := c.Get(ContextInvite)
	out, _ := inv.(*models.Invitation)
	return out
}
