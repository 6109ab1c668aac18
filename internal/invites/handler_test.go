package invites

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aura-invites/backend/internal/i18n"
	"github.com/aura-invites/backend/internal/middleware"
	"github.com/aura-invites/backend/internal/models"
	"github.com/aura-invites/backend/pkg/response"
)

// asUser stands in for the JWT middleware.
func asUser(id uuid.UUID, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}
}

func adminRouter(svc *Service, user uuid.UUID, role models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, i18n.New("tr-TR"), nil)
	r := gin.New()
	g := r.Group("/api/admin", asUser(user, role))
	g.GET("/invites", h.List)
	g.POST("/invites", h.Create)
	owned := g.Group("/invites/:id", RequireOwner(svc))
	owned.GET("", h.Get)
	owned.PUT("", h.Replace)
	owned.DELETE("", h.Delete)
	owned.POST("/duplicate", h.Duplicate)
	owned.GET("/preview", h.Preview)
	return r
}

func send(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

type inviteBody struct {
	Success bool              `json:"success"`
	Data    models.Invitation `json:"data"`
}

func TestAdminCreateAndOwnership(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemStore(), nil, nil)
	owner, stranger, admin := uuid.New(), uuid.New(), uuid.New()
	asOwner := adminRouter(svc, owner, models.RoleOperator)

	w := send(asOwner, http.MethodPost, "/api/admin/invites", validInput())
	require.Equal(t, http.StatusCreated, w.Code)
	var created inviteBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "ayse-mehmet", created.Data.Slug)
	path := "/api/admin/invites/" + created.Data.ID.String()

	require.Equal(t, http.StatusOK, send(asOwner, http.MethodGet, path, nil).Code)
	require.Equal(t, http.StatusForbidden, send(adminRouter(svc, stranger, models.RoleOperator), http.MethodGet, path, nil).Code)
	require.Equal(t, http.StatusOK, send(adminRouter(svc, admin, models.RoleAdmin), http.MethodGet, path, nil).Code)
	require.Equal(t, http.StatusNotFound, send(asOwner, http.MethodGet, "/api/admin/invites/"+uuid.NewString(), nil).Code)
	require.Equal(t, http.StatusBadRequest, send(asOwner, http.MethodGet, "/api/admin/invites/nope", nil).Code)

	var list struct {
		Data []models.Invitation `json:"data"`
	}
	w = send(adminRouter(svc, stranger, models.RoleOperator), http.MethodGet, "/api/admin/invites", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Empty(t, list.Data)
}

func TestAdminValidationErrors(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemStore(), nil, nil)
	r := adminRouter(svc, uuid.New(), models.RoleOperator)

	in := validInput()
	in.EventDate = "15/06/2025"
	w := send(r, http.MethodPost, "/api/admin/invites", in)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body.Fields, "event_date")
}

func TestAdminReplaceDuplicateDelete(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemStore(), nil, nil)
	owner := uuid.New()
	r := adminRouter(svc, owner, models.RoleOperator)

	var created inviteBody
	require.NoError(t, json.Unmarshal(send(r, http.MethodPost, "/api/admin/invites", validInput()).Body.Bytes(), &created))
	path := "/api/admin/invites/" + created.Data.ID.String()

	in := validInput()
	in.VenueName = "Sait Halim Paşa Yalısı"
	w := send(r, http.MethodPut, path, in)
	require.Equal(t, http.StatusOK, w.Code)
	var replaced inviteBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &replaced))
	require.Equal(t, "Sait Halim Paşa Yalısı", replaced.Data.VenueName)
	require.Equal(t, created.Data.Slug, replaced.Data.Slug)

	w = send(r, http.MethodPost, path+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var dup inviteBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dup))
	require.Equal(t, "ayse-mehmet-copy", dup.Data.Slug)
	require.False(t, dup.Data.Published)

	w = send(r, http.MethodGet, path+"/preview?template=vintage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "template-vintage")

	require.Equal(t, http.StatusNoContent, send(r, http.MethodDelete, path, nil).Code)
	require.Equal(t, http.StatusNotFound, send(r, http.MethodGet, path, nil).Code)
}
