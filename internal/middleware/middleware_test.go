package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aura-invites/backend/internal/auth"
	"github.com/aura-invites/backend/internal/models"
)

func TestJWTAndRole(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	svc := auth.NewJWTService("secret", 1)
	userID := uuid.New()
	operator, err := svc.Generate(&models.User{ID: userID, Email: "op@example.com", Role: models.RoleOperator})
	require.NoError(t, err)
	admin, err := svc.Generate(&models.User{ID: uuid.New(), Email: "admin@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", JWT(svc), func(c *gin.Context) {
		c.String(http.StatusOK, c.MustGet(ContextUserID).(uuid.UUID).String())
	})
	r.GET("/users", JWT(svc), RequireRole(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic " + operator, http.StatusUnauthorized},
		{"garbage token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"operator", "/me", "Bearer " + operator, http.StatusOK},
		{"operator on admin route", "/users", "Bearer " + operator, http.StatusForbidden},
		{"admin", "/users", "Bearer " + admin, http.StatusOK},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		r.ServeHTTP(w, req)
		require.Equal(t, tc.want, w.Code, tc.name)
		if tc.name == "operator" {
			require.Equal(t, userID.String(), w.Body.String())
		}
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORS("https://studio.example, https://admin.example"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://admin.example")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "https://admin.example", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Origin", w.Header().Get("Vary"))
	require.Equal(t, "Content-Disposition", w.Header().Get("Access-Control-Expose-Headers"))
	methods := w.Header().Get("Access-Control-Allow-Methods")
	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		require.Contains(t, methods, m)
	}
	require.NotContains(t, methods, http.MethodPatch, "no route accepts PATCH")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
}

func TestCallerNeedsTypedRole(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	id := uuid.New()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, _, ok := Caller(c)
	require.False(t, ok)

	c.Set(ContextUserID, id)
	c.Set(ContextUserRole, "admin")
	_, _, ok = Caller(c)
	require.False(t, ok, "a bare string is not a role")

	c.Set(ContextUserRole, models.RoleAdmin)
	gotID, role, ok := Caller(c)
	require.True(t, ok)
	require.Equal(t, id, gotID)
	require.Equal(t, models.RoleAdmin, role)
}

func TestLoggerLevels(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/i/:slug", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, p := range []string{"/health", "/i/yok", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	require.Equal(t, "/i/:slug", entries[0].ContextMap()["route"])
	require.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
