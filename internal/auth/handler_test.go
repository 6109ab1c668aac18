package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aura-invites/backend/internal/models"
	apperrors "github.com/aura-invites/backend/pkg/errors"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*models.User{}} }

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.NewNotFoundError("user", email)
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Create(_ context.Context, email, hash, name string, role models.Role) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; ok {
		return nil, apperrors.NewValidationError("email", "is already registered")
	}
	u := &models.User{ID: uuid.New(), Email: email, PasswordHash: hash, FullName: name, Role: role, CreatedAt: time.Now()}
	m.users[email] = u
	cp := *u
	return &cp, nil
}

func (m *memUsers) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func (m *memUsers) List(context.Context) ([]models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Profile
	for _, u := range m.users {
		out = append(out, u.Profile())
	}
	return out, nil
}

func authRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

type tokenBody struct {
	Data TokenResponse `json:"data"`
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	jwtSvc := NewJWTService("test-secret", 1)
	r := authRouter(NewHandler(newMemUsers(), jwtSvc, nil))

	w := post(r, "/auth/register", `{"email":"Owner@Example.com","password":"s3cret-pass","full_name":"Deniz"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var first tokenBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.Equal(t, models.RoleAdmin, first.Data.User.Role)
	require.Equal(t, "owner@example.com", first.Data.User.Email)

	w = post(r, "/auth/register", `{"email":"op@example.com","password":"s3cret-pass","full_name":"Ece"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var second tokenBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	require.Equal(t, models.RoleOperator, second.Data.User.Role)

	claims, err := jwtSvc.Validate(second.Data.Token)
	require.NoError(t, err)
	require.Equal(t, second.Data.User.ID, claims.UserID)
	require.Equal(t, models.RoleOperator, claims.Role)
	require.Equal(t, second.Data.User.ID.String(), claims.Subject)

	w = post(r, "/auth/register", `{"email":"op@example.com","password":"another-pass","full_name":"Ece"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = post(r, "/auth/login", `{"email":"op@example.com","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = post(r, "/auth/login", `{"email":"op@example.com","password":"wrong-pass"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(r, "/auth/login", `{"email":"nobody@example.com","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	r := authRouter(NewHandler(newMemUsers(), NewJWTService("s", 1), nil))
	require.Equal(t, http.StatusBadRequest, post(r, "/auth/register", `{"email":"x","password":"s3cret-pass","full_name":"A"}`).Code)
	require.Equal(t, http.StatusBadRequest, post(r, "/auth/register", `{"email":"a@b.co","password":"short","full_name":"A"}`).Code)
}

func TestJWTRejectsForeignTokens(t *testing.T) {
	t.Parallel()

	op := &models.User{ID: uuid.New(), Email: "a@b.co", Role: models.RoleOperator}
	a := NewJWTService("secret-a", 1)
	b := NewJWTService("secret-b", 1)
	tok, err := a.Generate(op)
	require.NoError(t, err)
	_, err = b.Validate(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWTService("secret-a", -1)
	tok, err = expired.Generate(op)
	require.NoError(t, err)
	_, err = a.Validate(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: op.ID,
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tok, err = foreign.SignedString([]byte("secret-a"))
	require.NoError(t, err)
	_, err = a.Validate(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           op.ID,
		Role:             models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer},
	})
	tok, err = noExpiry.SignedString([]byte("secret-a"))
	require.NoError(t, err)
	_, err = a.Validate(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: op.ID,
		Role:   models.Role("owner"),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tok, err = forged.SignedString([]byte("secret-a"))
	require.NoError(t, err)
	_, err = a.Validate(tok)
	require.ErrorIs(t, err, ErrInvalidToken, "unknown roles never pass")
}

func TestGenerateNeedsKnownRole(t *testing.T) {
	t.Parallel()

	svc := NewJWTService("s", 1)
	_, err := svc.Generate(nil)
	require.ErrorIs(t, err, ErrUnknownRole)
	_, err = svc.Generate(&models.User{ID: uuid.New(), Role: "guest"})
	require.ErrorIs(t, err, ErrUnknownRole)
}
