package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	apperrors "github.com/aura-invites/backend/pkg/errors"
)

func TestFromError(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		check  func(t *testing.T, body Body)
	}{
		{
			name:   "validation",
			err:    apperrors.NewValidationError("name", "must be at least 2 characters"),
			status: http.StatusBadRequest,
			check: func(t *testing.T, body Body) {
				require.Equal(t, "must be at least 2 characters", body.Fields["name"])
			},
		},
		{
			name:   "not found",
			err:    apperrors.NewNotFoundError("invitation", "ayse-mehmet"),
			status: http.StatusNotFound,
			check: func(t *testing.T, body Body) {
				require.Equal(t, "invitation not found: ayse-mehmet", body.Error)
			},
		},
		{
			name:   "forbidden",
			err:    apperrors.NewForbiddenError("asset"),
			status: http.StatusForbidden,
			check: func(t *testing.T, body Body) {
				require.Equal(t, "not allowed to modify asset", body.Error)
			},
		},
		{
			name:   "persistence hides detail",
			err:    apperrors.NewPersistenceError("insert rsvp", errors.New("dial tcp 10.0.0.5:5432: refused")),
			status: http.StatusServiceUnavailable,
			check: func(t *testing.T, body Body) {
				require.Equal(t, MsgRetry, body.Error)
			},
		},
		{
			name:   "unknown",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			check: func(t *testing.T, body Body) {
				require.Equal(t, MsgInternal, body.Error)
			},
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			FromError(c, tc.err)

			require.Equal(t, tc.status, w.Code)
			var body Body
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.False(t, body.Success)
			tc.check(t, body)
		})
	}
}
