package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"equipment-rental/internal/authz"
	"equipment-rental/pkg/service"
	"equipment-rental/pkg/utils"
)

func newTestServer(t *testing.T) (*echo.Echo, service.JWTService) {
	t.Helper()
	jwtSvc := service.NewJWTService("test-secret", time.Hour, zap.NewNop())
	mw := NewAuthMiddleware(jwtSvc, zap.NewNop())

	e := echo.New()
	g := e.Group("/api", mw.Auth)
	g.GET("/whoami", func(c echo.Context) error {
		id, err := utils.GetUserIDFromCtx(c.Request().Context())
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, id.String())
	})
	g.DELETE("/things", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, mw.RequirePermission(authz.EquipmentDelete))
	return e, jwtSvc
}

func TestAuth(t *testing.T) {
	e, jwtSvc := newTestServer(t)
	userID := uuid.New()
	token, err := jwtSvc.GenerateAccessToken(userID, "COMMERCIAL")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tc.code, rec.Code)
			if tc.code == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Body.String())
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	e, jwtSvc := newTestServer(t)

	for role, code := range map[string]int{"ADMIN": http.StatusNoContent, "MAINTENANCE": http.StatusForbidden, "TECHNICIEN": http.StatusForbidden} {
		token, err := jwtSvc.GenerateAccessToken(uuid.New(), role)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodDelete, "/api/things", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, code, rec.Code, role)
	}
}
