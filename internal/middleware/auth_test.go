package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/job_closing_service/internal/core/domain"
	"github.com/SscSPs/job_closing_service/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-test-secret"

func sign(t *testing.T, method jwt.SigningMethod, claims middleware.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter(issuer string, seen *map[string]domain.TenantRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(secret, issuer), func(c *gin.Context) {
		userID, _ := middleware.GetUserIDFromContext(c)
		*seen = middleware.GetTenantRolesFromCtx(c.Request.Context())
		c.String(http.StatusOK, userID)
	})
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	var roles map[string]domain.TenantRole
	r := newAuthRouter("", &roles)

	token := sign(t, jwt.SigningMethodHS256, middleware.Claims{
		TenantRoles: map[string]string{"acme": "admin"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	w := get(r, token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())
	assert.Equal(t, map[string]domain.TenantRole{"acme": domain.RoleAdmin}, roles)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	var roles map[string]domain.TenantRole

	expired := sign(t, jwt.SigningMethodHS256, middleware.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	noSubject := sign(t, jwt.SigningMethodHS256, middleware.Claims{})
	wrongAlg := sign(t, jwt.SigningMethodHS512, middleware.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	wrongIssuer := sign(t, jwt.SigningMethodHS256, middleware.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", Issuer: "someone-else"}})

	tests := []struct {
		name   string
		issuer string
		token  string
	}{
		{"missing header", "", ""},
		{"garbage", "", "not-a-jwt"},
		{"expired", "", expired},
		{"no subject", "", noSubject},
		{"unexpected algorithm", "", wrongAlg},
		{"wrong issuer", "auth.example", wrongIssuer},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := get(newAuthRouter(tc.issuer, &roles), tc.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestStructuredLoggingMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(base))
	r.GET("/ping", func(c *gin.Context) {
		middleware.GetLoggerFromCtx(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Contains(t, buf.String(), "inside handler")
	assert.Contains(t, buf.String(), "Request completed")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
