package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"service-catalog/internal/access"
	"service-catalog/internal/redis"
	"service-catalog/internal/transport/httpdto"
	"service-catalog/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "user-service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(role, tenantID string) Claims {
	return Claims{
		UserID:   uuid.NewString(),
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func newRouter(handlers ...gin.HandlerFunc) (*gin.Engine, *access.Caller) {
	var seen access.Caller
	r := gin.New()
	r.Use(ErrorHandler(logger.Nop()))
	r.Use(handlers...)
	r.Any("/api/things", func(c *gin.Context) {
		seen, _ = access.CallerFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func do(r http.Handler, method, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/things", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httpdto.ErrorBody {
	t.Helper()
	var body httpdto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestAuthMiddlewareBuildsProviderCaller(t *testing.T) {
	tenantID := uuid.New()
	r, seen := newRouter(AuthMiddleware(NewTokenVerifier(testSecret, testIssuer)))

	w := do(r, http.MethodGet, signToken(t, validClaims("0", tenantID.String()), testSecret))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, seen.IsProvider())
	require.NotNil(t, seen.TenantID)
	assert.Equal(t, tenantID, *seen.TenantID)
}

func TestAuthMiddlewareMapsCustomerRole(t *testing.T) {
	r, seen := newRouter(AuthMiddleware(NewTokenVerifier(testSecret, testIssuer)))

	w := do(r, http.MethodGet, signToken(t, validClaims("1", ""), testSecret))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, seen.IsCustomer())
	assert.Nil(t, seen.TenantID)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	verifier := NewTokenVerifier(testSecret, testIssuer)

	expired := validClaims("0", "")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongIssuer := validClaims("0", "")
	wrongIssuer.Issuer = "someone-else"

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"bad signature", signToken(t, validClaims("0", ""), "other-secret")},
		{"expired", signToken(t, expired, testSecret)},
		{"wrong issuer", signToken(t, wrongIssuer, testSecret)},
		{"missing role", signToken(t, validClaims("", ""), testSecret)},
		{"garbage", "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newRouter(AuthMiddleware(verifier))
			w := do(r, http.MethodGet, tt.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "AUTHENTICATION_FAILED", decodeError(t, w).Code)
		})
	}
}

func TestWriteRateLimitMiddleware(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()
	limiter := redis.NewRateLimiter(client, redis.RateLimitConfig{WriteLimit: 1, WriteWindow: time.Minute})

	r, _ := newRouter(
		AuthMiddleware(NewTokenVerifier(testSecret, testIssuer)),
		WriteRateLimitMiddleware(limiter, logger.Nop()),
	)
	token := signToken(t, validClaims("0", uuid.NewString()), testSecret)

	w := do(r, http.MethodPost, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do(r, http.MethodPost, token)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, w).Code)

	// reads are not limited
	w = do(r, http.MethodGet, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	r, _ := newRouter(RequestIDMiddleware())

	w := do(r, http.MethodGet, "")
	_, err := uuid.Parse(w.Header().Get("X-Request-Id"))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/things", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))

	req = httptest.NewRequest(http.MethodGet, "/api/things", nil)
	req.Header.Set("X-Request-Id", "bad id\n")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "bad id\n", w.Header().Get("X-Request-Id"))
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newRouter(CORSMiddleware([]string{"http://localhost:3000"}))

	req := httptest.NewRequest(http.MethodOptions, "/api/things", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/things", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
