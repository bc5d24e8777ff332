package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"service-catalog/config"
	"service-catalog/internal/handler"
	"service-catalog/internal/metrics"
	"service-catalog/internal/middleware"
	"service-catalog/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, checks map[string]HealthCheck) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	s := New(&config.Config{AppPort: "0", AppMode: TestMode}, logger.Nop())
	s.SetupRoutes(&Handlers{
		Category: handler.NewCategoryHandler(nil),
		Service:  handler.NewServiceHandler(nil, nil),
	}, Dependencies{
		Verifier: middleware.NewTokenVerifier("secret", "user-service"),
		Metrics:  metrics.NewMetrics(reg),
		Gatherer: reg,
		Health:   checks,
	})
	return s.Handler()
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthReportsEachDependency(t *testing.T) {
	h := newTestServer(t, map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
		"kafka":    func(context.Context) error { return errors.New("no brokers") },
	})

	w := get(h, "/health")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "healthy", body.Checks["database"])
	assert.Contains(t, body.Checks["kafka"], "no brokers")
}

func TestPingAndMetrics(t *testing.T) {
	h := newTestServer(t, nil)

	assert.Equal(t, http.StatusOK, get(h, "/ping").Code)
	assert.Equal(t, http.StatusOK, get(h, "/health").Code)

	w := get(h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "catalog_http_requests_total")
}

func TestAPIRequiresToken(t *testing.T) {
	h := newTestServer(t, nil)

	w := get(h, "/api/services")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
