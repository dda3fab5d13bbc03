package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/creche-api/internal/handler"
	"github.com/noah-isme/creche-api/internal/models"
	"github.com/noah-isme/creche-api/internal/service"
	appErrors "github.com/noah-isme/creche-api/pkg/errors"
)

type rejectAll struct{}

func (rejectAll) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	return nil, appErrors.ErrSessionNotFound
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	return New(Handlers{
		Metrics: handler.NewMetricsHandler(metrics, nil),
	}, Options{Metrics: metrics, Sessions: rejectAll{}})
}

func TestPublicEndpoints(t *testing.T) {
	r := newTestEngine()
	for _, path := range []string{"/health", "/ready", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	r := newTestEngine()
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/students"},
		{http.MethodPost, "/api/v1/students"},
		{http.MethodGet, "/api/v1/students/export"},
		{http.MethodGet, "/api/v1/students/abc"},
		{http.MethodPut, "/api/v1/students/abc"},
		{http.MethodGet, "/api/v1/reports/stats"},
		{http.MethodGet, "/api/v1/reports/export"},
		{http.MethodGet, "/api/v1/auth/me"},
	}
	for _, rt := range routes {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(rt.method, rt.path, nil)
		req.Header.Set("Authorization", "Bearer stale")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, rt.path)
	}
}

func TestRequestIDHeader(t *testing.T) {
	r := newTestEngine()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
