package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/creche-api/internal/models"
	appErrors "github.com/noah-isme/creche-api/pkg/errors"
)

type stubAuthenticator struct {
	sessions map[string]*models.Session
}

func (s stubAuthenticator) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	if session, ok := s.sessions[token]; ok {
		return session, nil
	}
	return nil, appErrors.ErrSessionNotFound
}

func newSessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := stubAuthenticator{sessions: map[string]*models.Session{
		"good": {ID: "s1", User: models.User{ID: "u1", Name: "Ana"}},
	}}
	r := gin.New()
	r.GET("/me", Session(auth), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentSession(c).User.Name)
	})
	return r
}

func TestSessionMiddleware(t *testing.T) {
	r := newSessionRouter()
	cases := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Token good", http.StatusUnauthorized},
		{"Bearer expired", http.StatusUnauthorized},
		{"Bearer good", http.StatusOK},
		{"bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, tc.header)
		if tc.status == http.StatusOK {
			assert.Equal(t, "Ana", w.Body.String())
		}
	}
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SetCacheHit(c, true)
	SetMeta(c, "rows", 2)
	meta := ExtractMeta(c)
	assert.Equal(t, true, meta["cacheHit"])
	assert.Equal(t, 2, meta["rows"])
}
