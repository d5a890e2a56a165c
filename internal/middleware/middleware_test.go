package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/movieshelf/internal/auth"
	"github.com/user/movieshelf/internal/metrics"
	"github.com/user/movieshelf/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testUser = &model.User{ID: "3f1c2a4e-0000-4000-8000-000000000001", Name: "Alice", Email: "alice@example.com"}

func newAuthRouter(tokens *auth.TokenIssuer) *gin.Engine {
	r := gin.New()
	r.GET("/me", RequireAuth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetUserID(c),
			"email":   c.GetString(ContextEmail),
			"name":    c.GetString(ContextName),
		})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	tokens := auth.NewTokenIssuer("secret", "movieshelf", "movieshelf-api").
		WithClock(func() time.Time { return clock })
	token, err := tokens.Issue(testUser)
	require.NoError(t, err)

	r := newAuthRouter(tokens)

	tests := []struct {
		name   string
		header string
		at     time.Time
		want   int
	}{
		{name: "valid", header: "Bearer " + token, at: now, want: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token, at: now, want: http.StatusOK},
		{name: "missing header", header: "", at: now, want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, at: now, want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer not-a-jwt", at: now, want: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + token, at: now.Add(auth.TokenTTL), want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock = tt.at
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Contains(t, w.Body.String(), testUser.ID)
				assert.Contains(t, w.Body.String(), "alice@example.com")
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := gin.New()
	r.Use(Logger(logger))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "path=/ping")
	assert.Contains(t, buf.String(), "status=204")

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestMetrics(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/items/:id", "200")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/2", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(counter)-before)
}

func TestSecurity(t *testing.T) {
	r := gin.New()
	r.Use(Security())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
