package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollpulse/backend/internal/auth"
)

func jwtRouter(svc *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWT(svc))
	router.GET("/whoami", func(c *gin.Context) {
		userID := c.MustGet(ContextUserID).(uuid.UUID)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": c.GetString(ContextUserRole)})
	})
	return router
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	router := jwtRouter(auth.NewJWTService("secret", 1))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareMalformedHeader(t *testing.T) {
	router := jwtRouter(auth.NewJWTService("secret", 1))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	svc := auth.NewJWTService("secret", 1)
	router := jwtRouter(svc)

	token, err := svc.Generate(uuid.New(), "ada@example.com", "student")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"student"`)
}

func TestRateLimitKeyBuckets(t *testing.T) {
	now := time.Date(2026, 3, 5, 10, 0, 30, 0, time.UTC)

	// Same IP within the same minute shares a bucket.
	assert.Equal(t, rateLimitKey("1.2.3.4", now), rateLimitKey("1.2.3.4", now.Add(20*time.Second)))

	// The bucket rolls over on the next minute and differs per IP.
	assert.NotEqual(t, rateLimitKey("1.2.3.4", now), rateLimitKey("1.2.3.4", now.Add(time.Minute)))
	assert.NotEqual(t, rateLimitKey("1.2.3.4", now), rateLimitKey("5.6.7.8", now))
}
