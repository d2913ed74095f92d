package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallvardkul/RateMate-Backend/config"
	"github.com/hallvardkul/RateMate-Backend/models"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
}

func authTestRouter() *gin.Engine {
	router := gin.New()
	router.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		userID, _ := currentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	router.GET("/brand", BrandAuthMiddleware(), func(c *gin.Context) {
		brandID, _ := currentBrandID(c)
		c.JSON(http.StatusOK, gin.H{"brand_id": brandID})
	})
	return router
}

func TestAuthMiddleware_AcceptsIssuedToken(t *testing.T) {
	router := authTestRouter()

	token, err := generateUserToken(&models.User{UserID: 7, Username: "kari", Email: "kari@example.com"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestAuthMiddleware_RejectsMissingHeader(t *testing.T) {
	router := authTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RejectsMalformedHeader(t *testing.T) {
	router := authTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBrandAuthMiddleware_RejectsUserToken(t *testing.T) {
	router := authTestRouter()

	// A valid user token must not open brand routes.
	token, err := generateUserToken(&models.User{UserID: 7, Username: "kari", Email: "kari@example.com"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/brand", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBrandAuthMiddleware_AcceptsBrandToken(t *testing.T) {
	router := authTestRouter()

	token, err := generateBrandToken(&models.Brand{BrandID: 3, BrandName: "Acme", Email: "acme@example.com"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/brand", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"brand_id":3`)
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	limiter := &rateLimiter{windows: make(map[string]*rateWindow)}
	now := time.Now()

	for i := 0; i < rateLimitMax; i++ {
		assert.True(t, limiter.allow("10.0.0.1", now), "request %d should pass", i+1)
	}
	assert.False(t, limiter.allow("10.0.0.1", now), "request over the limit should be rejected")

	// Another client is counted separately.
	assert.True(t, limiter.allow("10.0.0.2", now))

	// The window resets once it expires.
	assert.True(t, limiter.allow("10.0.0.1", now.Add(rateLimitWindow+time.Second)))
}

func TestRateLimitMiddleware_KeysByForwardedFor(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	for i := 0; i < rateLimitMax; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A different forwarded client is still allowed.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.4")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
