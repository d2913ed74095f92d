package handlers

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hallvardkul/RateMate-Backend/config"
)

// AuthMiddleware validates user JWT tokens
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := &Claims{}
		if !parseBearerToken(c, claims) {
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("user_email", claims.Email)
		c.Set("is_admin", claims.IsAdmin)
		c.Next()
	}
}

// BrandAuthMiddleware validates brand JWT tokens and rejects user tokens
func BrandAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := &BrandClaims{}
		if !parseBearerToken(c, claims) {
			return
		}

		if claims.TokenType != "brand" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Brand token required"})
			c.Abort()
			return
		}

		c.Set("brand_id", claims.BrandID)
		c.Set("brand_name", claims.BrandName)
		c.Set("brand_verified", claims.IsVerified)
		c.Next()
	}
}

// AdminMiddleware requires an admin user token. Runs after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, _ := c.Get("is_admin")
		if admin, ok := isAdmin.(bool); !ok || !admin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func parseBearerToken(c *gin.Context, claims jwt.Claims) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
		c.Abort()
		return false
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
		c.Abort()
		return false
	}
	tokenString := authHeader[7:]

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		c.Abort()
		return false
	}
	return true
}

const (
	rateLimitMax    = 100
	rateLimitWindow = time.Minute
)

type rateWindow struct {
	count   int
	expires time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
}

func (r *rateLimiter) allow(key string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.windows[key]
	if !ok || now.After(w.expires) {
		r.windows[key] = &rateWindow{count: 1, expires: now.Add(rateLimitWindow)}
		return true
	}
	if w.count >= rateLimitMax {
		return false
	}
	w.count++
	return true
}

// RateLimitMiddleware applies a fixed-window per-client limit of 100
// requests per minute. Clients behind a proxy are keyed by the first
// X-Forwarded-For address.
func RateLimitMiddleware() gin.HandlerFunc {
	limiter := &rateLimiter{windows: make(map[string]*rateWindow)}

	return func(c *gin.Context) {
		key := c.ClientIP()
		if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
			key = strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}

		if !limiter.allow(key, time.Now()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
