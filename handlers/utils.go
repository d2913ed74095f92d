package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hallvardkul/RateMate-Backend/config"
	"github.com/hallvardkul/RateMate-Backend/models"
)

// Claims represents the JWT claims of a user token
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// BrandClaims represents the JWT claims of a brand token. TokenType
// distinguishes brand tokens from user tokens so neither works on the
// other's routes.
type BrandClaims struct {
	BrandID    int64  `json:"brand_id"`
	BrandName  string `json:"brand_name"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
	TokenType  string `json:"type"`
	jwt.RegisteredClaims
}

// generateUserToken generates a JWT for a user (24 hour expiration)
func generateUserToken(user *models.User) (string, error) {
	claims := &Claims{
		UserID:   user.UserID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// generateBrandToken generates a JWT for a brand (24 hour expiration)
func generateBrandToken(brand *models.Brand) (string, error) {
	claims := &BrandClaims{
		BrandID:    brand.BrandID,
		BrandName:  brand.BrandName,
		Email:      brand.Email,
		IsVerified: brand.IsVerified,
		TokenType:  "brand",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// currentUserID reads the authenticated user's ID set by AuthMiddleware.
func currentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// currentBrandID reads the authenticated brand's ID set by BrandAuthMiddleware.
func currentBrandID(c *gin.Context) (int64, bool) {
	v, ok := c.Get("brand_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
