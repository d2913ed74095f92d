package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/hallvardkul/RateMate-Backend/models"
)

// Register a new brand account
func RegisterBrand(c *gin.Context) {
	var req struct {
		BrandName string  `json:"brand_name" binding:"required"`
		Email     string  `json:"email" binding:"required,email"`
		Password  string  `json:"password" binding:"required"`
		Website   *string `json:"website"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Brand name, email and password are required"})
		return
	}

	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var exists bool
	err := DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM brands WHERE email = $1 OR brand_name = $2)`,
		req.Email, req.BrandName,
	).Scan(&exists)
	if err != nil {
		serviceError(c, err)
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Brand name or email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		serviceError(c, err)
		return
	}

	var brand models.Brand
	err = DB.QueryRow(`
		INSERT INTO brands (brand_name, email, password_hash, website)
		VALUES ($1, $2, $3, $4)
		RETURNING brand_id, brand_name, email, is_verified, verification_status, website, created_at, updated_at`,
		req.BrandName, req.Email, string(hash), req.Website,
	).Scan(
		&brand.BrandID, &brand.BrandName, &brand.Email, &brand.IsVerified,
		&brand.VerificationStatus, &brand.Website, &brand.CreatedAt, &brand.UpdatedAt,
	)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Brand registered successfully",
		"brand":   brand,
	})
}

// Brand login with email and password
func LoginBrand(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var brand models.Brand
	var passwordHash string
	err := DB.QueryRow(`
		SELECT brand_id, brand_name, email, password_hash, is_verified, verification_status, website, created_at, updated_at
		FROM brands WHERE email = $1`,
		req.Email,
	).Scan(
		&brand.BrandID, &brand.BrandName, &brand.Email, &passwordHash, &brand.IsVerified,
		&brand.VerificationStatus, &brand.Website, &brand.CreatedAt, &brand.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := generateBrandToken(&brand)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brand": brand,
		"token": token,
	})
}

// GetBrandProfile returns the authenticated brand's own record
func GetBrandProfile(c *gin.Context) {
	brandID, ok := currentBrandID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Brand authentication required"})
		return
	}

	var brand models.Brand
	err := DB.QueryRow(`
		SELECT brand_id, brand_name, email, is_verified, verification_status, website, created_at, updated_at
		FROM brands WHERE brand_id = $1`,
		brandID,
	).Scan(
		&brand.BrandID, &brand.BrandName, &brand.Email, &brand.IsVerified,
		&brand.VerificationStatus, &brand.Website, &brand.CreatedAt, &brand.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Brand not found"})
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"brand": brand})
}
