package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/hallvardkul/RateMate-Backend/models"
	"github.com/hallvardkul/RateMate-Backend/utils"
)

// Register a new user account
func RegisterUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username, email and password are required"})
		return
	}

	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var exists bool
	err := DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 OR username = $2)`,
		req.Email, req.Username,
	).Scan(&exists)
	if err != nil {
		serviceError(c, err)
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		serviceError(c, err)
		return
	}

	avatarURL := utils.DefaultAvatarURL(req.Username)

	var user models.User
	err = DB.QueryRow(`
		INSERT INTO users (username, email, password_hash, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, username, email, user_type, is_verified, is_admin, bio, avatar_url, created_at, updated_at`,
		req.Username, req.Email, string(hash), avatarURL,
	).Scan(
		&user.UserID, &user.Username, &user.Email, &user.UserType, &user.IsVerified,
		&user.IsAdmin, &user.Bio, &user.AvatarURL, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

// User login with email and password
func LoginUser(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	var passwordHash string
	err := DB.QueryRow(`
		SELECT user_id, username, email, password_hash, user_type, is_verified, is_admin, bio, avatar_url, created_at, updated_at
		FROM users WHERE email = $1`,
		req.Email,
	).Scan(
		&user.UserID, &user.Username, &user.Email, &passwordHash, &user.UserType,
		&user.IsVerified, &user.IsAdmin, &user.Bio, &user.AvatarURL, &user.CreatedAt, &user.UpdatedAt,
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

	token, err := generateUserToken(&user)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

// ValidateToken confirms a user token is still valid
func ValidateToken(c *gin.Context) {
	userID, _ := currentUserID(c)
	username, _ := c.Get("username")
	email, _ := c.Get("user_email")

	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"user_id":  userID,
		"username": username,
		"email":    email,
	})
}
