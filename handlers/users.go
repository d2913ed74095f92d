package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hallvardkul/RateMate-Backend/models"
)

// GetUserProfile returns the authenticated user's profile with review count
func GetUserProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var user models.User
	var reviewsCount int
	err := DB.QueryRow(`
		SELECT u.user_id, u.username, u.email, u.user_type, u.is_verified, u.is_admin,
		       u.bio, u.avatar_url, u.created_at, u.updated_at,
		       (SELECT COUNT(*) FROM reviews r WHERE r.user_id = u.user_id) AS reviews_count
		FROM users u WHERE u.user_id = $1`,
		userID,
	).Scan(
		&user.UserID, &user.Username, &user.Email, &user.UserType, &user.IsVerified,
		&user.IsAdmin, &user.Bio, &user.AvatarURL, &user.CreatedAt, &user.UpdatedAt,
		&reviewsCount,
	)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"reviews_count": reviewsCount,
	})
}

// UpdateUserProfile patches the fields present in the request body
func UpdateUserProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		Username  *string `json:"username"`
		Email     *string `json:"email"`
		Bio       *string `json:"bio"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &email

		var taken bool
		err := DB.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND user_id <> $2)`,
			email, userID,
		).Scan(&taken)
		if err != nil {
			serviceError(c, err)
			return
		}
		if taken {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
	}

	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []interface{}{}
	if req.Username != nil {
		args = append(args, *req.Username)
		set = append(set, fmt.Sprintf("username = $%d", len(args)))
	}
	if req.Email != nil {
		args = append(args, *req.Email)
		set = append(set, fmt.Sprintf("email = $%d", len(args)))
	}
	if req.Bio != nil {
		args = append(args, *req.Bio)
		set = append(set, fmt.Sprintf("bio = $%d", len(args)))
	}
	if req.AvatarURL != nil {
		args = append(args, *req.AvatarURL)
		set = append(set, fmt.Sprintf("avatar_url = $%d", len(args)))
	}
	args = append(args, userID)

	query := fmt.Sprintf(`
		UPDATE users SET %s WHERE user_id = $%d
		RETURNING user_id, username, email, user_type, is_verified, is_admin, bio, avatar_url, created_at, updated_at`,
		strings.Join(set, ", "), len(args),
	)

	var user models.User
	err := DB.QueryRow(query, args...).Scan(
		&user.UserID, &user.Username, &user.Email, &user.UserType, &user.IsVerified,
		&user.IsAdmin, &user.Bio, &user.AvatarURL, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// GetUserReviews returns the authenticated user's reviews, paginated
func GetUserReviews(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	limit, offset := pagination(c, 10, 50)

	reviews, total, err := Reviews.ReviewsByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}
