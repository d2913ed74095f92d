package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hallvardkul/RateMate-Backend/models"
)

// GetComments returns a review's comment tree (reviewId query) or the direct
// replies of one comment (parentId query)
func GetComments(c *gin.Context) {
	if v := c.Query("reviewId"); v != "" {
		reviewID, ok := parseQueryID(c, v, "reviewId")
		if !ok {
			return
		}
		comments, err := Comments.CommentsByReview(c.Request.Context(), reviewID)
		if err != nil {
			serviceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"comments": comments})
		return
	}

	if v := c.Query("parentId"); v != "" {
		parentID, ok := parseQueryID(c, v, "parentId")
		if !ok {
			return
		}
		replies, err := Comments.RepliesOf(c.Request.Context(), parentID)
		if err != nil {
			serviceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"comments": replies})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "reviewId or parentId query parameter is required"})
}

// GetComment returns a single comment
func GetComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comment, err := Comments.CommentByID(c.Request.Context(), commentID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// CreateComment posts a comment or a reply on a review
func CreateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.ReviewID <= 0 || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Review ID and content are required"})
		return
	}

	comment, err := Comments.Create(c.Request.Context(), userID, req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment created successfully",
		"comment": comment,
	})
}

// UpdateComment rewrites the authenticated user's own comment
func UpdateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	comment, err := Comments.Update(c.Request.Context(), commentID, userID, req.Content)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment updated successfully",
		"comment": comment,
	})
}

// DeleteComment removes the authenticated user's own comment
func DeleteComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comment, err := Comments.Delete(c.Request.Context(), commentID, userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
		"comment": comment,
	})
}
