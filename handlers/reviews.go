package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hallvardkul/RateMate-Backend/models"
)

// GetReviews lists reviews for a product, or the rating category names when
// categoriesOnly=true is passed
func GetReviews(c *gin.Context) {
	if c.Query("categoriesOnly") == "true" {
		GetRatingCategories(c)
		return
	}

	v := c.Query("productId")
	if v == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId query parameter is required"})
		return
	}
	productID, ok := parseQueryID(c, v, "productId")
	if !ok {
		return
	}

	reviews, err := Reviews.ReviewsByProduct(c.Request.Context(), productID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// GetRatingCategories lists the active per-aspect rating category names
func GetRatingCategories(c *gin.Context) {
	categories, err := Reviews.RatingCategories(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetReview returns a single review with its category ratings
func GetReview(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := Reviews.ReviewByID(c.Request.Context(), reviewID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}

// CreateReview submits the authenticated user's review of a product
func CreateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.ProductID <= 0 || req.Title == "" || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID, title and content are required"})
		return
	}
	if req.Rating < 1 || req.Rating > 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 10"})
		return
	}
	if !validCategoryScores(req.CategoryRatings) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category scores must be between 1 and 10"})
		return
	}

	review, err := Reviews.Create(c.Request.Context(), userID, req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"review":  review,
	})
}

// UpdateReview patches the authenticated user's own review
func UpdateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 10) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 10"})
		return
	}
	if !validCategoryScores(req.CategoryRatings) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category scores must be between 1 and 10"})
		return
	}

	review, err := Reviews.Update(c.Request.Context(), reviewID, userID, req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated successfully",
		"review":  review,
	})
}

// DeleteReview removes the authenticated user's own review
func DeleteReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := Reviews.Delete(c.Request.Context(), reviewID, userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted successfully",
		"review":  review,
	})
}

func validCategoryScores(scores *models.CategoryScores) bool {
	if scores == nil {
		return true
	}
	for _, s := range scores.Scores() {
		if s.Score < 1 || s.Score > 10 {
			return false
		}
	}
	return true
}
