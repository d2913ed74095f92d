package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hallvardkul/RateMate-Backend/database"
	"github.com/hallvardkul/RateMate-Backend/services"
)

// Package-level references set once at startup.
var (
	DB       *database.DB
	Reviews  *services.ReviewService
	Comments *services.CommentService
	Ratings  *services.RatingService
	Media    *services.MediaService
)

// InitializeHandlers wires the handlers to the database and services.
func InitializeHandlers(db *database.DB, reviews *services.ReviewService, comments *services.CommentService, ratings *services.RatingService, media *services.MediaService) {
	DB = db
	Reviews = reviews
	Comments = comments
	Ratings = ratings
	Media = media
}

// serviceError maps service sentinels onto HTTP statuses. Anything
// unrecognized is logged and reported as a 500 without leaking details.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrReviewNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrParentCommentNotFound),
		errors.Is(err, services.ErrMediaNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrParentReviewMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// parseQueryID reads a positive integer query parameter value.
func parseQueryID(c *gin.Context, value, name string) (int64, bool) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// pagination reads page/limit query parameters with sane bounds.
func pagination(c *gin.Context, defaultLimit, maxLimit int) (limit, offset int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, (page - 1) * limit
}
