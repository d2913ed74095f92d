package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRatingService(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *RatingService) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	service := NewRatingService(db, NewCommentService(db))
	return db, mock, service
}

var productRows = []string{
	"product_id", "product_name", "product_category", "description", "subcategory_id", "category_id",
	"brand_id", "brand_name", "is_verified", "website",
}

var statsRows = []string{
	"total_reviews", "average_rating", "min_rating", "max_rating",
	"excellent_count", "good_count", "average_count", "poor_count",
}

func expectProductRow(mock sqlmock.Sqlmock, productID int64) {
	mock.ExpectQuery(`SELECT p.product_id, p.product_name, .+ FROM products p`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows(productRows).
			AddRow(productID, "Trail Runner X", "footwear", nil, nil, nil, nil, nil, nil, nil))
}

func TestProductDashboard_NoReviews(t *testing.T) {
	db, mock, service := newMockRatingService(t)
	defer db.Close()

	productID := int64(42)
	expectProductRow(mock, productID)

	mock.ExpectQuery(`SELECT COUNT\(r.review_id\) AS total_reviews`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows(statsRows).
			AddRow("0", "0", "0", "0", "0", "0", "0", "0"))

	mock.ExpectQuery(`SELECT r.rating, COUNT\(\*\) AS count`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"rating", "count"}))

	mock.ExpectQuery(`SELECT cr.category, AVG\(cr.score\)`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"category", "average_score", "rating_count"}))

	mock.ExpectQuery(`SELECT r.review_id, .+ FROM reviews r`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{
			"review_id", "product_id", "user_id", "title", "content", "rating", "created_at", "updated_at",
			"username", "avatar_url", "is_verified", "comments_count",
		}))

	snapshot, err := service.ProductDashboard(context.Background(), productID)

	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, 0, snapshot.RatingStats.TotalReviews)
	assert.Equal(t, "0.0", snapshot.RatingStats.AverageRating)
	assert.Equal(t, 0, snapshot.RatingStats.RecommendationPercentage)
	assert.Zero(t, snapshot.RatingStats.QualityBreakdown.Excellent)
	assert.Zero(t, snapshot.RatingStats.QualityBreakdown.Good)
	assert.Zero(t, snapshot.RatingStats.QualityBreakdown.Average)
	assert.Zero(t, snapshot.RatingStats.QualityBreakdown.Poor)

	require.Len(t, snapshot.RatingStats.RatingDistribution, 10)
	for i, bucket := range snapshot.RatingStats.RatingDistribution {
		assert.Equal(t, 10-i, bucket.Rating)
		assert.Zero(t, bucket.Count)
	}

	assert.Empty(t, snapshot.CategoryRatings)
	assert.Empty(t, snapshot.Reviews)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductDashboard_QualityBreakdown(t *testing.T) {
	db, mock, service := newMockRatingService(t)
	defer db.Close()

	// Ratings 10, 10, 7, 3: two excellent, one good, one poor.
	productID := int64(7)
	expectProductRow(mock, productID)

	mock.ExpectQuery(`SELECT COUNT\(r.review_id\) AS total_reviews`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows(statsRows).
			AddRow("4", "7.5", "3", "10", "2", "1", "0", "1"))

	mock.ExpectQuery(`SELECT r.rating, COUNT\(\*\) AS count`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"rating", "count"}).
			AddRow(10, "2").
			AddRow(7, "1").
			AddRow(3, "1"))

	mock.ExpectQuery(`SELECT cr.category, AVG\(cr.score\)`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"category", "average_score", "rating_count"}).
			AddRow("build_quality", "8.25", "4").
			AddRow("durability", "6.5", "2"))

	mock.ExpectQuery(`SELECT r.review_id, .+ FROM reviews r`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{
			"review_id", "product_id", "user_id", "title", "content", "rating", "created_at", "updated_at",
			"username", "avatar_url", "is_verified", "comments_count",
		}))

	snapshot, err := service.ProductDashboard(context.Background(), productID)

	require.NoError(t, err)
	assert.Equal(t, 4, snapshot.RatingStats.TotalReviews)
	assert.Equal(t, "7.5", snapshot.RatingStats.AverageRating)
	assert.Equal(t, 3, snapshot.RatingStats.MinRating)
	assert.Equal(t, 10, snapshot.RatingStats.MaxRating)
	assert.Equal(t, 2, snapshot.RatingStats.QualityBreakdown.Excellent)
	assert.Equal(t, 1, snapshot.RatingStats.QualityBreakdown.Good)
	assert.Equal(t, 0, snapshot.RatingStats.QualityBreakdown.Average)
	assert.Equal(t, 1, snapshot.RatingStats.QualityBreakdown.Poor)
	assert.Equal(t, 75, snapshot.RatingStats.RecommendationPercentage)

	require.Len(t, snapshot.RatingStats.RatingDistribution, 10)
	assert.Equal(t, 2, snapshot.RatingStats.RatingDistribution[0].Count) // rating 10
	assert.Equal(t, 1, snapshot.RatingStats.RatingDistribution[3].Count) // rating 7
	assert.Equal(t, 1, snapshot.RatingStats.RatingDistribution[7].Count) // rating 3
	assert.Equal(t, 0, snapshot.RatingStats.RatingDistribution[1].Count)

	require.Len(t, snapshot.CategoryRatings, 2)
	assert.Equal(t, "build_quality", snapshot.CategoryRatings[0].Category)
	assert.Equal(t, "8.2", snapshot.CategoryRatings[0].AverageScore)
	assert.Equal(t, 4, snapshot.CategoryRatings[0].RatingCount)
	assert.Equal(t, "6.5", snapshot.CategoryRatings[1].AverageScore)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductDashboard_ProductNotFound(t *testing.T) {
	db, mock, service := newMockRatingService(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT p.product_id, p.product_name, .+ FROM products p`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	snapshot, err := service.ProductDashboard(context.Background(), 99)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProductNotFound))
	assert.Nil(t, snapshot)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductDashboard_NonNumericAggregates(t *testing.T) {
	db, mock, service := newMockRatingService(t)
	defer db.Close()

	productID := int64(5)
	expectProductRow(mock, productID)

	// Unparseable aggregate values count as zero instead of failing the request.
	mock.ExpectQuery(`SELECT COUNT\(r.review_id\) AS total_reviews`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows(statsRows).
			AddRow("garbage", "not-a-number", nil, nil, "x", "y", "z", "w"))

	mock.ExpectQuery(`SELECT r.rating, COUNT\(\*\) AS count`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"rating", "count"}))

	mock.ExpectQuery(`SELECT cr.category, AVG\(cr.score\)`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"category", "average_score", "rating_count"}))

	mock.ExpectQuery(`SELECT r.review_id, .+ FROM reviews r`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{
			"review_id", "product_id", "user_id", "title", "content", "rating", "created_at", "updated_at",
			"username", "avatar_url", "is_verified", "comments_count",
		}))

	snapshot, err := service.ProductDashboard(context.Background(), productID)

	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.RatingStats.TotalReviews)
	assert.Equal(t, "0.0", snapshot.RatingStats.AverageRating)
	assert.Equal(t, 0, snapshot.RatingStats.MinRating)
	assert.Equal(t, 0, snapshot.RatingStats.MaxRating)
	assert.Equal(t, 0, snapshot.RatingStats.RecommendationPercentage)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductDashboard_ReviewsCarryCommentsAndRatings(t *testing.T) {
	db, mock, service := newMockRatingService(t)
	defer db.Close()

	productID := int64(3)
	now := time.Now()
	expectProductRow(mock, productID)

	mock.ExpectQuery(`SELECT COUNT\(r.review_id\) AS total_reviews`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows(statsRows).
			AddRow("1", "9", "9", "9", "1", "0", "0", "0"))

	mock.ExpectQuery(`SELECT r.rating, COUNT\(\*\) AS count`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"rating", "count"}).AddRow(9, "1"))

	mock.ExpectQuery(`SELECT cr.category, AVG\(cr.score\)`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"category", "average_score", "rating_count"}))

	username := "kari"
	mock.ExpectQuery(`SELECT r.review_id, .+ FROM reviews r`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{
			"review_id", "product_id", "user_id", "title", "content", "rating", "created_at", "updated_at",
			"username", "avatar_url", "is_verified", "comments_count",
		}).AddRow(11, productID, 2, "Great", "Holds up well", 9, now, now, username, nil, true, "1"))

	mock.ExpectQuery(`SELECT category, score, created_at`).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"category", "score", "created_at"}).
			AddRow("durability", 9, now))

	mock.ExpectQuery(`WHERE c.review_id = \$1 AND c.parent_comment_id IS NULL`).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{
			"comment_id", "review_id", "user_id", "parent_comment_id", "content", "created_at", "updated_at",
			"username", "avatar_url", "is_verified",
		}).AddRow(21, 11, 3, nil, "Agreed", now, now, "ola", nil, false))

	mock.ExpectQuery(`WHERE c.parent_comment_id = \$1`).
		WithArgs(int64(21)).
		WillReturnRows(sqlmock.NewRows([]string{
			"comment_id", "review_id", "user_id", "parent_comment_id", "content", "created_at", "updated_at",
			"username", "avatar_url", "is_verified",
		}))

	snapshot, err := service.ProductDashboard(context.Background(), productID)

	require.NoError(t, err)
	require.Len(t, snapshot.Reviews, 1)
	review := snapshot.Reviews[0]
	assert.Equal(t, int64(11), review.ReviewID)
	assert.Equal(t, 1, review.CommentsCount)
	require.Len(t, review.CategoryRatings, 1)
	assert.Equal(t, "durability", review.CategoryRatings[0].Category)
	require.Len(t, review.Comments, 1)
	assert.Equal(t, int64(21), review.Comments[0].CommentID)
	assert.Empty(t, review.Comments[0].Replies)

	require.NoError(t, mock.ExpectationsWereMet())
}
