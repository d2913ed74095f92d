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

	"github.com/hallvardkul/RateMate-Backend/models"
)

func newMockReviewService(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *ReviewService) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	return db, mock, NewReviewService(db)
}

func ptrTo[T any](v T) *T {
	return &v
}

var reviewCols = []string{
	"review_id", "product_id", "user_id", "title", "content", "rating", "created_at", "updated_at",
}

var categoryRatingCols = []string{"rating_id", "review_id", "category", "score", "created_at"}

func TestCreateReview_WithCategoryRatings(t *testing.T) {
	db, mock, service := newMockReviewService(t)
	defer db.Close()

	now := time.Now()
	userID := int64(100)
	req := models.CreateReviewRequest{
		ProductID: 42,
		Title:     "Worth it",
		Content:   "Survived a full season",
		Rating:    9,
		CategoryRatings: &models.CategoryScores{
			BuildQuality: ptrTo(9),
			Durability:   ptrTo(8),
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT product_id FROM products WHERE product_id = \$1`).
		WithArgs(req.ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow(req.ProductID))
	mock.ExpectQuery(`SELECT review_id FROM reviews WHERE user_id = \$1 AND product_id = \$2`).
		WithArgs(userID, req.ProductID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO reviews`).
		WithArgs(req.ProductID, userID, req.Title, req.Content, req.Rating).
		WillReturnRows(sqlmock.NewRows(reviewCols).
			AddRow(7, req.ProductID, userID, req.Title, req.Content, req.Rating, now, now))
	mock.ExpectExec(`INSERT INTO category_ratings`).
		WithArgs(int64(7), "build_quality", 9).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO category_ratings`).
		WithArgs(int64(7), "durability", 8).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT rating_id, review_id, category, score, created_at`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(categoryRatingCols).
			AddRow(1, 7, "build_quality", 9, now).
			AddRow(2, 7, "durability", 8, now))

	review, err := service.Create(context.Background(), userID, req)

	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, int64(7), review.ReviewID)
	assert.Equal(t, 9, review.Rating)
	require.Len(t, review.CategoryRatings, 2)
	require.NotNil(t, review.AverageCategoryRating)
	assert.Equal(t, 8.5, *review.AverageCategoryRating)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReview_Duplicate(t *testing.T) {
	db, mock, service := newMockReviewService(t)
	defer db.Close()

	userID := int64(100)
	req := models.CreateReviewRequest{ProductID: 42, Title: "Again", Content: "Twice", Rating: 5}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT product_id FROM products WHERE product_id = \$1`).
		WithArgs(req.ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow(req.ProductID))
	mock.ExpectQuery(`SELECT review_id FROM reviews WHERE user_id = \$1 AND product_id = \$2`).
		WithArgs(userID, req.ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"review_id"}).AddRow(3))
	mock.ExpectRollback()

	review, err := service.Create(context.Background(), userID, req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyReviewed))
	assert.Nil(t, review)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReview_ProductMissing(t *testing.T) {
	db, mock, service := newMockReviewService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT product_id FROM products WHERE product_id = \$1`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := service.Create(context.Background(), 100, models.CreateReviewRequest{
		ProductID: 404, Title: "x", Content: "y", Rating: 5,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProductNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReview_PatchesOnlyPresentFields(t *testing.T) {
	db, mock, service := newMockReviewService(t)
	defer db.Close()

	now := time.Now()
	reviewID, userID := int64(7), int64(100)
	req := models.UpdateReviewRequest{Title: ptrTo("New title")}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT review_id FROM reviews WHERE review_id = \$1 AND user_id = \$2`).
		WithArgs(reviewID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"review_id"}).AddRow(reviewID))
	mock.ExpectQuery(`UPDATE reviews SET updated_at = CURRENT_TIMESTAMP, title = \$1 WHERE review_id = \$2`).
		WithArgs("New title", reviewID).
		WillReturnRows(sqlmock.NewRows(reviewCols).
			AddRow(reviewID, 42, userID, "New title", "unchanged", 9, now.Add(-time.Hour), now))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT rating_id, review_id, category, score, created_at`).
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows(categoryRatingCols))

	review, err := service.Update(context.Background(), reviewID, userID, req)

	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, "New title", review.Title)
	assert.Equal(t, "unchanged", review.Content)
	assert.Nil(t, review.AverageCategoryRating)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReview_NotOwned(t *testing.T) {
	db, mock, service := newMockReviewService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT review_id FROM reviews WHERE review_id = \$1 AND user_id = \$2`).
		WithArgs(int64(7), int64(200)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	review, err := service.Update(context.Background(), 7, 200, models.UpdateReviewRequest{
		Title: ptrTo("hijack"),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReviewNotFound))
	assert.Nil(t, review)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReview_NotOwned(t *testing.T) {
	db, mock, service := newMockReviewService(t)
	defer db.Close()

	mock.ExpectQuery(`FROM reviews WHERE review_id = \$1 AND user_id = \$2`).
		WithArgs(int64(7), int64(200)).
		WillReturnError(sql.ErrNoRows)

	review, err := service.Delete(context.Background(), 7, 200)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReviewNotFound))
	assert.Nil(t, review)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewsByProduct_AttachesAggregates(t *testing.T) {
	db, mock, service := newMockReviewService(t)
	defer db.Close()

	now := time.Now()
	productID := int64(42)

	mock.ExpectQuery(`FROM reviews r\s+JOIN users u`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows(append(reviewCols, "username", "comments_count")).
			AddRow(7, productID, 100, "Worth it", "content", 9, now, now, "kari", 2))

	mock.ExpectQuery(`SELECT rating_id, review_id, category, score, created_at`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(categoryRatingCols).
			AddRow(1, 7, "build_quality", 9, now))

	reviews, err := service.ReviewsByProduct(context.Background(), productID)

	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.NotNil(t, reviews[0].Username)
	assert.Equal(t, "kari", *reviews[0].Username)
	require.NotNil(t, reviews[0].CommentsCount)
	assert.Equal(t, int64(2), *reviews[0].CommentsCount)
	require.Len(t, reviews[0].CategoryRatings, 1)
	require.NotNil(t, reviews[0].AverageCategoryRating)
	assert.Equal(t, 9.0, *reviews[0].AverageCategoryRating)

	require.NoError(t, mock.ExpectationsWereMet())
}
