package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/hallvardkul/RateMate-Backend/models"
)

// ReviewService handles review CRUD. A review and its category ratings are
// written inside one transaction so a partial failure leaves no orphan rows.
// Update and delete follow the same ownership policy as comments: not owned
// reads as not found.
type ReviewService struct {
	db *sql.DB
}

func NewReviewService(db *sql.DB) *ReviewService {
	return &ReviewService{db: db}
}

const reviewColumns = `review_id, product_id, user_id, title, content, rating, created_at, updated_at`

// RatingCategories lists the active per-aspect rating names.
func (s *ReviewService) RatingCategories(ctx context.Context) ([]models.RatingCategory, error) {
	query := `
		SELECT category_id, category_name, description, is_active
		FROM rating_categories
		WHERE is_active = true
		ORDER BY category_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.RatingCategory{}
	for rows.Next() {
		var cat models.RatingCategory
		if err := rows.Scan(&cat.CategoryID, &cat.CategoryName, &cat.Description, &cat.IsActive); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// ReviewsByProduct returns a product's reviews newest-first, each with its
// author, comment count, category ratings and their mean.
func (s *ReviewService) ReviewsByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	query := `
		SELECT r.review_id, r.product_id, r.user_id, r.title, r.content, r.rating, r.created_at, r.updated_at,
		       u.username,
		       (SELECT COUNT(*) FROM comments c WHERE c.review_id = r.review_id) AS comments_count
		FROM reviews r
		JOIN users u ON r.user_id = u.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var review models.Review
		err := rows.Scan(
			&review.ReviewID, &review.ProductID, &review.UserID, &review.Title, &review.Content,
			&review.Rating, &review.CreatedAt, &review.UpdatedAt,
			&review.Username, &review.CommentsCount,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range reviews {
		if err := s.attachCategoryRatings(ctx, &reviews[i]); err != nil {
			return nil, err
		}
	}
	return reviews, nil
}

func (s *ReviewService) ReviewByID(ctx context.Context, reviewID int64) (*models.Review, error) {
	query := `
		SELECT r.review_id, r.product_id, r.user_id, r.title, r.content, r.rating, r.created_at, r.updated_at,
		       u.username,
		       (SELECT COUNT(*) FROM comments c WHERE c.review_id = r.review_id) AS comments_count
		FROM reviews r
		JOIN users u ON r.user_id = u.user_id
		WHERE r.review_id = $1`

	var review models.Review
	err := s.db.QueryRowContext(ctx, query, reviewID).Scan(
		&review.ReviewID, &review.ProductID, &review.UserID, &review.Title, &review.Content,
		&review.Rating, &review.CreatedAt, &review.UpdatedAt,
		&review.Username, &review.CommentsCount,
	)
	if err == sql.ErrNoRows {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.attachCategoryRatings(ctx, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// ReviewsByUser returns the caller's reviews newest-first with the reviewed
// product's name, plus the total for pagination.
func (s *ReviewService) ReviewsByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Review, int, error) {
	query := `
		SELECT r.review_id, r.product_id, r.user_id, r.title, r.content, r.rating, r.created_at, r.updated_at,
		       p.product_name
		FROM reviews r
		JOIN products p ON r.product_id = p.product_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var review models.Review
		err := rows.Scan(
			&review.ReviewID, &review.ProductID, &review.UserID, &review.Title, &review.Content,
			&review.Rating, &review.CreatedAt, &review.UpdatedAt,
			&review.ProductName,
		)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// Create inserts the review and its category ratings in one transaction.
// A user gets one review per product.
func (s *ReviewService) Create(ctx context.Context, userID int64, req models.CreateReviewRequest) (*models.Review, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var productID int64
	err = tx.QueryRowContext(ctx,
		`SELECT product_id FROM products WHERE product_id = $1`, req.ProductID,
	).Scan(&productID)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	var existingID int64
	err = tx.QueryRowContext(ctx,
		`SELECT review_id FROM reviews WHERE user_id = $1 AND product_id = $2`, userID, req.ProductID,
	).Scan(&existingID)
	if err == nil {
		return nil, ErrAlreadyReviewed
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	query := `
		INSERT INTO reviews (product_id, user_id, title, content, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING ` + reviewColumns

	var review models.Review
	err = tx.QueryRowContext(ctx, query, req.ProductID, userID, req.Title, req.Content, req.Rating).Scan(
		&review.ReviewID, &review.ProductID, &review.UserID, &review.Title, &review.Content,
		&review.Rating, &review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := upsertCategoryRatings(ctx, tx, review.ReviewID, req.CategoryRatings); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if err := s.attachCategoryRatings(ctx, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// Update applies a patch of the present fields only; identifiers come from a
// fixed list, values are always parameterized. Category ratings are upserted
// in the same transaction.
func (s *ReviewService) Update(ctx context.Context, reviewID, userID int64, req models.UpdateReviewRequest) (*models.Review, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var ownedID int64
	err = tx.QueryRowContext(ctx,
		`SELECT review_id FROM reviews WHERE review_id = $1 AND user_id = $2`, reviewID, userID,
	).Scan(&ownedID)
	if err == sql.ErrNoRows {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}

	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []interface{}{}
	if req.Title != nil {
		args = append(args, *req.Title)
		set = append(set, fmt.Sprintf("title = $%d", len(args)))
	}
	if req.Content != nil {
		args = append(args, *req.Content)
		set = append(set, fmt.Sprintf("content = $%d", len(args)))
	}
	if req.Rating != nil {
		args = append(args, *req.Rating)
		set = append(set, fmt.Sprintf("rating = $%d", len(args)))
	}
	args = append(args, reviewID)

	query := fmt.Sprintf(
		"UPDATE reviews SET %s WHERE review_id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), reviewColumns,
	)

	var review models.Review
	err = tx.QueryRowContext(ctx, query, args...).Scan(
		&review.ReviewID, &review.ProductID, &review.UserID, &review.Title, &review.Content,
		&review.Rating, &review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := upsertCategoryRatings(ctx, tx, reviewID, req.CategoryRatings); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if err := s.attachCategoryRatings(ctx, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// Delete removes the caller's own review; category ratings and comments
// cascade away with it.
func (s *ReviewService) Delete(ctx context.Context, reviewID, userID int64) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE review_id = $1 AND user_id = $2`

	var review models.Review
	err := s.db.QueryRowContext(ctx, query, reviewID, userID).Scan(
		&review.ReviewID, &review.ProductID, &review.UserID, &review.Title, &review.Content,
		&review.Rating, &review.CreatedAt, &review.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.attachCategoryRatings(ctx, &review); err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE review_id = $1`, reviewID); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) attachCategoryRatings(ctx context.Context, review *models.Review) error {
	query := `
		SELECT rating_id, review_id, category, score, created_at
		FROM category_ratings
		WHERE review_id = $1
		ORDER BY category`

	rows, err := s.db.QueryContext(ctx, query, review.ReviewID)
	if err != nil {
		return err
	}
	defer rows.Close()

	ratings := []models.CategoryRating{}
	sum := 0
	for rows.Next() {
		var rating models.CategoryRating
		err := rows.Scan(&rating.RatingID, &rating.ReviewID, &rating.Category, &rating.Score, &rating.CreatedAt)
		if err != nil {
			return err
		}
		sum += rating.Score
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	review.CategoryRatings = ratings
	if len(ratings) > 0 {
		avg := math.Round(float64(sum)/float64(len(ratings))*10) / 10
		review.AverageCategoryRating = &avg
	}
	return nil
}

func upsertCategoryRatings(ctx context.Context, tx *sql.Tx, reviewID int64, scores *models.CategoryScores) error {
	for _, s := range scores.Scores() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO category_ratings (review_id, category, score)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (review_id, category) DO UPDATE SET score = EXCLUDED.score`,
			reviewID, s.Category, s.Score,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
