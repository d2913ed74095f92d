package services

import (
	"context"
	"database/sql"
	"math"
	"strconv"

	"github.com/hallvardkul/RateMate-Backend/models"
)

// RatingService computes the product dashboard: aggregate rating statistics,
// per-aspect averages and the fully enriched review list. Everything is
// derived per request; nothing is stored.
type RatingService struct {
	db       *sql.DB
	comments *CommentService
}

func NewRatingService(db *sql.DB, comments *CommentService) *RatingService {
	return &RatingService{db: db, comments: comments}
}

// ProductDashboard returns the complete snapshot for one product. It fails
// with ErrProductNotFound when the product does not exist; any sub-query
// failure fails the whole computation, partial dashboards are never returned.
func (s *RatingService) ProductDashboard(ctx context.Context, productID int64) (*models.DashboardSnapshot, error) {
	product, err := s.fetchProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	stats, err := s.fetchRatingStatistics(ctx, productID)
	if err != nil {
		return nil, err
	}

	distribution, err := s.fetchRatingDistribution(ctx, productID)
	if err != nil {
		return nil, err
	}
	stats.RatingDistribution = distribution

	categoryAverages, err := s.fetchCategoryAverages(ctx, productID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.fetchReviews(ctx, productID)
	if err != nil {
		return nil, err
	}

	for i := range reviews {
		ratings, err := s.categoryRatingsForReview(ctx, reviews[i].ReviewID)
		if err != nil {
			return nil, err
		}
		reviews[i].CategoryRatings = ratings

		comments, err := s.comments.CommentsByReview(ctx, reviews[i].ReviewID)
		if err != nil {
			return nil, err
		}
		reviews[i].Comments = comments
	}

	return &models.DashboardSnapshot{
		Product:         *product,
		RatingStats:     *stats,
		CategoryRatings: categoryAverages,
		Reviews:         reviews,
	}, nil
}

func (s *RatingService) fetchProduct(ctx context.Context, productID int64) (*models.DashboardProduct, error) {
	query := `
		SELECT p.product_id, p.product_name, p.product_category, p.description, p.subcategory_id, p.category_id,
		       b.brand_id, b.brand_name, b.is_verified, b.website
		FROM products p
		LEFT JOIN brands b ON p.brand_id = b.brand_id
		WHERE p.product_id = $1`

	var product models.DashboardProduct
	err := s.db.QueryRowContext(ctx, query, productID).Scan(
		&product.ProductID, &product.ProductName, &product.ProductCategory, &product.Description,
		&product.SubcategoryID, &product.CategoryID,
		&product.BrandID, &product.BrandName, &product.BrandVerified, &product.BrandWebsite,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// fetchRatingStatistics computes count, mean, min, max and the quality band
// counts in a single pass over the product's reviews. Aggregate values that
// fail to parse as numbers count as 0 rather than failing the request.
func (s *RatingService) fetchRatingStatistics(ctx context.Context, productID int64) (*models.RatingStatistics, error) {
	query := `
		SELECT COUNT(r.review_id) AS total_reviews,
		       COALESCE(AVG(r.rating), 0) AS average_rating,
		       COALESCE(MIN(r.rating), 0) AS min_rating,
		       COALESCE(MAX(r.rating), 0) AS max_rating,
		       COUNT(CASE WHEN r.rating >= 8 THEN 1 END) AS excellent_count,
		       COUNT(CASE WHEN r.rating >= 6 AND r.rating < 8 THEN 1 END) AS good_count,
		       COUNT(CASE WHEN r.rating >= 4 AND r.rating < 6 THEN 1 END) AS average_count,
		       COUNT(CASE WHEN r.rating < 4 THEN 1 END) AS poor_count
		FROM reviews r
		WHERE r.product_id = $1`

	var total, avg, min, max, excellent, good, average, poor sql.NullString
	err := s.db.QueryRowContext(ctx, query, productID).Scan(
		&total, &avg, &min, &max, &excellent, &good, &average, &poor,
	)
	if err != nil {
		return nil, err
	}

	totalReviews := asInt(total)
	breakdown := models.QualityBreakdown{
		Excellent: asInt(excellent),
		Good:      asInt(good),
		Average:   asInt(average),
		Poor:      asInt(poor),
	}

	recommendation := 0
	if totalReviews > 0 {
		recommendation = int(math.Round(float64(breakdown.Excellent+breakdown.Good) / float64(totalReviews) * 100))
	}

	return &models.RatingStatistics{
		TotalReviews:             totalReviews,
		AverageRating:            formatScore(asFloat(avg)),
		MinRating:                asInt(min),
		MaxRating:                asInt(max),
		RecommendationPercentage: recommendation,
		QualityBreakdown:         breakdown,
	}, nil
}

// fetchRatingDistribution builds the dense histogram: exactly ten buckets,
// ratings 10 down to 1, absent ratings stay at zero.
func (s *RatingService) fetchRatingDistribution(ctx context.Context, productID int64) ([]models.RatingBucket, error) {
	buckets := make([]models.RatingBucket, 10)
	for i := range buckets {
		buckets[i] = models.RatingBucket{Rating: 10 - i}
	}

	query := `
		SELECT r.rating, COUNT(*) AS count
		FROM reviews r
		WHERE r.product_id = $1
		GROUP BY r.rating
		ORDER BY r.rating DESC`

	rows, err := s.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rating int
		var count sql.NullString
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, err
		}
		if rating >= 1 && rating <= 10 {
			buckets[10-rating].Count = asInt(count)
		}
	}
	return buckets, rows.Err()
}

func (s *RatingService) fetchCategoryAverages(ctx context.Context, productID int64) ([]models.CategoryAverage, error) {
	query := `
		SELECT cr.category, AVG(cr.score) AS average_score, COUNT(cr.rating_id) AS rating_count
		FROM category_ratings cr
		JOIN reviews r ON cr.review_id = r.review_id
		WHERE r.product_id = $1
		GROUP BY cr.category
		ORDER BY average_score DESC`

	rows, err := s.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	averages := []models.CategoryAverage{}
	for rows.Next() {
		var category string
		var avg, count sql.NullString
		if err := rows.Scan(&category, &avg, &count); err != nil {
			return nil, err
		}
		averages = append(averages, models.CategoryAverage{
			Category:     category,
			AverageScore: formatScore(asFloat(avg)),
			RatingCount:  asInt(count),
		})
	}
	return averages, rows.Err()
}

func (s *RatingService) fetchReviews(ctx context.Context, productID int64) ([]models.DashboardReview, error) {
	query := `
		SELECT r.review_id, r.product_id, r.user_id, r.title, r.content, r.rating, r.created_at, r.updated_at,
		       u.username, u.avatar_url, u.is_verified, COUNT(c.comment_id) AS comments_count
		FROM reviews r
		LEFT JOIN users u ON r.user_id = u.user_id
		LEFT JOIN comments c ON r.review_id = c.review_id
		WHERE r.product_id = $1
		GROUP BY r.review_id, u.username, u.avatar_url, u.is_verified
		ORDER BY r.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.DashboardReview{}
	for rows.Next() {
		var review models.DashboardReview
		var commentsCount sql.NullString
		err := rows.Scan(
			&review.ReviewID, &review.ProductID, &review.UserID, &review.Title, &review.Content,
			&review.Rating, &review.CreatedAt, &review.UpdatedAt,
			&review.Username, &review.AvatarURL, &review.UserVerified, &commentsCount,
		)
		if err != nil {
			return nil, err
		}
		review.CommentsCount = asInt(commentsCount)
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (s *RatingService) categoryRatingsForReview(ctx context.Context, reviewID int64) ([]models.CategoryRating, error) {
	query := `
		SELECT category, score, created_at
		FROM category_ratings
		WHERE review_id = $1
		ORDER BY category`

	rows, err := s.db.QueryContext(ctx, query, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := []models.CategoryRating{}
	for rows.Next() {
		var rating models.CategoryRating
		if err := rows.Scan(&rating.Category, &rating.Score, &rating.CreatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

// formatScore renders averages with exactly one decimal place.
func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

func asInt(v sql.NullString) int {
	if !v.Valid {
		return 0
	}
	n, err := strconv.Atoi(v.String)
	if err != nil {
		return int(asFloat(v))
	}
	return n
}

func asFloat(v sql.NullString) float64 {
	if !v.Valid {
		return 0
	}
	f, err := strconv.ParseFloat(v.String, 64)
	if err != nil {
		return 0
	}
	return f
}
