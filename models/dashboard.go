package models

import (
	"time"
)

// DashboardProduct is the product header of a product dashboard, with the
// owning brand joined in when one exists.
type DashboardProduct struct {
	ProductID       int64   `json:"product_id"`
	ProductName     string  `json:"product_name"`
	ProductCategory *string `json:"product_category"`
	Description     *string `json:"description"`
	SubcategoryID   *int64  `json:"subcategory_id"`
	CategoryID      *int64  `json:"category_id"`
	BrandID         *int64  `json:"brand_id"`
	BrandName       *string `json:"brand_name"`
	BrandVerified   *bool   `json:"brand_verified"`
	BrandWebsite    *string `json:"brand_website"`
}

// RatingBucket is one slot of the dense 10..1 rating distribution.
type RatingBucket struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// QualityBreakdown partitions the 1-10 scale into fixed bands:
// excellent [8,10], good [6,8), average [4,6), poor [0,4).
type QualityBreakdown struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Average   int `json:"average"`
	Poor      int `json:"poor"`
}

type RatingStatistics struct {
	TotalReviews             int              `json:"total_reviews"`
	AverageRating            string           `json:"average_rating"`
	MinRating                int              `json:"min_rating"`
	MaxRating                int              `json:"max_rating"`
	RecommendationPercentage int              `json:"recommendation_percentage"`
	RatingDistribution       []RatingBucket   `json:"rating_distribution"`
	QualityBreakdown         QualityBreakdown `json:"quality_breakdown"`
}

// CategoryAverage is the per-aspect average across all of a product's reviews.
type CategoryAverage struct {
	Category     string `json:"category"`
	AverageScore string `json:"average_score"`
	RatingCount  int    `json:"rating_count"`
}

// DashboardReview is a review enriched with its author, per-aspect ratings
// and full two-level comment tree.
type DashboardReview struct {
	ReviewID        int64                `json:"review_id"`
	ProductID       int64                `json:"product_id"`
	UserID          int64                `json:"user_id"`
	Title           string               `json:"title"`
	Content         string               `json:"content"`
	Rating          int                  `json:"rating"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	Username        *string              `json:"username"`
	AvatarURL       *string              `json:"avatar_url"`
	UserVerified    *bool                `json:"user_verified"`
	CommentsCount   int                  `json:"comments_count"`
	CategoryRatings []CategoryRating     `json:"category_ratings"`
	Comments        []CommentWithReplies `json:"comments"`
}

// DashboardSnapshot is the complete statistical and structural snapshot of a
// product's reviews, recomputed per request.
type DashboardSnapshot struct {
	Product         DashboardProduct  `json:"product"`
	RatingStats     RatingStatistics  `json:"rating_statistics"`
	CategoryRatings []CategoryAverage `json:"category_ratings"`
	Reviews         []DashboardReview `json:"reviews"`
}
