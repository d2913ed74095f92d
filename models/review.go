package models

import (
	"time"
)

// RatingCategories is the fixed set of per-aspect rating names, in the order
// they are written when a review is created or updated.
var RatingCategories = []string{
	"value_for_money",
	"build_quality",
	"functionality",
	"durability",
	"ease_of_use",
	"aesthetics",
	"compatibility",
}

type Review struct {
	ReviewID  int64     `json:"review_id" db:"review_id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Rating    int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Joined fields for listings
	Username              *string          `json:"username,omitempty" db:"-"`
	ProductName           *string          `json:"product_name,omitempty" db:"-"`
	CommentsCount         *int64           `json:"comments_count,omitempty" db:"-"`
	CategoryRatings       []CategoryRating `json:"category_ratings,omitempty" db:"-"`
	AverageCategoryRating *float64         `json:"average_category_rating,omitempty" db:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

func (Review) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS reviews (
		review_id BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES products(product_id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		rating SMALLINT NOT NULL CHECK (rating >= 1 AND rating <= 10),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

type CategoryRating struct {
	RatingID  int64     `json:"rating_id,omitempty" db:"rating_id"`
	ReviewID  int64     `json:"review_id,omitempty" db:"review_id"`
	Category  string    `json:"category" db:"category"`
	Score     int       `json:"score" db:"score"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
}

func (CategoryRating) TableName() string {
	return "category_ratings"
}

func (CategoryRating) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS category_ratings (
		rating_id BIGSERIAL PRIMARY KEY,
		review_id BIGINT NOT NULL REFERENCES reviews(review_id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		score SMALLINT NOT NULL CHECK (score >= 1 AND score <= 10),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		UNIQUE (review_id, category)
	);`
}

// CategoryScores carries the optional per-aspect scores of a review
// submission. A nil field means the aspect was not rated.
type CategoryScores struct {
	ValueForMoney *int `json:"value_for_money,omitempty"`
	BuildQuality  *int `json:"build_quality,omitempty"`
	Functionality *int `json:"functionality,omitempty"`
	Durability    *int `json:"durability,omitempty"`
	EaseOfUse     *int `json:"ease_of_use,omitempty"`
	Aesthetics    *int `json:"aesthetics,omitempty"`
	Compatibility *int `json:"compatibility,omitempty"`
}

// Scores returns the present scores keyed by category name, following the
// RatingCategories order.
func (cs *CategoryScores) Scores() []struct {
	Category string
	Score    int
} {
	if cs == nil {
		return nil
	}
	fields := []*int{
		cs.ValueForMoney,
		cs.BuildQuality,
		cs.Functionality,
		cs.Durability,
		cs.EaseOfUse,
		cs.Aesthetics,
		cs.Compatibility,
	}
	var out []struct {
		Category string
		Score    int
	}
	for i, f := range fields {
		if f != nil {
			out = append(out, struct {
				Category string
				Score    int
			}{RatingCategories[i], *f})
		}
	}
	return out
}

type CreateReviewRequest struct {
	ProductID       int64           `json:"product_id"`
	Title           string          `json:"title"`
	Content         string          `json:"content"`
	Rating          int             `json:"rating"`
	CategoryRatings *CategoryScores `json:"category_ratings,omitempty"`
}

type UpdateReviewRequest struct {
	Title           *string         `json:"title,omitempty"`
	Content         *string         `json:"content,omitempty"`
	Rating          *int            `json:"rating,omitempty"`
	CategoryRatings *CategoryScores `json:"category_ratings,omitempty"`
}
