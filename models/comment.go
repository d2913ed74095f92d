package models

import (
	"time"
)

type Comment struct {
	CommentID       int64     `json:"comment_id" db:"comment_id"`
	ReviewID        int64     `json:"review_id" db:"review_id"`
	UserID          int64     `json:"user_id" db:"user_id"`
	ParentCommentID *int64    `json:"parent_comment_id" db:"parent_comment_id"`
	Content         string    `json:"content" db:"content"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	// Joined author fields for listings
	Username     *string `json:"username,omitempty" db:"-"`
	AvatarURL    *string `json:"avatar_url,omitempty" db:"-"`
	UserVerified *bool   `json:"user_verified,omitempty" db:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

func (Comment) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS comments (
		comment_id BIGSERIAL PRIMARY KEY,
		review_id BIGINT NOT NULL REFERENCES reviews(review_id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		parent_comment_id BIGINT REFERENCES comments(comment_id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

// CommentWithReplies is a top-level comment carrying its direct replies.
// Replies are never expanded further than one level.
type CommentWithReplies struct {
	Comment
	Replies []Comment `json:"replies"`
}

type CreateCommentRequest struct {
	ReviewID        int64  `json:"review_id"`
	ParentCommentID *int64 `json:"parent_comment_id,omitempty"`
	Content         string `json:"content"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}
