package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hallvardkul/RateMate-Backend/models"
)

// CommentService materializes the two-level comment tree of a review and
// handles comment writes. Update and delete deliberately return
// ErrCommentNotFound for comments that exist but belong to another user, so
// callers cannot probe for existence.
type CommentService struct {
	db *sql.DB
}

func NewCommentService(db *sql.DB) *CommentService {
	return &CommentService{db: db}
}

const commentColumns = `c.comment_id, c.review_id, c.user_id, c.parent_comment_id, c.content, c.created_at, c.updated_at,
		       u.username, u.avatar_url, u.is_verified`

func scanComment(row interface{ Scan(...interface{}) error }) (models.Comment, error) {
	var comment models.Comment
	err := row.Scan(
		&comment.CommentID, &comment.ReviewID, &comment.UserID, &comment.ParentCommentID,
		&comment.Content, &comment.CreatedAt, &comment.UpdatedAt,
		&comment.Username, &comment.AvatarURL, &comment.UserVerified,
	)
	return comment, err
}

// CommentsByReview returns every top-level comment of a review in ascending
// creation order, each carrying its direct replies. Replies of replies are
// never fetched.
func (s *CommentService) CommentsByReview(ctx context.Context, reviewID int64) ([]models.CommentWithReplies, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments c
		LEFT JOIN users u ON c.user_id = u.user_id
		WHERE c.review_id = $1 AND c.parent_comment_id IS NULL
		ORDER BY c.created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.CommentWithReplies{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, models.CommentWithReplies{Comment: comment})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range comments {
		replies, err := s.RepliesOf(ctx, comments[i].CommentID)
		if err != nil {
			return nil, err
		}
		comments[i].Replies = replies
	}

	return comments, nil
}

// RepliesOf returns the direct children of a comment in ascending creation order.
func (s *CommentService) RepliesOf(ctx context.Context, commentID int64) ([]models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments c
		LEFT JOIN users u ON c.user_id = u.user_id
		WHERE c.parent_comment_id = $1
		ORDER BY c.created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, commentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	replies := []models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		replies = append(replies, comment)
	}
	return replies, rows.Err()
}

func (s *CommentService) CommentByID(ctx context.Context, commentID int64) (*models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments c
		LEFT JOIN users u ON c.user_id = u.user_id
		WHERE c.comment_id = $1`

	comment, err := scanComment(s.db.QueryRowContext(ctx, query, commentID))
	if err == sql.ErrNoRows {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Create inserts a comment after verifying the review exists and, for
// replies, that the parent belongs to the same review.
func (s *CommentService) Create(ctx context.Context, userID int64, req models.CreateCommentRequest) (*models.Comment, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE review_id = $1)`, req.ReviewID,
	).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrReviewNotFound
	}

	if req.ParentCommentID != nil {
		var parentReviewID int64
		err := s.db.QueryRowContext(ctx,
			`SELECT review_id FROM comments WHERE comment_id = $1`, *req.ParentCommentID,
		).Scan(&parentReviewID)
		if err == sql.ErrNoRows {
			return nil, ErrParentCommentNotFound
		}
		if err != nil {
			return nil, err
		}
		if parentReviewID != req.ReviewID {
			return nil, ErrParentReviewMismatch
		}
	}

	query := `
		INSERT INTO comments (review_id, user_id, parent_comment_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING comment_id, review_id, user_id, parent_comment_id, content, created_at, updated_at`

	var comment models.Comment
	err = s.db.QueryRowContext(ctx, query, req.ReviewID, userID, req.ParentCommentID, req.Content).Scan(
		&comment.CommentID, &comment.ReviewID, &comment.UserID, &comment.ParentCommentID,
		&comment.Content, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update rewrites the content of the caller's own comment. A comment owned by
// someone else is indistinguishable from a missing one.
func (s *CommentService) Update(ctx context.Context, commentID, userID int64, content string) (*models.Comment, error) {
	query := `
		UPDATE comments
		SET content = $1, updated_at = CURRENT_TIMESTAMP
		WHERE comment_id = $2 AND user_id = $3
		RETURNING comment_id, review_id, user_id, parent_comment_id, content, created_at, updated_at`

	var comment models.Comment
	err := s.db.QueryRowContext(ctx, query, content, commentID, userID).Scan(
		&comment.CommentID, &comment.ReviewID, &comment.UserID, &comment.ParentCommentID,
		&comment.Content, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes the caller's own comment; replies vanish with it through the
// storage cascade. Same ownership policy as Update.
func (s *CommentService) Delete(ctx context.Context, commentID, userID int64) (*models.Comment, error) {
	query := `
		DELETE FROM comments
		WHERE comment_id = $1 AND user_id = $2
		RETURNING comment_id, review_id, user_id, parent_comment_id, content, created_at, updated_at`

	var comment models.Comment
	err := s.db.QueryRowContext(ctx, query, commentID, userID).Scan(
		&comment.CommentID, &comment.ReviewID, &comment.UserID, &comment.ParentCommentID,
		&comment.Content, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
