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

func newMockCommentService(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *CommentService) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	return db, mock, NewCommentService(db)
}

var commentCols = []string{
	"comment_id", "review_id", "user_id", "parent_comment_id", "content", "created_at", "updated_at",
	"username", "avatar_url", "is_verified",
}

var insertedCommentCols = []string{
	"comment_id", "review_id", "user_id", "parent_comment_id", "content", "created_at", "updated_at",
}

func TestCommentsByReview_TreeAssembly(t *testing.T) {
	db, mock, service := newMockCommentService(t)
	defer db.Close()

	reviewID := int64(10)
	now := time.Now()

	mock.ExpectQuery(`WHERE c.review_id = \$1 AND c.parent_comment_id IS NULL`).
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows(commentCols).
			AddRow(1, reviewID, 100, nil, "first", now, now, "kari", nil, true).
			AddRow(2, reviewID, 101, nil, "second", now.Add(time.Minute), now.Add(time.Minute), "ola", nil, false))

	mock.ExpectQuery(`WHERE c.parent_comment_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(commentCols).
			AddRow(3, reviewID, 101, 1, "reply to first", now.Add(2*time.Minute), now.Add(2*time.Minute), "ola", nil, false))

	mock.ExpectQuery(`WHERE c.parent_comment_id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(commentCols))

	comments, err := service.CommentsByReview(context.Background(), reviewID)

	require.NoError(t, err)
	require.Len(t, comments, 2)

	assert.Equal(t, int64(1), comments[0].CommentID)
	assert.Nil(t, comments[0].ParentCommentID)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, int64(3), comments[0].Replies[0].CommentID)
	require.NotNil(t, comments[0].Replies[0].ParentCommentID)
	assert.Equal(t, int64(1), *comments[0].Replies[0].ParentCommentID)

	assert.Equal(t, int64(2), comments[1].CommentID)
	assert.Empty(t, comments[1].Replies)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentsByReview_Empty(t *testing.T) {
	db, mock, service := newMockCommentService(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE c.review_id = \$1 AND c.parent_comment_id IS NULL`).
		WithArgs(int64(55)).
		WillReturnRows(sqlmock.NewRows(commentCols))

	comments, err := service.CommentsByReview(context.Background(), 55)

	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComment_TopLevel(t *testing.T) {
	db, mock, service := newMockCommentService(t)
	defer db.Close()

	now := time.Now()
	req := models.CreateCommentRequest{ReviewID: 10, Content: "solid review"}

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM reviews WHERE review_id = \$1\)`).
		WithArgs(req.ReviewID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery(`INSERT INTO comments`).
		WithArgs(req.ReviewID, int64(100), nil, req.Content).
		WillReturnRows(sqlmock.NewRows(insertedCommentCols).
			AddRow(5, req.ReviewID, 100, nil, req.Content, now, now))

	comment, err := service.Create(context.Background(), 100, req)

	require.NoError(t, err)
	require.NotNil(t, comment)
	assert.Equal(t, int64(5), comment.CommentID)
	assert.Nil(t, comment.ParentCommentID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComment_ReviewMissing(t *testing.T) {
	db, mock, service := newMockCommentService(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM reviews WHERE review_id = \$1\)`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	comment, err := service.Create(context.Background(), 100, models.CreateCommentRequest{
		ReviewID: 404,
		Content:  "hello",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReviewNotFound))
	assert.Nil(t, comment)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComment_ParentReviewMismatch(t *testing.T) {
	db, mock, service := newMockCommentService(t)
	defer db.Close()

	parentID := int64(7)
	req := models.CreateCommentRequest{ReviewID: 10, ParentCommentID: &parentID, Content: "reply"}

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM reviews WHERE review_id = \$1\)`).
		WithArgs(req.ReviewID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	// Parent belongs to a different review; nothing must be inserted.
	mock.ExpectQuery(`SELECT review_id FROM comments WHERE comment_id = \$1`).
		WithArgs(parentID).
		WillReturnRows(sqlmock.NewRows([]string{"review_id"}).AddRow(99))

	comment, err := service.Create(context.Background(), 100, req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParentReviewMismatch))
	assert.Nil(t, comment)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComment_ParentMissing(t *testing.T) {
	db, mock, service := newMockCommentService(t)
	defer db.Close()

	parentID := int64(7)
	req := models.CreateCommentRequest{ReviewID: 10, ParentCommentID: &parentID, Content: "reply"}

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM reviews WHERE review_id = \$1\)`).
		WithArgs(req.ReviewID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery(`SELECT review_id FROM comments WHERE comment_id = \$1`).
		WithArgs(parentID).
		WillReturnError(sql.ErrNoRows)

	_, err := service.Create(context.Background(), 100, req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParentCommentNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateComment_NotOwned(t *testing.T) {
	db, mock, service := newMockCommentService(t)
	defer db.Close()

	// A comment owned by another user reads exactly like a missing one.
	mock.ExpectQuery(`UPDATE comments`).
		WithArgs("edited", int64(5), int64(200)).
		WillReturnError(sql.ErrNoRows)

	comment, err := service.Update(context.Background(), 5, 200, "edited")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCommentNotFound))
	assert.Nil(t, comment)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateComment_Owned(t *testing.T) {
	db, mock, service := newMockCommentService(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`UPDATE comments`).
		WithArgs("edited", int64(5), int64(100)).
		WillReturnRows(sqlmock.NewRows(insertedCommentCols).
			AddRow(5, 10, 100, nil, "edited", now.Add(-time.Hour), now))

	comment, err := service.Update(context.Background(), 5, 100, "edited")

	require.NoError(t, err)
	require.NotNil(t, comment)
	assert.Equal(t, "edited", comment.Content)
	assert.True(t, comment.UpdatedAt.After(comment.CreatedAt))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteComment_NotOwned(t *testing.T) {
	db, mock, service := newMockCommentService(t)
	defer db.Close()

	mock.ExpectQuery(`DELETE FROM comments`).
		WithArgs(int64(5), int64(200)).
		WillReturnError(sql.ErrNoRows)

	comment, err := service.Delete(context.Background(), 5, 200)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCommentNotFound))
	assert.Nil(t, comment)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteComment_Owned(t *testing.T) {
	db, mock, service := newMockCommentService(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`DELETE FROM comments`).
		WithArgs(int64(5), int64(100)).
		WillReturnRows(sqlmock.NewRows(insertedCommentCols).
			AddRow(5, 10, 100, nil, "gone", now, now))

	comment, err := service.Delete(context.Background(), 5, 100)

	require.NoError(t, err)
	require.NotNil(t, comment)
	assert.Equal(t, int64(5), comment.CommentID)

	require.NoError(t, mock.ExpectationsWereMet())
}
