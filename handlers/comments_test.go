package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallvardkul/RateMate-Backend/database"
	"github.com/hallvardkul/RateMate-Backend/models"
	"github.com/hallvardkul/RateMate-Backend/services"
)

func newCommentsRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	comments := services.NewCommentService(db)
	InitializeHandlers(
		&database.DB{DB: db},
		services.NewReviewService(db),
		comments,
		services.NewRatingService(db, comments),
		nil,
	)

	router := gin.New()
	router.GET("/api/v1/comments", GetComments)
	router.POST("/api/v1/comments", AuthMiddleware(), CreateComment)
	return router, mock, db
}

func userToken(t *testing.T) string {
	token, err := generateUserToken(&models.User{UserID: 100, Username: "kari", Email: "kari@example.com"})
	require.NoError(t, err)
	return token
}

func TestCreateComment_RequiresAuth(t *testing.T) {
	router, _, db := newCommentsRouter(t)
	defer db.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/comments",
		strings.NewReader(`{"review_id": 10, "content": "hi"}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateComment_ParentMismatchReturns400(t *testing.T) {
	router, mock, db := newCommentsRouter(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM reviews WHERE review_id = \$1\)`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT review_id FROM comments WHERE comment_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"review_id"}).AddRow(99))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/comments",
		strings.NewReader(`{"review_id": 10, "parent_comment_id": 7, "content": "reply"}`))
	req.Header.Set("Authorization", "Bearer "+userToken(t))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "parent comment does not belong")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComment_BlankContentReturns400(t *testing.T) {
	router, _, db := newCommentsRouter(t)
	defer db.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/comments",
		strings.NewReader(`{"review_id": 10, "content": "   "}`))
	req.Header.Set("Authorization", "Bearer "+userToken(t))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetComments_ByReviewTree(t *testing.T) {
	router, mock, db := newCommentsRouter(t)
	defer db.Close()

	now := time.Now()
	cols := []string{
		"comment_id", "review_id", "user_id", "parent_comment_id", "content", "created_at", "updated_at",
		"username", "avatar_url", "is_verified",
	}

	mock.ExpectQuery(`WHERE c.review_id = \$1 AND c.parent_comment_id IS NULL`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 10, 100, nil, "first", now, now, "kari", nil, true))
	mock.ExpectQuery(`WHERE c.parent_comment_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/comments?reviewId=10", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"comment_id":1`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetComments_MissingQueryReturns400(t *testing.T) {
	router, _, db := newCommentsRouter(t)
	defer db.Close()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/comments", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
