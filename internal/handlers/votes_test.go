package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"postboard/internal/dto"
)

func voteRequest(t *testing.T, postID int64, dir int) *http.Request {
	t.Helper()
	return authed(jsonRequest(t, http.MethodPost, "/api/v1/votes/",
		dto.VoteRequest{PostID: postID, Dir: dir}), 42)
}

func TestVotePostInvalidDir(t *testing.T) {
	h := NewVotesHandler(newMockPool(t), testConfig(), zap.NewNop())

	w := httptest.NewRecorder()
	h.VotePost(w, voteRequest(t, 1, 2))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "dir must be 0 or 1", errorDetail(t, w))
}

func TestVotePostMissingPost(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT id FROM posts WHERE id = \\$1").
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	h := NewVotesHandler(mock, testConfig(), zap.NewNop())
	w := httptest.NewRecorder()
	h.VotePost(w, voteRequest(t, 99, 1))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", errorDetail(t, w))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVotePostUpvote(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT id FROM posts WHERE id = \\$1").
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(42), int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO votes").
		WithArgs(int64(42), int64(5)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	h := NewVotesHandler(mock, testConfig(), zap.NewNop())
	w := httptest.NewRecorder()
	h.VotePost(w, voteRequest(t, 5, 1))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.MessageResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Successfully added vote", resp.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVotePostDuplicateUpvote(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT id FROM posts WHERE id = \\$1").
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(42), int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	h := NewVotesHandler(mock, testConfig(), zap.NewNop())
	w := httptest.NewRecorder()
	h.VotePost(w, voteRequest(t, 5, 1))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Post already voted by user", errorDetail(t, w))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVotePostWithdraw(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT id FROM posts WHERE id = \\$1").
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(42), int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("DELETE FROM votes").
		WithArgs(int64(42), int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	h := NewVotesHandler(mock, testConfig(), zap.NewNop())
	w := httptest.NewRecorder()
	h.VotePost(w, voteRequest(t, 5, 0))

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVotePostWithdrawWithoutVote(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT id FROM posts WHERE id = \\$1").
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(42), int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	h := NewVotesHandler(mock, testConfig(), zap.NewNop())
	w := httptest.NewRecorder()
	h.VotePost(w, voteRequest(t, 5, 0))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Vote does not exist", errorDetail(t, w))
	require.NoError(t, mock.ExpectationsWereMet())
}
