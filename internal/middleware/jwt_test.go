package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboard/internal/config"
	"postboard/internal/utils"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:         "test-secret",
		AccessTokenTTL: time.Minute,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateToken(42, "alice@example.com", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestValidateTokenExpired(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret", AccessTokenTTL: -time.Minute}

	token, err := GenerateToken(42, "alice@example.com", cfg)
	require.NoError(t, err)

	_, err = ValidateToken(token, cfg)
	assert.Error(t, err)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(42, "alice@example.com", testJWTConfig())
	require.NoError(t, err)

	_, err = ValidateToken(token, &config.JWTConfig{Secret: "other-secret", AccessTokenTTL: time.Minute})
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", testJWTConfig())
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testJWTConfig()

	t.Run("missing header", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		var called bool
		handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) { called = true }, cfg, mock)

		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodGet, "/api/v1/posts/", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, called)
	})

	t.Run("malformed header", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		var called bool
		handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) { called = true }, cfg, mock)

		r := httptest.NewRequest(http.MethodGet, "/api/v1/posts/", nil)
		r.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		handler(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, called)
	})

	t.Run("invalid token", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		var called bool
		handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) { called = true }, cfg, mock)

		r := httptest.NewRequest(http.MethodGet, "/api/v1/posts/", nil)
		r.Header.Set("Authorization", "Bearer not.a.token")
		w := httptest.NewRecorder()
		handler(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, called)
	})

	t.Run("token for deleted user", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		token, err := GenerateToken(42, "alice@example.com", cfg)
		require.NoError(t, err)

		mock.ExpectQuery("SELECT id FROM users WHERE id = \\$1").
			WithArgs(int64(42)).
			WillReturnError(assert.AnError)

		var called bool
		handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) { called = true }, cfg, mock)

		r := httptest.NewRequest(http.MethodGet, "/api/v1/posts/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, called)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("valid token", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		token, err := GenerateToken(42, "alice@example.com", cfg)
		require.NoError(t, err)

		mock.ExpectQuery("SELECT id FROM users WHERE id = \\$1").
			WithArgs(int64(42)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

		var gotUserID int64
		var gotEmail string
		handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
			gotUserID, _ = utils.GetUserIDFromContext(r.Context())
			gotEmail, _ = utils.GetEmailFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}, cfg, mock)

		r := httptest.NewRequest(http.MethodGet, "/api/v1/posts/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(42), gotUserID)
		assert.Equal(t, "alice@example.com", gotEmail)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
