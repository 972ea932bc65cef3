package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"postboard/internal/config"
	"postboard/internal/dto"
	"postboard/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Environment: "test", Version: "1.0.0"},
		JWT: config.JWTConfig{
			Secret:         "test-secret",
			AccessTokenTTL: time.Minute,
		},
		GoogleOAuth: config.GoogleOAuthConfig{
			ClientID:        "client-id",
			ClientSecret:    "client-secret",
			RedirectURL:     "http://localhost:8080/api/v1/auth/google",
			ExchangeTimeout: time.Second,
		},
	}
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

// authed stamps the request context the way the auth middleware would.
func authed(r *http.Request, userID int64) *http.Request {
	return r.WithContext(utils.WithUserID(r.Context(), userID))
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	r := httptest.NewRequest(method, target, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func errorDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Detail
}
