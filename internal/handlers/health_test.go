package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboard/internal/dto"
)

func TestAPIStatus(t *testing.T) {
	t.Run("database up", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("SELECT 1").
			WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))

		h := NewHealthHandler(mock, testConfig())
		w := httptest.NewRecorder()
		h.APIStatus(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.APIStatus
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "Healthy", resp.Status)
		assert.Equal(t, "Healthy", resp.DBStatus)
		assert.Equal(t, "test", resp.Environment)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database down", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("SELECT 1").
			WillReturnError(assert.AnError)

		h := NewHealthHandler(mock, testConfig())
		w := httptest.NewRecorder()
		h.APIStatus(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.APIStatus
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "Unhealthy", resp.DBStatus)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func newPingMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestReadinessCheck(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		mock := newPingMockPool(t)
		mock.ExpectPing()

		h := NewHealthHandler(mock, testConfig())
		w := httptest.NewRecorder()
		h.ReadinessCheck(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database unreachable", func(t *testing.T) {
		mock := newPingMockPool(t)
		mock.ExpectPing().WillReturnError(assert.AnError)

		h := NewHealthHandler(mock, testConfig())
		w := httptest.NewRecorder()
		h.ReadinessCheck(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
