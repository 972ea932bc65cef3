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

	"postboard/internal/cardcipher"
	"postboard/internal/dto"
)

func TestMaskCardNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4111111111111111", "**** **** **** 1111"},
		{"4111 1111 1111 1111", "**** **** **** 1111"},
		{"1234567890123456", "**** **** **** 3456"},
		{"123", "**** **** **** ****"},
		{"", "**** **** **** ****"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskCardNumber(tt.in))
	}
}

func TestGetCreditCard(t *testing.T) {
	cipher := cardcipher.New("card-secret")

	t.Run("not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("SELECT credit_card FROM users_credit_cards WHERE user_id = \\$1").
			WithArgs(int64(42)).
			WillReturnError(pgx.ErrNoRows)

		h := NewCreditCardHandler(mock, cipher, zap.NewNop())
		r := authed(httptest.NewRequest(http.MethodGet, "/api/v1/credit-card/", nil), 42)
		w := httptest.NewRecorder()
		h.CreditCard(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Credit card not found", errorDetail(t, w))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns masked card", func(t *testing.T) {
		plaintext, err := json.Marshal(storedCard{
			CardNumber:     "4111111111111111",
			ExpirationDate: "2027-05-04",
			CVV:            "123",
		})
		require.NoError(t, err)
		sealed, err := cipher.Seal(plaintext)
		require.NoError(t, err)

		mock := newMockPool(t)
		mock.ExpectQuery("SELECT credit_card FROM users_credit_cards WHERE user_id = \\$1").
			WithArgs(int64(42)).
			WillReturnRows(pgxmock.NewRows([]string{"credit_card"}).AddRow(sealed))

		h := NewCreditCardHandler(mock, cipher, zap.NewNop())
		r := authed(httptest.NewRequest(http.MethodGet, "/api/v1/credit-card/", nil), 42)
		w := httptest.NewRecorder()
		h.CreditCard(w, r)

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.CreditCardResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "**** **** **** 1111", resp.CardNumber)
		assert.Equal(t, "2027-05-04", resp.ExpirationDate)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateCreditCard(t *testing.T) {
	cipher := cardcipher.New("card-secret")

	t.Run("missing fields", func(t *testing.T) {
		h := NewCreditCardHandler(newMockPool(t), cipher, zap.NewNop())

		r := authed(jsonRequest(t, http.MethodPut, "/api/v1/credit-card/",
			dto.CreditCardRequest{CardNumber: "4111111111111111"}), 42)
		w := httptest.NewRecorder()
		h.CreditCard(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad expiration date", func(t *testing.T) {
		h := NewCreditCardHandler(newMockPool(t), cipher, zap.NewNop())

		r := authed(jsonRequest(t, http.MethodPut, "/api/v1/credit-card/",
			dto.CreditCardRequest{CardNumber: "4111111111111111", ExpirationDate: "05/27", CVV: "123"}), 42)
		w := httptest.NewRecorder()
		h.CreditCard(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "expiration_date must be YYYY-MM-DD", errorDetail(t, w))
	})

	t.Run("upserts sealed payload", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec("INSERT INTO users_credit_cards").
			WithArgs(int64(42), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		h := NewCreditCardHandler(mock, cipher, zap.NewNop())
		r := authed(jsonRequest(t, http.MethodPut, "/api/v1/credit-card/",
			dto.CreditCardRequest{CardNumber: "4111111111111111", ExpirationDate: "2027-05-04", CVV: "123"}), 42)
		w := httptest.NewRecorder()
		h.CreditCard(w, r)

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.DetailResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "Credit card updated", resp.Detail)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteCreditCard(t *testing.T) {
	cipher := cardcipher.New("card-secret")

	t.Run("deletes", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec("DELETE FROM users_credit_cards WHERE user_id = \\$1").
			WithArgs(int64(42)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		h := NewCreditCardHandler(mock, cipher, zap.NewNop())
		r := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/credit-card/", nil), 42)
		w := httptest.NewRecorder()
		h.CreditCard(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing stored", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec("DELETE FROM users_credit_cards WHERE user_id = \\$1").
			WithArgs(int64(42)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		h := NewCreditCardHandler(mock, cipher, zap.NewNop())
		r := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/credit-card/", nil), 42)
		w := httptest.NewRecorder()
		h.CreditCard(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Credit card not found", errorDetail(t, w))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
