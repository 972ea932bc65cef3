package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"postboard/internal/cardcipher"
	"postboard/internal/database"
	"postboard/internal/dto"
	"postboard/internal/utils"
)

// storedCard is the plaintext shape sealed into the credit_card column.
type storedCard struct {
	CardNumber     string `json:"card_number"`
	ExpirationDate string `json:"expiration_date"`
	CVV            string `json:"cvv"`
}

// CreditCardHandler manages the current user's encrypted credit card
type CreditCardHandler struct {
	db     database.Pool
	cipher *cardcipher.Cipher
	logger *zap.Logger
}

// NewCreditCardHandler creates a new CreditCardHandler
func NewCreditCardHandler(db database.Pool, cipher *cardcipher.Cipher, logger *zap.Logger) *CreditCardHandler {
	return &CreditCardHandler{db: db, cipher: cipher, logger: logger}
}

// CreditCard dispatches by HTTP method for /api/v1/credit-card/
func (h *CreditCardHandler) CreditCard(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.GetCreditCard(w, r)
	case http.MethodPut:
		h.UpdateCreditCard(w, r)
	case http.MethodDelete:
		h.DeleteCreditCard(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// GetCreditCard handles GET /api/v1/credit-card/
// @Summary Get credit card
// @Description Get the current user's credit card, number masked to the last four digits
// @Tags Credit Card
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CreditCardResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Credit card not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/credit-card/ [get]
func (h *CreditCardHandler) GetCreditCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var sealed []byte
	err := h.db.QueryRow(r.Context(),
		"SELECT credit_card FROM users_credit_cards WHERE user_id = $1",
		userID).Scan(&sealed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Credit card not found")
			return
		}
		internalError(w, h.logger, "get credit card: lookup failed", err)
		return
	}

	plaintext, err := h.cipher.Open(sealed)
	if err != nil {
		internalError(w, h.logger, "get credit card: decryption failed", err)
		return
	}
	var card storedCard
	if err := json.Unmarshal(plaintext, &card); err != nil {
		internalError(w, h.logger, "get credit card: payload decode failed", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.CreditCardResponse{
		CardNumber:     MaskCardNumber(card.CardNumber),
		ExpirationDate: card.ExpirationDate,
	})
}

// UpdateCreditCard handles PUT /api/v1/credit-card/
// @Summary Create or replace credit card
// @Tags Credit Card
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreditCardRequest true "Card payload"
// @Success 200 {object} dto.DetailResponse "Credit card updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/credit-card/ [put]
func (h *CreditCardHandler) UpdateCreditCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req dto.CreditCardRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	req.CardNumber = strings.TrimSpace(req.CardNumber)
	if req.CardNumber == "" || req.ExpirationDate == "" || req.CVV == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "card_number, expiration_date and cvv are required")
		return
	}
	if _, err := utils.ParseDate(req.ExpirationDate); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "expiration_date must be YYYY-MM-DD")
		return
	}

	plaintext, err := json.Marshal(storedCard{
		CardNumber:     req.CardNumber,
		ExpirationDate: req.ExpirationDate,
		CVV:            req.CVV,
	})
	if err != nil {
		internalError(w, h.logger, "update credit card: payload encode failed", err)
		return
	}
	sealed, err := h.cipher.Seal(plaintext)
	if err != nil {
		internalError(w, h.logger, "update credit card: encryption failed", err)
		return
	}

	_, err = h.db.Exec(r.Context(),
		`INSERT INTO users_credit_cards (user_id, credit_card) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET credit_card = EXCLUDED.credit_card, updated_at = now()`,
		userID, sealed)
	if err != nil {
		internalError(w, h.logger, "update credit card: upsert failed", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.DetailResponse{Detail: "Credit card updated"})
}

// DeleteCreditCard handles DELETE /api/v1/credit-card/
// @Summary Delete credit card
// @Tags Credit Card
// @Produce json
// @Security BearerAuth
// @Success 204 "Credit card deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Credit card not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/credit-card/ [delete]
func (h *CreditCardHandler) DeleteCreditCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	tag, err := h.db.Exec(r.Context(),
		"DELETE FROM users_credit_cards WHERE user_id = $1", userID)
	if err != nil {
		internalError(w, h.logger, "delete credit card: delete failed", err)
		return
	}
	if tag.RowsAffected() == 0 {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Credit card not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MaskCardNumber hides everything but the last four digits.
func MaskCardNumber(cardNumber string) string {
	digits := strings.ReplaceAll(cardNumber, " ", "")
	if len(digits) < 4 {
		return "**** **** **** ****"
	}
	return "**** **** **** " + digits[len(digits)-4:]
}
