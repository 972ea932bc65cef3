package handlers

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/dto"
	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/utils"
)

// AuthHandler handles password-based authentication
type AuthHandler struct {
	db     database.Pool
	config *config.Config
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(db database.Pool, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, logger: logger}
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with form-encoded username (email) and password
// @Tags Authorization
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "User email"
// @Param password formData string true "User password"
// @Success 200 {object} dto.TokenResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Missing credentials"
// @Failure 403 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	var user models.User
	err := h.db.QueryRow(r.Context(),
		"SELECT id, email, password FROM users WHERE email = $1",
		username).Scan(&user.ID, &user.Email, &user.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteErrorResponse(w, http.StatusForbidden, "Invalid Credentials")
			return
		}
		internalError(w, h.logger, "login: user lookup failed", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		utils.WriteErrorResponse(w, http.StatusForbidden, "Invalid Credentials")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, &h.config.JWT)
	if err != nil {
		internalError(w, h.logger, "login: token generation failed", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
