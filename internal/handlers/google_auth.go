package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/dto"
	"postboard/internal/middleware"
	"postboard/internal/utils"
)

// GoogleAuthHandler handles the federated Google login flow
type GoogleAuthHandler struct {
	db           database.Pool
	oauth2Config *oauth2.Config
	config       *config.Config
	logger       *zap.Logger
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler instance
func NewGoogleAuthHandler(db database.Pool, cfg *config.Config, logger *zap.Logger) *GoogleAuthHandler {
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.GoogleOAuth.ClientID,
		ClientSecret: cfg.GoogleOAuth.ClientSecret,
		RedirectURL:  cfg.GoogleOAuth.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &GoogleAuthHandler{
		db:           db,
		oauth2Config: oauth2Config,
		config:       cfg,
		logger:       logger,
	}
}

// GoogleLogin initiates the Google OAuth login flow
// @Summary Google OAuth login
// @Description Redirect to Google's authorization endpoint
// @Tags Authorization
// @Success 302 "Redirect to provider"
// @Router /api/v1/auth/login/google [get]
func (h *GoogleAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// State parameter for CSRF protection
	state := uuid.New().String()
	authURL := h.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)

	http.Redirect(w, r, authURL, http.StatusFound)
}

// GoogleCallback completes the Google OAuth login flow
// @Summary Google OAuth callback
// @Description Exchange the authorization code and issue a bearer token
// @Tags Authorization
// @Produce json
// @Param code query string true "Authorization code from Google"
// @Param state query string false "State parameter for CSRF protection"
// @Success 200 {object} dto.TokenResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Missing authorization code"
// @Failure 403 {object} dto.ErrorResponse "No local account for this identity"
// @Failure 502 {object} dto.ErrorResponse "Provider exchange failed"
// @Router /api/v1/auth/google [get]
func (h *GoogleAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Authorization code is required")
		return
	}

	// The provider exchange is the only network call with material latency;
	// bound it so a stalled provider fails the login instead of hanging.
	ctx, cancel := context.WithTimeout(r.Context(), h.config.GoogleOAuth.ExchangeTimeout)
	defer cancel()

	token, err := h.oauth2Config.Exchange(ctx, code)
	if err != nil {
		h.logger.Warn("google callback: code exchange failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusBadGateway, "Failed to exchange authorization code")
		return
	}

	email, err := h.getGoogleEmail(ctx, token.AccessToken)
	if err != nil {
		h.logger.Warn("google callback: userinfo fetch failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusBadGateway, "Failed to get user info")
		return
	}

	// No auto-provisioning: federated login only works for existing accounts.
	var userID int64
	err = h.db.QueryRow(r.Context(),
		"SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteErrorResponse(w, http.StatusForbidden, "Invalid Credentials")
			return
		}
		internalError(w, h.logger, "google callback: user lookup failed", err)
		return
	}

	jwtToken, err := middleware.GenerateToken(userID, email, &h.config.JWT)
	if err != nil {
		internalError(w, h.logger, "google callback: token generation failed", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.TokenResponse{
		AccessToken: jwtToken,
		TokenType:   "bearer",
	})
}

// getGoogleEmail fetches the verified email claim from Google
func (h *GoogleAuthHandler) getGoogleEmail(ctx context.Context, accessToken string) (string, error) {
	service, err := googleOAuth2.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
	})))
	if err != nil {
		return "", err
	}

	userInfo, err := service.Userinfo.Get().Do()
	if err != nil {
		return "", err
	}
	if userInfo.Email == "" {
		return "", errors.New("provider identity has no email claim")
	}

	return userInfo.Email, nil
}
