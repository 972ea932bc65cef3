package dto

// TokenResponse is returned by both the password and the Google login paths
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}
