package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/utils"
)

// JWTClaims represents the claims in the JWT token
type JWTClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken generates a signed, time-limited JWT for the given user
func GenerateToken(userID int64, email string, cfg *config.JWTConfig) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ValidateToken validates a JWT token and returns the claims. Expired,
// malformed and badly signed tokens all fail the same way; callers must not
// distinguish them toward the client.
func ValidateToken(tokenString string, cfg *config.JWTConfig) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenMalformed
}

// AuthMiddleware validates the bearer token in the Authorization header and
// resolves its subject against the users table, so tokens issued for a
// since-deleted user are rejected.
func AuthMiddleware(next http.HandlerFunc, cfg *config.JWTConfig, db database.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		// Extract token from "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims, err := ValidateToken(tokenParts[1], cfg)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		var userID int64
		err = db.QueryRow(r.Context(),
			"SELECT id FROM users WHERE id = $1", claims.UserID).Scan(&userID)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		ctx := utils.WithUserID(r.Context(), userID)
		ctx = utils.WithEmail(ctx, claims.Email)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
