package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/handlers"
	"postboard/internal/middleware"
)

// Handlers bundles the per-entity handlers wired by SetupRoutes
type Handlers struct {
	Auth       *handlers.AuthHandler
	GoogleAuth *handlers.GoogleAuthHandler
	Users      *handlers.UsersHandler
	Posts      *handlers.PostsHandler
	Votes      *handlers.VotesHandler
	CreditCard *handlers.CreditCardHandler
	Health     *handlers.HealthHandler
}

// SetupRoutes configures all application routes
func SetupRoutes(cfg *config.Config, db database.Pool, h Handlers) {
	// Health check routes
	http.HandleFunc("/healthz", h.Health.HealthCheck)
	http.HandleFunc("/livez", h.Health.LivenessCheck)
	http.HandleFunc("/readyz", h.Health.ReadinessCheck)
	http.HandleFunc("/api/v1/health", h.Health.APIStatus)

	// Authentication routes
	http.HandleFunc("/api/v1/auth/login", h.Auth.Login)
	http.HandleFunc("/api/v1/auth/login/google", h.GoogleAuth.GoogleLogin)
	http.HandleFunc("/api/v1/auth/google", h.GoogleAuth.GoogleCallback)

	// Users: sign-up is public, everything else needs a bearer token
	authedUsers := middleware.AuthMiddleware(h.Users.Users, &cfg.JWT, db)
	http.HandleFunc("/api/v1/users/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/api/v1/users/" {
			h.Users.CreateUser(w, r)
			return
		}
		authedUsers(w, r)
	})

	// Authenticated resource routes
	http.HandleFunc("/api/v1/posts/", middleware.AuthMiddleware(h.Posts.Posts, &cfg.JWT, db))
	http.HandleFunc("/api/v1/votes/", middleware.AuthMiddleware(h.Votes.VotePost, &cfg.JWT, db))
	http.HandleFunc("/api/v1/credit-card/", middleware.AuthMiddleware(h.CreditCard.CreditCard, &cfg.JWT, db))

	// Swagger UI
	http.Handle("/swagger/", httpSwagger.Handler())

	// Root route
	http.HandleFunc("/", rootHandler)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Postboard backend is running."))
}
