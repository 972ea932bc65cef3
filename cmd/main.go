// @title Postboard Backend API
// @version 1.0
// @description Posts, votes and user accounts with JWT and Google login

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"
	"go.uber.org/zap"

	_ "postboard/docs" // swagger docs registration
	"postboard/internal/cardcipher"
	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/handlers"
	"postboard/internal/middleware"
	"postboard/internal/migrate"
	"postboard/internal/routes"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()

	if err := migrate.Up(ctx, cfg.GetDSN()); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	pool, err := database.New(ctx, cfg)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer pool.Close()

	// Initialize handlers
	cipher := cardcipher.New(cfg.CardEncryption.Key)
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(pool, cfg, logger),
		GoogleAuth: handlers.NewGoogleAuthHandler(pool, cfg, logger),
		Users:      handlers.NewUsersHandler(pool, cfg, logger),
		Posts:      handlers.NewPostsHandler(pool, cfg, logger),
		Votes:      handlers.NewVotesHandler(pool, cfg, logger),
		CreditCard: handlers.NewCreditCardHandler(pool, cipher, logger),
		Health:     handlers.NewHealthHandler(pool, cfg),
	}

	routes.SetupRoutes(cfg, pool, h)

	// CORS + timing header around the default mux
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})
	handler := c.Handler(middleware.ProcessTime(http.DefaultServeMux))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	// Wait for SIGINT/SIGTERM and shut down gracefully
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped.")
}
