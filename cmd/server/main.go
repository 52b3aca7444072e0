package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"baldguard/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"baldguard/internal/auth"
	"baldguard/internal/cache"
	"baldguard/internal/config"
	"baldguard/internal/db"
	"baldguard/internal/handler"
	"baldguard/internal/model"
	"baldguard/internal/repository"
	"baldguard/internal/router"
	"baldguard/internal/service"
	"baldguard/internal/wallet"
)

// @title Baldness Detection API
// @version 1.0
// @description Authentication and baldness detection API with Google OAuth, email login, and JWT sessions.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// run wires the application and blocks on the HTTP server. Returning instead
// of exiting lets the deferred cache and provisioner shutdowns drain.
func run() error {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewPostgres(cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}

	// Drop the users table if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping users table...")
		if err := gormDB.Migrator().DropTable(&model.User{}); err != nil {
			log.Printf("Warning: failed to drop table (may not exist): %v", err)
		}
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)
	googleVerifier := auth.NewGoogleVerifier(context.Background(), cfg.GoogleClientID)

	// Initialize services
	userService := service.NewUserService(userRepo, cacheClient)
	authService := service.NewAuthService(userRepo, jwtService, googleVerifier)
	detectorService := service.NewDetectorService()

	// Initialize the background wallet provisioner
	walletClient := wallet.NewClient(cfg.WalletAPIURL, cfg.WalletSecretKey, cfg.WalletClientID)
	provisioner := wallet.NewProvisioner(walletClient, userService, cfg.WalletQueueSize)
	defer provisioner.Close()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, userService, provisioner)
	detectorHandler := handler.NewDetectorHandler(detectorService)

	// Register routes
	router.Register(e, cfg, authHandler, detectorHandler)

	if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server start: %w", err)
	}
	return nil
}
