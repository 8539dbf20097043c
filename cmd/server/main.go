package main

import (
	"log"
	"net/http"

	_ "pawhaven/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"pawhaven/internal/auth"
	"pawhaven/internal/cache"
	"pawhaven/internal/config"
	"pawhaven/internal/db"
	"pawhaven/internal/handler"
	"pawhaven/internal/model"
	"pawhaven/internal/notify"
	"pawhaven/internal/repository"
	"pawhaven/internal/router"
	"pawhaven/internal/service"
)

// @title Shelter Identity API
// @version 1.0
// @description Identity and credential service for the shelter platform: registration, login and password reset for adopter, volunteer and staff accounts.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// One migration per role table; all three share the Account schema.
	for _, role := range model.ResetLookupOrder {
		if err := gormDB.Table(role.TableName()).AutoMigrate(&model.Account{}); err != nil {
			log.Fatalf("auto-migrate %s: %v", role.TableName(), err)
		}
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize auth components
	accountRepo := repository.NewAccountRepository(gormDB)
	hasher, err := auth.NewPasswordHasher()
	if err != nil {
		log.Fatalf("password hasher init: %v", err)
	}
	tokenService, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("token service init: %v", err)
	}
	resetStore := auth.NewResetTokenStore(cacheClient)
	notifier := notify.NewLogNotifier()

	// Initialize services
	authService := service.NewAuthService(accountRepo, hasher, tokenService, resetStore, notifier)
	profileService := service.NewProfileService(accountRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.ResetBaseURL)
	profileHandler := handler.NewProfileHandler(profileService)

	// Register routes
	router.Register(e, cfg, authHandler, profileHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
