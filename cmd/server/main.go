package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"marketplace/internal/auth"
	"marketplace/internal/cache"
	"marketplace/internal/config"
	"marketplace/internal/db"
	"marketplace/internal/handler"
	"marketplace/internal/logger"
	"marketplace/internal/repository"
	"marketplace/internal/router"
	"marketplace/internal/service"
	"marketplace/internal/storage"
)

// @title Marketplace Listing API
// @version 1.0
// @description Marketplace listings with comments, image upload, and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Must(cfg.Env)
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Fatal("reset database", zap.Error(err))
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("migrate database", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	listingRepo := repository.NewListingRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)

	if n, err := listingRepo.NormalizeConditions(context.Background()); err != nil {
		log.Fatal("normalize listing conditions", zap.Error(err))
	} else if n > 0 {
		log.Info("normalized legacy listing conditions", zap.Int64("rows", n))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Warn("redis unavailable, caching and token revocation degraded", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	// Initialize auth components
	jwtService := auth.NewJWTServiceWithTTL(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	imageStore, err := storage.New(cfg.Images, log)
	if err != nil {
		log.Fatal("image store init", zap.Error(err))
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	listingService := service.NewListingService(listingRepo, cacheClient)
	commentService := service.NewCommentService(commentRepo, listingRepo)
	userService := service.NewUserService(userRepo, cacheClient)
	imageService := service.NewImageService(imageStore, log)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, log, authService, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Listing: handler.NewListingHandler(listingService),
		Comment: handler.NewCommentHandler(commentService),
		User:    handler.NewUserHandler(userService),
		Image:   handler.NewImageHandler(imageService),
	})

	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	log.Info("swagger documentation available", zap.String("url", "http://"+host+"/swagger/index.html"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
}
