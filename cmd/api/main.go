package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/kaiqkt/auth-registry-api/internal/app"
	"github.com/kaiqkt/auth-registry-api/internal/gateway"
	"github.com/kaiqkt/auth-registry-api/internal/handler"
	"github.com/kaiqkt/auth-registry-api/internal/middleware"
	"github.com/kaiqkt/auth-registry-api/internal/repository"
	"github.com/kaiqkt/auth-registry-api/internal/service"
	"github.com/kaiqkt/auth-registry-api/pkg/cache"
	"github.com/kaiqkt/auth-registry-api/pkg/config"
	"github.com/kaiqkt/auth-registry-api/pkg/database"
	"github.com/kaiqkt/auth-registry-api/pkg/logger"
	corsmiddleware "github.com/kaiqkt/auth-registry-api/pkg/middleware/cors"
	reqidmiddleware "github.com/kaiqkt/auth-registry-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient, logr)
	resetRepo := repository.NewPasswordResetRepository(redisClient)

	communication := gateway.NewCommunicationClient(cfg.Communication)

	emailSvc := service.NewEmailService(communication, logr, cfg.Communication)
	tokenSvc := service.NewTokenService(cfg.Auth)
	sessionSvc := service.NewSessionService(sessionRepo, logr, cfg.Auth.SessionTTL)
	authSvc := service.NewAuthService(userRepo, sessionSvc, tokenSvc, emailSvc, validate, logr)
	userSvc := service.NewUserService(userRepo, authSvc, sessionSvc, emailSvc, validate, logr)
	addressSvc := service.NewAddressService(userRepo, userSvc, validate, logr)
	resetSvc := service.NewPasswordResetService(resetRepo, userSvc, sessionSvc, emailSvc, logr, cfg.Auth.ResetCodeTTL)
	metricsSvc := service.NewMetricsService()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	app.SetupRouter(r, cfg.APIPrefix, &app.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		User:          handler.NewUserHandler(userSvc),
		Address:       handler.NewAddressHandler(addressSvc),
		Session:       handler.NewSessionHandler(sessionSvc),
		PasswordReset: handler.NewPasswordResetHandler(resetSvc),
		Metrics:       handler.NewMetricsHandler(metricsSvc),
		Tokens:        tokenSvc,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
