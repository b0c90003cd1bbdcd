package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"trivedia/docs"
	"trivedia/internal/auth"
	"trivedia/internal/cache"
	"trivedia/internal/config"
	"trivedia/internal/db"
	"trivedia/internal/handler"
	"trivedia/internal/logger"
	"trivedia/internal/mailer"
	"trivedia/internal/repository"
	"trivedia/internal/router"
	"trivedia/internal/service"
	"trivedia/internal/validation"
)

// @title Trivedia Agency API
// @version 1.0
// @description Content backend for the agency site: users, portfolio, pricing and contact inquiries.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, cfg.DBMaxOpenConns)
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.Warn("close database", zap.Error(err))
		}
	}()
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	if err := cacheClient.Ping(context.Background()); err != nil {
		// The API keeps working without redis: caching is skipped and
		// token revocation is unavailable until it comes back.
		log.Warn("redis unavailable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	v := validation.New()

	userRepo := repository.NewUserRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	pricingRepo := repository.NewPricingRepository(gormDB)
	contactRepo := repository.NewContactRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	authService := service.NewAuthService(userRepo, jwtService, tokenStore, v)
	userService := service.NewUserService(userRepo, v)
	projectService := service.NewProjectService(projectRepo, cacheClient, v, cfg.PublicBaseURL)
	pricingService := service.NewPricingService(pricingRepo, cacheClient, v)
	contactService := service.NewContactService(contactRepo, mailer.NewLogDispatcher(log), v, log, cfg.ContactNotifyEmail)
	statsService := service.NewStatsService(userRepo, projectRepo, contactRepo)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	e := router.New(router.Deps{
		Logger:        log,
		Authenticator: authService,
		Health: func(ctx context.Context) error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		Auth:     handler.NewAuthHandler(authService),
		Users:    handler.NewUserHandler(userService, statsService),
		Projects: handler.NewProjectHandler(projectService, statsService),
		Pricing:  handler.NewPricingHandler(pricingService),
		Contacts: handler.NewContactHandler(contactService, statsService),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.ServerPort
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", addr),
			zap.String("swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
