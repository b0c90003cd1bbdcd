package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"trivedia/internal/cache"
	"trivedia/internal/config"
	"trivedia/internal/db"
	"trivedia/internal/logger"
	"trivedia/internal/repository"
	"trivedia/internal/service"
	"trivedia/internal/validation"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "admin",
		Short:         "Operational tasks for the agency backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(resetAdminPasswordCmd())
	rootCmd.AddCommand(clearPricingCmd())
	rootCmd.AddCommand(listPlansCmd())
	rootCmd.AddCommand(listUsersCmd())
	rootCmd.AddCommand(envCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the subset of the server wiring the commands need.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *gorm.DB
	cache  *cache.Client
	users  repository.UserRepository
	plans  repository.PricingRepository
	user   service.UserService
	prices service.PricingService
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel, "console")
	if err != nil {
		return nil, err
	}
	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, cfg.DBMaxOpenConns)
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		_ = db.Close(gormDB)
		return nil, err
	}

	// The cache is only opened so plan changes invalidate the public listing.
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	v := validation.New()
	users := repository.NewUserRepository(gormDB)
	plans := repository.NewPricingRepository(gormDB)

	return &app{
		cfg:    cfg,
		log:    log,
		db:     gormDB,
		cache:  cacheClient,
		users:  users,
		plans:  plans,
		user:   service.NewUserService(users, v),
		prices: service.NewPricingService(plans, cacheClient, v),
	}, nil
}

func (a *app) Close() {
	_ = a.cache.Close()
	if err := db.Close(a.db); err != nil {
		a.log.Warn("close database", zap.Error(err))
	}
	_ = a.log.Sync()
}

// withApp runs fn against an opened app and always closes it.
func withApp(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}
