package main

import (
	"github.com/insightly-hq/insightly/internal/config"
	"github.com/insightly-hq/insightly/internal/handlers"
	"github.com/insightly-hq/insightly/internal/models"
	"github.com/insightly-hq/insightly/internal/services"
	"github.com/insightly-hq/insightly/internal/utils"
	"github.com/insightly-hq/insightly/pkg/logger"
	"github.com/robfig/cron/v3"
)

// appServices holds the initialized handlers and schedulers the router and
// shutdown path need.
type appServices struct {
	cfg         *config.Config
	authHandler *handlers.AuthHandler
	logCleanup  *cron.Cron
}

// bootstrap initializes all application dependencies: database, seed data,
// schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.SeedRoles(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed roles")
	}

	services.InitSystemLogger(models.GetDB())
	logCleanup := services.StartLogCleanupScheduler(models.GetDB(), cfg.Log.RetentionDays)

	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg)
	if err := authHandler.CreateDefaultAccounts(&cfg.Admin); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default accounts")
	}

	return &appServices{
		cfg:         cfg,
		authHandler: authHandler,
		logCleanup:  logCleanup,
	}
}

// shutdown gracefully stops background schedulers.
func (s *appServices) shutdown() {
	if s.logCleanup != nil {
		s.logCleanup.Stop()
	}
	logger.Info().Msg("All schedulers stopped")
}
