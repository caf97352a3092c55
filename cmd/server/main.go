package main

import (
	"github.com/labstack/echo/v4"
	"github.com/pageturn/forum-backend/internal/notify"
	"github.com/pageturn/forum-backend/internal/router"
	"github.com/pageturn/forum-backend/internal/stats"
	"github.com/pageturn/forum-backend/pkg/config"
	"github.com/pageturn/forum-backend/pkg/logger"
	"github.com/pageturn/forum-backend/pkg/validators"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	logger.Init(cfg.Env)
	defer logger.Sync()

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.L().Fatal("failed to initialize database", zap.Error(err))
	}
	defer config.CloseDB(db)

	views := stats.NewStore(cfg.StatsFile)

	var mailer notify.Mailer
	if cfg.EmailEnabled {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom)
	}

	e := echo.New()
	e.Validator = validators.NewValidator()
	router.SetupMiddleware(e)
	if err := router.SetupRoutes(e, db, cfg, views, mailer); err != nil {
		logger.L().Fatal("failed to set up routes", zap.Error(err))
	}

	logger.L().Info("starting server", zap.String("port", cfg.Port))
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
