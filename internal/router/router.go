package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pageturn/forum-backend/internal/handlers"
	"github.com/pageturn/forum-backend/internal/middleware"
	"github.com/pageturn/forum-backend/internal/models"
	"github.com/pageturn/forum-backend/internal/notify"
	"github.com/pageturn/forum-backend/internal/repositories"
	"github.com/pageturn/forum-backend/internal/stats"
	"github.com/pageturn/forum-backend/pkg/config"
	"github.com/pageturn/forum-backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			logger.L().Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))
}

// SetupRoutes migrates the schema, wires repositories into handlers and
// registers every route group. mailer may be nil when email is disabled.
func SetupRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config, views *stats.Store, mailer notify.Mailer) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.Favorite{},
		&models.Subscription{},
		&models.Notification{},
		&models.PasswordResetToken{},
	)
	if err != nil {
		return err
	}
	logger.L().Info("database migrations completed")

	e.GET("/health", handlers.HealthCheck)
	e.Static("/uploads", cfg.UploadDir)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	reactionRepo := repositories.NewPostgresReactionRepository(db)
	categoryRepo := repositories.NewPostgresCategoryRepository(db)
	favoriteRepo := repositories.NewPostgresFavoriteRepository(db)
	subscriptionRepo := repositories.NewPostgresSubscriptionRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	resetRepo := repositories.NewPostgresPasswordResetRepository(db)
	statsRepo := repositories.NewPostgresStatsRepository(db)

	notifier := notify.NewNotifier(subscriptionRepo, notificationRepo, userRepo, mailer, cfg.EmailEnabled)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userRepo, resetRepo, mailer, cfg.JWTSecret, cfg.JWTExpiryHrs, cfg.BaseURL)
	postHandler := handlers.NewPostHandler(postRepo, commentRepo, reactionRepo, notifier, views, cfg.UploadDir)
	commentHandler := handlers.NewCommentHandler(commentRepo, reactionRepo)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo, postRepo)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteRepo, postRepo)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionRepo, notificationRepo, postRepo)
	userHandler := handlers.NewUserHandler(userRepo, statsRepo, cfg.UploadDir)
	searchHandler := handlers.NewSearchHandler(postRepo, userRepo)
	statsHandler := handlers.NewStatsHandler(statsRepo, views)

	// --- Unprotected auth routes ---
	authGroup := e.Group("/api/v1/auth")
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Public routes; OptionalAuth lets the visibility policy see who asks ---
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalAuth(cfg.JWTSecret))
	postHandler.RegisterPublicPostRoutes(public)
	commentHandler.RegisterPublicCommentRoutes(public)
	categoryHandler.RegisterPublicCategoryRoutes(public)
	userHandler.RegisterPublicUserRoutes(public)
	searchHandler.RegisterSearchRoutes(public)
	statsHandler.RegisterStatsRoutes(public)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	postHandler.RegisterPostRoutes(api)
	commentHandler.RegisterCommentRoutes(api)
	categoryHandler.RegisterCategoryRoutes(api)
	favoriteHandler.RegisterFavoriteRoutes(api)
	subscriptionHandler.RegisterSubscriptionRoutes(api)
	userHandler.RegisterUserRoutes(api)

	// --- Admin routes ---
	admin := e.Group("/api/v1")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret), middleware.AdminOnly())
	postHandler.RegisterAdminPostRoutes(admin)
	commentHandler.RegisterAdminCommentRoutes(admin)
	categoryHandler.RegisterAdminCategoryRoutes(admin)
	userHandler.RegisterAdminUserRoutes(admin)

	logger.L().Info("routes configured", zap.Bool("email_enabled", cfg.EmailEnabled))
	return nil
}
