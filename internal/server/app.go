package server

import (
	"log/slog"

	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/events"
	"fintrack/internal/finance"
	"fintrack/internal/handlers"
	"fintrack/internal/logging"
	"fintrack/internal/middleware"
	"fintrack/internal/repositories"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Dependencies are the process-level resources an App is built from.
// Registry defaults to a fresh prometheus registry and Publisher to
// events.NoopPublisher.
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB
	Publisher events.Publisher
	Registry  *prometheus.Registry
	Logger    *slog.Logger
	Version   string
}

// App holds the wired echo instance and the services the CLI drives
// outside of HTTP.
type App struct {
	Echo        *echo.Echo
	RateLimiter *middleware.IPRateLimiter
	Registry    *prometheus.Registry

	Users     repositories.UserRepositoryInterface
	Auth      services.AuthServiceInterface
	Audit     services.AuditServiceInterface
	Seed      services.SeedServiceInterface
	Analytics services.AnalyticsServiceInterface
}

// New builds repositories, services and handlers and registers every route.
func New(deps Dependencies) *App {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	userRepo := repositories.NewUserRepository(deps.DB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(deps.DB)
	blacklistedTokenRepo := repositories.NewBlacklistedTokenRepository(deps.DB)
	auditRepo := repositories.NewAuditLogRepository(deps.DB)
	categoryRepo := repositories.NewCategoryRepository(deps.DB)
	transactionRepo := repositories.NewTransactionRepository(deps.DB)
	budgetRepo := repositories.NewBudgetRepository(deps.DB)
	settingsRepo := repositories.NewSettingsRepository(deps.DB)

	metrics := services.NewPrometheusMetrics(registry)
	auditLogger := services.NewAuditLogger(logging.WithComponent(logger, "audit"))
	tokenService := services.NewTokenService(&cfg.JWT)
	passwordService := services.NewPasswordService(userRepo, cfg.Security)

	authService := services.NewAuthService(services.AuthDependencies{
		UserRepo:             userRepo,
		RefreshTokenRepo:     refreshTokenRepo,
		AuditRepo:            auditRepo,
		BlacklistedTokenRepo: blacklistedTokenRepo,
		CategoryRepo:         categoryRepo,
		SettingsRepo:         settingsRepo,
		PasswordService:      passwordService,
		TokenService:         tokenService,
		Metrics:              metrics,
		MaxFailedAttempts:    cfg.Security.MaxFailedAttempts,
	}, logging.WithComponent(logger, "auth"))

	analyticsService := services.NewAnalyticsService(transactionRepo, budgetRepo, categoryRepo,
		cache.NewLRUCache[*finance.Summary](cfg.Analytics.CacheSize, cfg.Analytics.CacheTTL),
		metrics, logging.WithComponent(logger, "analytics"))

	transactionService := services.NewTransactionService(services.TransactionDependencies{
		TransactionRepo: transactionRepo,
		CategoryRepo:    categoryRepo,
		BudgetRepo:      budgetRepo,
		SettingsRepo:    settingsRepo,
		Publisher:       publisher,
		Analytics:       analyticsService,
		Metrics:         metrics,
		Audit:           auditLogger,
	}, logging.WithComponent(logger, "transactions"))

	categoryService := services.NewCategoryService(categoryRepo, transactionRepo, budgetRepo,
		analyticsService, auditLogger, logging.WithComponent(logger, "categories"))
	budgetService := services.NewBudgetService(budgetRepo, categoryRepo, transactionRepo,
		analyticsService, logging.WithComponent(logger, "budgets"))
	profileService := services.NewProfileService(userRepo, refreshTokenRepo, auditRepo,
		passwordService, cfg.Storage, logging.WithComponent(logger, "profile"))
	settingsService := services.NewSettingsService(settingsRepo)
	auditService := services.NewAuditService(auditRepo, refreshTokenRepo, blacklistedTokenRepo,
		logging.WithComponent(logger, "audit"))
	seedService := services.NewSeedService(categoryRepo, transactionRepo, budgetRepo,
		services.NewDemoDataGenerator(0), analyticsService, logger)

	h := Handlers{
		Auth:        handlers.NewAuthHandler(authService, tokenService),
		Profile:     handlers.NewProfileHandler(profileService, auditService),
		Transaction: handlers.NewTransactionHandler(transactionService),
		Category:    handlers.NewCategoryHandler(categoryService),
		Budget:      handlers.NewBudgetHandler(budgetService),
		Analytics:   handlers.NewAnalyticsHandler(analyticsService, cfg.Analytics.TopN),
		Settings:    handlers.NewSettingsHandler(settingsService),
		Health:      handlers.NewHealthCheckHandler(deps.DB, deps.Version),
	}
	if !cfg.IsProduction() {
		h.Dev = handlers.NewDevHandler(seedService)
	}

	rateLimiter := middleware.NewIPRateLimiter(cfg.Security.RateLimitPerSecond)
	e := NewRouter(h, RouterOptions{
		Logger:               logger,
		CORSAllowOrigins:     cfg.Server.CORSAllowOrigins,
		RateLimiter:          rateLimiter,
		TokenService:         tokenService,
		BlacklistedTokenRepo: blacklistedTokenRepo,
		AuditLogger:          auditLogger,
		UploadDir:            cfg.Storage.UploadDir,
		UploadURL:            cfg.Storage.PublicURL,
		Gatherer:             registry,
	})

	return &App{
		Echo:        e,
		RateLimiter: rateLimiter,
		Registry:    registry,
		Users:       userRepo,
		Auth:        authService,
		Audit:       auditService,
		Seed:        seedService,
		Analytics:   analyticsService,
	}
}
