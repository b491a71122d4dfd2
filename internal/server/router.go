package server

import (
	"log/slog"
	"strings"

	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
	"fintrack/internal/repositories"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodySize = "4M"

// Handlers groups one handler per resource. Dev is nil in production.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Profile     *handlers.ProfileHandler
	Transaction *handlers.TransactionHandler
	Category    *handlers.CategoryHandler
	Budget      *handlers.BudgetHandler
	Analytics   *handlers.AnalyticsHandler
	Settings    *handlers.SettingsHandler
	Health      *handlers.HealthCheckHandler
	Dev         *handlers.DevHandler
}

type RouterOptions struct {
	Logger               *slog.Logger
	CORSAllowOrigins     []string
	RateLimiter          *middleware.IPRateLimiter
	TokenService         services.TokenServiceInterface
	BlacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface
	AuditLogger          services.AuditLoggerInterface
	UploadDir            string
	UploadURL            string
	Gatherer             prometheus.Gatherer
}

// NewRouter registers the middleware chain and every route on a new echo instance.
func NewRouter(h Handlers, opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  opts.CORSAllowOrigins,
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{middleware.TraceIDHeader},
	}))
	e.Use(echomw.BodyLimit(maxBodySize))
	if opts.RateLimiter != nil {
		e.Use(opts.RateLimiter.Middleware())
	}

	e.GET("/health", h.Health.HealthCheck)
	if opts.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	if opts.UploadDir != "" {
		e.Static(strings.TrimSuffix(opts.UploadURL, "/"), opts.UploadDir)
	}

	api := e.Group("/api")
	api.POST("/users/register", h.Auth.Register)
	api.POST("/users/login", h.Auth.Login)
	api.POST("/users/refresh", h.Auth.RefreshToken)

	protected := api.Group("", middleware.RequireAuth(opts.TokenService, opts.BlacklistedTokenRepo, opts.AuditLogger))

	protected.POST("/users/logout", h.Auth.Logout)
	protected.GET("/users/me", h.Profile.GetProfile)
	protected.PUT("/users/me", h.Profile.UpdateProfile)
	protected.PATCH("/users/me", h.Profile.PatchProfile)
	protected.DELETE("/users/me", h.Profile.DeleteAccount)
	protected.POST("/users/me/avatar", h.Profile.UploadAvatar)
	protected.PUT("/users/me/password", h.Profile.ChangePassword)
	protected.GET("/users/me/activity", h.Profile.GetActivity)
	protected.GET("/profile", h.Profile.GetProfile)
	protected.PUT("/profile", h.Profile.UpdateProfile)

	protected.GET("/preferences", h.Settings.GetPreferences)
	protected.PUT("/preferences", h.Settings.UpdatePreferences)
	protected.GET("/notifications", h.Settings.GetNotifications)
	protected.PUT("/notifications", h.Settings.UpdateNotifications)

	protected.GET("/transactions", h.Transaction.ListTransactions)
	protected.POST("/transactions", h.Transaction.CreateTransaction)
	protected.GET("/transactions/:id", h.Transaction.GetTransaction)
	protected.PUT("/transactions/:id", h.Transaction.UpdateTransaction)
	protected.DELETE("/transactions/:id", h.Transaction.DeleteTransaction)

	protected.GET("/categories", h.Category.ListCategories)
	protected.POST("/categories", h.Category.CreateCategory)
	protected.PUT("/categories/:id", h.Category.UpdateCategory)
	protected.DELETE("/categories/:id", h.Category.DeleteCategory)

	protected.GET("/budgets", h.Budget.ListBudgets)
	protected.GET("/budgets/summary", h.Budget.GetSummary)
	protected.POST("/budgets", h.Budget.CreateBudget)
	protected.PUT("/budgets/:id", h.Budget.UpdateBudget)
	protected.DELETE("/budgets/:id", h.Budget.DeleteBudget)

	analytics := protected.Group("/analytics")
	analytics.GET("/overview", h.Analytics.Overview)
	analytics.GET("/summary", h.Analytics.Summary)
	analytics.GET("/monthly", h.Analytics.Monthly)
	analytics.GET("/categories", h.Analytics.Categories)
	analytics.GET("/budgets", h.Analytics.Budgets)
	analytics.GET("/top", h.Analytics.Top)

	if h.Dev != nil {
		protected.POST("/dev/demo-data", h.Dev.GenerateDemoData)
	}

	return e
}
