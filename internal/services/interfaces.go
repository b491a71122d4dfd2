package services

import (
	"context"
	"io"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/finance"
	"fintrack/internal/models"

	"github.com/google/uuid"
)

// AuthServiceInterface defines registration, login and token lifecycle operations
type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error)
	Login(req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenResponse, error)
	RefreshTokens(refreshToken, ipAddress, userAgent string) (*dto.TokenResponse, error)
	Logout(accessToken, ipAddress, userAgent string) error
}

// TokenServiceInterface defines JWT issuing and validation
type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	GenerateRefreshToken(userID uuid.UUID) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ValidateRefreshToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
	GetJTI(tokenString string) (string, error)
	GetTokenExpiry(tokenString string) (time.Time, error)
}

// PasswordServiceInterface defines the password policy and hashing
type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
	ChangePassword(userID uuid.UUID, currentPassword, newPassword string) error
	GenerateSecurePassword(length int) (string, error)
}

// ProfileServiceInterface defines operations on the authenticated user's own profile
type ProfileServiceInterface interface {
	GetProfile(userID uuid.UUID) (*models.User, error)
	UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest, ipAddress, userAgent string) (*models.User, error)
	PatchProfile(userID uuid.UUID, req *dto.PatchProfileRequest, ipAddress, userAgent string) (*models.User, error)
	ChangePassword(userID uuid.UUID, req *dto.ChangePasswordRequest, ipAddress, userAgent string) error
	UploadAvatar(userID uuid.UUID, filename string, file io.Reader) (string, error)
	DeleteAccount(userID uuid.UUID, ipAddress, userAgent string) error
}

// TransactionServiceInterface defines ledger operations of one user
type TransactionServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID, query *dto.TransactionListQuery) ([]models.Transaction, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error)
	Create(ctx context.Context, userID uuid.UUID, req *dto.TransactionRequest) (*models.Transaction, error)
	Update(ctx context.Context, userID, id uuid.UUID, req *dto.TransactionRequest) (*models.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// CategoryServiceInterface defines category management
type CategoryServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	Create(ctx context.Context, userID uuid.UUID, req *dto.CategoryRequest) (*models.Category, error)
	Update(ctx context.Context, userID, id uuid.UUID, req *dto.CategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// BudgetServiceInterface defines budgets with their derived spending
type BudgetServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID) ([]dto.BudgetResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req *dto.CreateBudgetRequest) (*dto.BudgetResponse, error)
	UpdateLimit(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateBudgetRequest) (*dto.BudgetResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Summary(ctx context.Context, userID uuid.UUID) (*dto.BudgetSummaryResponse, error)
}

// SettingsServiceInterface defines preferences and notification settings
type SettingsServiceInterface interface {
	GetPreferences(userID uuid.UUID) (*models.Preferences, error)
	UpdatePreferences(userID uuid.UUID, req *dto.PreferencesRequest) (*models.Preferences, error)
	GetNotifications(userID uuid.UUID) (*models.NotificationSettings, error)
	UpdateNotifications(userID uuid.UUID, req *dto.NotificationsRequest) (*models.NotificationSettings, error)
}

// AnalyticsServiceInterface computes dashboard aggregates
type AnalyticsServiceInterface interface {
	Summarize(ctx context.Context, userID uuid.UUID, rangeName string, topN int) (*finance.Summary, error)
	Invalidate(userID uuid.UUID)
}

// AuditServiceInterface exposes the audit trail
type AuditServiceInterface interface {
	GetActivity(userID uuid.UUID, page, limit int) ([]*models.AuditLog, int64, error)
	PurgeExpired(retention time.Duration) (models.PurgeResult, error)
}

// MetricsRecorderInterface records operational metrics
type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

// AuditLoggerInterface writes structured audit events to the application log
type AuditLoggerInterface interface {
	LogTransactionWritten(ctx context.Context, userID, transactionID uuid.UUID, operation string)
	LogBudgetExceeded(ctx context.Context, userID, budgetID uuid.UUID, limit, spent string)
	LogCategoryChanged(ctx context.Context, userID, categoryID uuid.UUID, operation string)
	LogSecurityEvent(ctx context.Context, eventType string, userID uuid.UUID, details map[string]interface{})
}

// CircuitBreakerInterface guards calls to an unreliable dependency
type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() models.CircuitBreakerState
	Reset()
	GetFailureCount() int
}

// DemoDataGeneratorInterface produces realistic sample ledgers
type DemoDataGeneratorInterface interface {
	GenerateTransactions(userID uuid.UUID, categories []models.Category, months int, now time.Time) []models.Transaction
	GenerateBudgets(userID uuid.UUID, categories []models.Category, now time.Time) []models.Budget
}

// SeedServiceInterface fills a user's ledger with demo data
type SeedServiceInterface interface {
	Seed(ctx context.Context, userID uuid.UUID, months int, progress func(done, total int)) (*dto.SeedResult, error)
}
