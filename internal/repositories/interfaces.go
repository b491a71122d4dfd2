package repositories

import (
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByEmailExcluding(email string, excludeUserID uuid.UUID) (*models.User, error)
	Update(user *models.User) error
	UpdateFields(userID uuid.UUID, fields map[string]interface{}) error
	UpdatePasswordHash(userID uuid.UUID, passwordHash string) error
	UpdateFailedLoginAttempts(user *models.User) error
	ResetFailedLoginAttempts(userID uuid.UUID) error
	Delete(userID uuid.UUID) error
}

type RefreshTokenRepositoryInterface interface {
	Create(token *models.RefreshToken) error
	GetByTokenHash(tokenHash string) (*models.RefreshToken, error)
	Revoke(tokenID uuid.UUID) error
	RevokeAllForUser(userID uuid.UUID) error
	DeleteExpired() (int64, error)
}

// BlacklistedTokenRepositoryInterface defines the contract for blacklisted token repository operations
type BlacklistedTokenRepositoryInterface interface {
	Create(token *models.BlacklistedToken) error
	GetByJTI(jti string) (*models.BlacklistedToken, error)
	DeleteExpired() (int64, error)
}

// AuditLogRepositoryInterface defines the contract for audit log repository operations
type AuditLogRepositoryInterface interface {
	Create(log *models.AuditLog) error
	GetByUserID(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
	DeleteOlderThan(duration time.Duration) (int64, error)
}

// TransactionRepositoryInterface defines the contract for ledger operations.
// Every query is scoped to the owning user.
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	CreateBatch(transactions []models.Transaction) error
	GetByID(userID, id uuid.UUID) (*models.Transaction, error)
	List(userID uuid.UUID, filters models.TransactionFilters) ([]models.Transaction, error)
	Update(transaction *models.Transaction) error
	Delete(userID, id uuid.UUID) error
	CountByCategory(userID, categoryID uuid.UUID) (int64, error)
	SumExpensesByCategory(userID, categoryID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	ExistsByExternalID(userID uuid.UUID, externalID string) (bool, error)
}

type CategoryRepositoryInterface interface {
	Create(category *models.Category) error
	GetByID(userID, id uuid.UUID) (*models.Category, error)
	GetByName(userID uuid.UUID, name string) (*models.Category, error)
	List(userID uuid.UUID) ([]models.Category, error)
	Update(category *models.Category) error
	Delete(userID, id uuid.UUID) error
	EnsureDefaults(userID uuid.UUID) error
}

type BudgetRepositoryInterface interface {
	Create(budget *models.Budget) error
	GetByID(userID, id uuid.UUID) (*models.Budget, error)
	GetByCategory(userID, categoryID uuid.UUID) (*models.Budget, error)
	List(userID uuid.UUID) ([]models.Budget, error)
	UpdateLimit(userID, id uuid.UUID, limit decimal.Decimal) error
	Delete(userID, id uuid.UUID) error
	CountByCategory(userID, categoryID uuid.UUID) (int64, error)
}

// SettingsRepositoryInterface reads and writes per-user settings rows.
// Reads create the default row when none exists yet.
type SettingsRepositoryInterface interface {
	GetPreferences(userID uuid.UUID) (*models.Preferences, error)
	SavePreferences(prefs *models.Preferences) error
	GetNotifications(userID uuid.UUID) (*models.NotificationSettings, error)
	SaveNotifications(settings *models.NotificationSettings) error
}
