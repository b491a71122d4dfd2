package repositories

import (
	"errors"
	"fmt"
	"strings"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepositoryInterface {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.Create(user).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) first(query *gorm.DB, what string) (*models.User, error) {
	var user models.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", what, err)
	}
	return &user, nil
}

// GetByID returns an active user; soft-deleted users are not found.
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	return r.first(r.db.Where("id = ?", id), "ID")
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return r.first(r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))), "email")
}

// GetByEmailExcluding finds another user holding email.
func (r *UserRepository) GetByEmailExcluding(email string, excludeUserID uuid.UUID) (*models.User, error) {
	return r.first(r.db.Where("email = ? AND id != ?", strings.ToLower(strings.TrimSpace(email)), excludeUserID), "email")
}

func (r *UserRepository) Update(user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}

	if err := r.db.Save(user).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// UpdateFields applies a partial profile update keyed by column name.
func (r *UserRepository) UpdateFields(userID uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	result := r.db.Model(&models.User{ID: userID}).Updates(fields)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to update user fields: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePasswordHash(userID uuid.UUID, passwordHash string) error {
	if userID == uuid.Nil {
		return errors.New("user ID cannot be nil")
	}
	if passwordHash == "" {
		return errors.New("password hash cannot be empty")
	}

	result := r.db.Model(&models.User{ID: userID}).Update("password_hash", passwordHash)
	if result.Error != nil {
		return fmt.Errorf("failed to update password hash: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdateFailedLoginAttempts persists the lockout counters held on user.
func (r *UserRepository) UpdateFailedLoginAttempts(user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}

	err := r.db.Model(user).Updates(map[string]interface{}{
		"failed_login_attempts": user.FailedLoginAttempts,
		"locked_at":             user.LockedAt,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update login attempts: %w", err)
	}

	return nil
}

func (r *UserRepository) ResetFailedLoginAttempts(userID uuid.UUID) error {
	err := r.db.Model(&models.User{ID: userID}).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_at":             nil,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}

	return nil
}

// Delete soft deletes a user
func (r *UserRepository) Delete(userID uuid.UUID) error {
	result := r.db.Delete(&models.User{ID: userID})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
