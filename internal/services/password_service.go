package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"

	"fintrack/internal/config"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultBCryptCost = 12

	DefaultMinPasswordLength = 8
	MaxPasswordLength        = 72 // bcrypt limit
)

var (
	ErrPasswordEmpty        = errors.New("password cannot be empty")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrPasswordTooLong      = fmt.Errorf("password must not exceed %d characters", MaxPasswordLength)
	ErrPasswordNoUppercase  = errors.New("password must contain at least one uppercase letter")
	ErrPasswordNoLowercase  = errors.New("password must contain at least one lowercase letter")
	ErrPasswordNoNumber     = errors.New("password must contain at least one number")
	ErrPasswordNoSpecial    = errors.New("password must contain at least one special character")
	ErrCurrentPasswordWrong = errors.New("current password is incorrect")
	ErrSamePassword         = errors.New("new password must be different from current password")

	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	numberRegex    = regexp.MustCompile(`[0-9]`)
	specialRegex   = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{}|;:,.<>?]`)
)

// PasswordService enforces the configured password policy and hashes with bcrypt.
type PasswordService struct {
	policy   config.SecurityConfig
	userRepo repositories.UserRepositoryInterface
}

// NewPasswordService creates a password service. Zero values in security fall
// back to DefaultBCryptCost and DefaultMinPasswordLength.
func NewPasswordService(userRepo repositories.UserRepositoryInterface, security config.SecurityConfig) *PasswordService {
	if security.BCryptCost == 0 {
		security.BCryptCost = DefaultBCryptCost
	}
	if security.PasswordMinLength == 0 {
		security.PasswordMinLength = DefaultMinPasswordLength
	}
	return &PasswordService{policy: security, userRepo: userRepo}
}

// ValidatePassword checks a password against the policy
func (ps *PasswordService) ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordEmpty
	}
	if len(password) < ps.policy.PasswordMinLength {
		return fmt.Errorf("%w: minimum is %d characters", ErrPasswordTooShort, ps.policy.PasswordMinLength)
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if ps.policy.RequireUppercase && !uppercaseRegex.MatchString(password) {
		return ErrPasswordNoUppercase
	}
	if ps.policy.RequireLowercase && !lowercaseRegex.MatchString(password) {
		return ErrPasswordNoLowercase
	}
	if ps.policy.RequireNumbers && !numberRegex.MatchString(password) {
		return ErrPasswordNoNumber
	}
	if ps.policy.RequireSpecialChars && !specialRegex.MatchString(password) {
		return ErrPasswordNoSpecial
	}
	return nil
}

// HashPassword validates and hashes a password using bcrypt
func (ps *PasswordService) HashPassword(password string) (string, error) {
	if err := ps.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("password validation failed: %w", err)
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), ps.policy.BCryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

func (ps *PasswordService) ComparePassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ChangePassword replaces the user's password after checking the current one.
func (ps *PasswordService) ChangePassword(userID uuid.UUID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return ErrPasswordEmpty
	}
	if currentPassword == newPassword {
		return ErrSamePassword
	}
	if err := ps.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := ps.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if !ps.ComparePassword(currentPassword, user.PasswordHash) {
		return ErrCurrentPasswordWrong
	}

	hashed, err := ps.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := ps.userRepo.UpdatePasswordHash(user.ID, hashed); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// GenerateSecurePassword returns a random password of the given length that
// satisfies every character class.
func (ps *PasswordService) GenerateSecurePassword(length int) (string, error) {
	if length < ps.policy.PasswordMinLength {
		length = ps.policy.PasswordMinLength
	}
	if length < 4 {
		length = 4
	}
	if length > MaxPasswordLength {
		length = MaxPasswordLength
	}

	const (
		uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		lowercase = "abcdefghijklmnopqrstuvwxyz"
		numbers   = "0123456789"
		special   = "!@#$%^&*()_+-=[]{}|;:,.<>?"
	)
	required := []string{uppercase, lowercase, numbers, special}
	all := uppercase + lowercase + numbers + special

	result := make([]byte, length)
	for i := range result {
		set := all
		if i < len(required) {
			set = required[i]
		}
		idx, err := secureRandomInt(len(set))
		if err != nil {
			return "", fmt.Errorf("failed to generate random index: %w", err)
		}
		result[i] = set[idx]
	}

	for i := len(result) - 1; i > 0; i-- {
		j, err := secureRandomInt(i + 1)
		if err != nil {
			return "", fmt.Errorf("failed to shuffle password: %w", err)
		}
		result[i], result[j] = result[j], result[i]
	}
	return string(result), nil
}

func secureRandomInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
