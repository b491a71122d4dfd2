package models

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultCurrency = "USD"

	MaxFailedLoginAttempts = 5
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

	ErrInvalidCurrency = errors.New("currency must be a three letter ISO code")
)

// User is an account holder together with the profile fields the settings
// page edits.
type User struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Email               string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash        string         `gorm:"type:varchar(255);not null" json:"-"`
	FirstName           string         `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName            string         `gorm:"type:varchar(100);not null" json:"lastName"`
	Role                string         `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Currency            string         `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Bio                 string         `gorm:"type:text" json:"bio"`
	TwoFactorEnabled    bool           `gorm:"not null;default:false" json:"twoFactorEnabled"`
	AvatarURL           string         `gorm:"type:varchar(500)" json:"avatarUrl,omitempty"`
	FailedLoginAttempts int            `gorm:"default:0" json:"-"`
	LockedAt            *time.Time     `gorm:"index" json:"-"`
	LastLoginAt         *time.Time     `gorm:"index" json:"lastLoginAt,omitempty"`
	CreatedAt           time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updatedAt"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	RefreshTokens     []RefreshToken     `gorm:"foreignKey:UserID" json:"-"`
	BlacklistedTokens []BlacklistedToken `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Currency == "" {
		u.Currency = DefaultCurrency
	}

	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	return u.Validate()
}

func (u *User) BeforeUpdate(tx *gorm.DB) error {
	// Map-based updates only touch the listed columns.
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}
	return u.Validate()
}

func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if !emailRegex.MatchString(u.Email) {
		return errors.New("invalid email format")
	}
	if u.FirstName == "" {
		return errors.New("first name is required")
	}
	if u.LastName == "" {
		return errors.New("last name is required")
	}
	if u.Role != RoleUser && u.Role != RoleAdmin {
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	if !currencyRegex.MatchString(u.Currency) {
		return ErrInvalidCurrency
	}
	return nil
}

func (u *User) IsLocked() bool {
	return u.LockedAt != nil
}

func (u *User) Lock() {
	now := time.Now()
	u.LockedAt = &now
}

func (u *User) Unlock() {
	u.LockedAt = nil
	u.FailedLoginAttempts = 0
}

// IncrementFailedAttempts counts a failed login and locks the user once
// maxAttempts is reached. maxAttempts <= 0 uses MaxFailedLoginAttempts.
func (u *User) IncrementFailedAttempts(maxAttempts int) {
	if maxAttempts <= 0 {
		maxAttempts = MaxFailedLoginAttempts
	}
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		u.Lock()
	}
}

func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) TableName() string {
	return "users"
}
