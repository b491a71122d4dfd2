package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultCategoryColor = "#6b7280"
	DefaultCategoryIcon  = "📌"

	MaxCategoryNameLength = 50
)

var (
	hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryNameTooLong  = errors.New("category name is too long")
	ErrInvalidColor         = errors.New("color must be a hex value like #aabbcc")
)

// Category groups transactions and budgets. Names are unique per user
// regardless of case, enforced through NameKey.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name,priority:1" json:"userId"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	NameKey   string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_categories_user_name,priority:2" json:"-"`
	Color     string    `gorm:"type:varchar(7);not null;default:'#6b7280'" json:"color"`
	Icon      string    `gorm:"type:varchar(16);not null" json:"icon"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// CategoryNameKey is the case-insensitive identity of a category name.
func CategoryNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ApplyDefaults fills color and icon when they are missing.
func (c *Category) ApplyDefaults() {
	c.Name = strings.TrimSpace(c.Name)
	if c.Color == "" {
		c.Color = DefaultCategoryColor
	}
	if c.Icon == "" {
		c.Icon = DefaultCategoryIcon
	}
	c.NameKey = CategoryNameKey(c.Name)
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	c.ApplyDefaults()
	return c.Validate()
}

func (c *Category) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	c.ApplyDefaults()
	return c.Validate()
}

func (c *Category) Validate() error {
	if c.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}
	if c.Name == "" {
		return ErrCategoryNameRequired
	}
	if len([]rune(c.Name)) > MaxCategoryNameLength {
		return ErrCategoryNameTooLong
	}
	if !IsValidHexColor(c.Color) {
		return ErrInvalidColor
	}
	return nil
}

func (c *Category) TableName() string {
	return "categories"
}

// IsValidHexColor accepts #rgb and #rrggbb.
func IsValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

// DefaultCategories are created for every new user.
func DefaultCategories(userID uuid.UUID) []Category {
	seeds := []struct{ name, color, icon string }{
		{"Salary", "#34D399", "💼"},
		{"Food", "#F87171", "🍔"},
		{"Rent", "#60A5FA", "🏠"},
		{"Transport", "#FBBF24", "🚗"},
		{"Entertainment", "#A78BFA", "🎬"},
		{"Utilities", "#818CF8", "💡"},
		{"Shopping", "#F472B6", "🛍️"},
	}
	out := make([]Category, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, Category{UserID: userID, Name: s.name, Color: s.color, Icon: s.icon})
	}
	return out
}
