package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidBudgetLimit  = errors.New("budget limit must be positive")
	ErrBudgetCategoryEmpty = errors.New("budget category is required")
)

// Budget is a monthly spending limit on one category. Spent is never stored;
// it is derived from the category's expenses when the budget is read.
type Budget struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_category,priority:1" json:"userId"`
	CategoryID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_category,priority:2" json:"categoryId"`
	Limit      decimal.Decimal `gorm:"column:limit_amount;type:decimal(15,2);not null" json:"limit"`
	StartDate  time.Time       `gorm:"not null" json:"startDate"`
	CreatedAt  time.Time       `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updatedAt"`

	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category"`
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}
	if b.StartDate.IsZero() {
		b.StartDate = now.UTC().Truncate(24 * time.Hour)
	}

	return b.Validate()
}

func (b *Budget) Validate() error {
	if b.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}
	if b.CategoryID == uuid.Nil {
		return ErrBudgetCategoryEmpty
	}
	if !b.Limit.IsPositive() {
		return ErrInvalidBudgetLimit
	}
	return nil
}

func (b *Budget) TableName() string {
	return "budgets"
}
