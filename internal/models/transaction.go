package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

var (
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidAmount          = errors.New("transaction amount must be positive")
	ErrDescriptionRequired    = errors.New("transaction description is required")
	ErrDateRequired           = errors.New("transaction date is required")
)

// Transaction is one income or expense entry in a user's ledger. Amount is
// stored as a positive magnitude; Type carries the direction.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_user_date,priority:1;index:idx_transactions_user_category,priority:1" json:"userId"`
	Date        time.Time       `gorm:"not null;index:idx_transactions_user_date,priority:2" json:"date"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index:idx_transactions_user_category,priority:2" json:"categoryId,omitempty"`
	Type        string          `gorm:"type:varchar(10);not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	ExternalID  string          `gorm:"type:varchar(100)" json:"externalId,omitempty"`
	CreatedAt   time.Time       `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updatedAt"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return t.Validate()
}

// Validate canonicalizes Type and checks the invariants of a stored transaction.
func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	t.Type = strings.ToLower(strings.TrimSpace(t.Type))
	if !IsValidTransactionType(t.Type) {
		return ErrInvalidTransactionType
	}

	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	if strings.TrimSpace(t.Description) == "" {
		return ErrDescriptionRequired
	}

	if t.Date.IsZero() {
		return ErrDateRequired
	}

	return nil
}

func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// SignedAmount returns the amount with expenses negated.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.IsExpense() {
		return t.Amount.Neg()
	}
	return t.Amount
}

func (t *Transaction) TableName() string {
	return "transactions"
}

// IsValidTransactionType checks if the transaction type is valid
func IsValidTransactionType(transactionType string) bool {
	switch strings.ToLower(transactionType) {
	case TransactionTypeIncome, TransactionTypeExpense:
		return true
	default:
		return false
	}
}
