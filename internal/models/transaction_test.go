package models

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransaction() Transaction {
	return Transaction{
		UserID:      uuid.New(),
		Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Description: gofakeit.Sentence(4),
		Type:        TransactionTypeExpense,
		Amount:      decimal.NewFromFloat(42.5),
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(tx *Transaction)
		wantErr error
	}{
		{"valid expense", func(tx *Transaction) {}, nil},
		{"mixed case type is canonicalized", func(tx *Transaction) { tx.Type = " Income " }, nil},
		{"unknown type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidTransactionType},
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-5) }, ErrInvalidAmount},
		{"blank description", func(tx *Transaction) { tx.Description = "   " }, ErrDescriptionRequired},
		{"missing date", func(tx *Transaction) { tx.Date = time.Time{} }, ErrDateRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransaction_ValidateLowercasesType(t *testing.T) {
	tx := validTransaction()
	tx.Type = "EXPENSE"
	require.NoError(t, tx.Validate())
	assert.Equal(t, TransactionTypeExpense, tx.Type)
}

func TestTransaction_SignedAmount(t *testing.T) {
	tx := validTransaction()
	assert.True(t, tx.SignedAmount().Equal(decimal.NewFromFloat(-42.5)))

	tx.Type = TransactionTypeIncome
	assert.True(t, tx.SignedAmount().Equal(decimal.NewFromFloat(42.5)))
	assert.True(t, tx.IsIncome())
}

func TestTransaction_BeforeCreate(t *testing.T) {
	tx := validTransaction()
	require.NoError(t, tx.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.NotZero(t, tx.CreatedAt)
}
