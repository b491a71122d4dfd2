package importer

import (
	"testing"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizer_Categorize(t *testing.T) {
	c := NewCategorizer()

	tests := []struct {
		name     string
		merchant string
		txType   string
		want     string
	}{
		{"merchant pattern", "UBER *TRIP HELP.UBER.COM", models.TransactionTypeExpense, "Transport"},
		{"merchant with punctuation", "Trader Joe's #552", models.TransactionTypeExpense, "Food"},
		{"keyword", "City Water Department", models.TransactionTypeExpense, "Utilities"},
		{"rent keyword", "Monthly Rent - Oak Apartments", models.TransactionTypeExpense, "Rent"},
		{"fuzzy", "Spotfy", models.TransactionTypeExpense, "Entertainment"},
		{"payroll income", "ACME DIRECT DEPOSIT", models.TransactionTypeIncome, "Salary"},
		{"income never maps to expense categories", "Amazon refund", models.TransactionTypeIncome, ""},
		{"unknown", "Zzyzx Holdings", models.TransactionTypeExpense, ""},
		{"empty", "", models.TransactionTypeExpense, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, confidence := c.Categorize(tt.merchant, tt.txType)
			assert.Equal(t, tt.want, got)
			if tt.want == "" {
				assert.Zero(t, confidence)
			} else {
				assert.Greater(t, confidence, 0.0)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	userID := uuid.New()
	categories := models.DefaultCategories(userID)
	for i := range categories {
		categories[i].ID = uuid.New()
	}

	id := Resolve("food", categories)
	require.NotNil(t, id)
	assert.Equal(t, categories[1].ID, *id)

	assert.Nil(t, Resolve("Pets", categories))
	assert.Nil(t, Resolve("", categories))
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("abc", "abc"))
	assert.Equal(t, 3, levenshteinDistance("", "abc"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
	assert.InDelta(t, 0.857, calculateSimilarity("spotfy", "spotify"), 0.001)
}
