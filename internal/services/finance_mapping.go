package services

import (
	"fintrack/internal/finance"
	"fintrack/internal/models"
)

func toFinanceCategory(c models.Category) finance.Category {
	return finance.Category{ID: c.ID.String(), Name: c.Name, Color: c.Color}
}

// toFinanceTransaction maps a stored row. A preloaded category is resolved;
// a bare category id stays unresolved.
func toFinanceTransaction(t models.Transaction) finance.Transaction {
	out := finance.Transaction{
		ID:          t.ID.String(),
		Date:        t.Date.UTC(),
		HasDate:     !t.Date.IsZero(),
		Description: t.Description,
		Type:        finance.TxType(t.Type),
		Amount:      t.Amount.Abs(),
	}
	switch {
	case t.Category != nil:
		out.Category = finance.Resolved(toFinanceCategory(*t.Category))
	case t.CategoryID != nil:
		out.Category = finance.Unresolved(t.CategoryID.String())
	}
	return out
}

func toFinanceTransactions(txs []models.Transaction) []finance.Transaction {
	out := make([]finance.Transaction, 0, len(txs))
	for _, t := range txs {
		out = append(out, toFinanceTransaction(t))
	}
	return out
}

func toFinanceBudget(b models.Budget) finance.Budget {
	category := toFinanceCategory(b.Category)
	category.ID = b.CategoryID.String()
	return finance.Budget{
		ID:        b.ID.String(),
		Category:  category,
		Limit:     b.Limit,
		StartDate: b.StartDate.UTC(),
	}
}

func toFinanceBudgets(budgets []models.Budget) []finance.Budget {
	out := make([]finance.Budget, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toFinanceBudget(b))
	}
	return out
}
