package dto

import (
	"time"

	"fintrack/internal/finance"
	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

// CreateBudgetRequest sets a monthly limit on a category. StartDate defaults
// to the first day of the current month.
type CreateBudgetRequest struct {
	Category  string          `json:"category" validate:"required,uuid"`
	Limit     decimal.Decimal `json:"limit" validate:"money"`
	StartDate string          `json:"startDate,omitempty"`
}

// UpdateBudgetRequest changes the limit only. A Category that differs from
// the stored one is rejected.
type UpdateBudgetRequest struct {
	Limit    decimal.Decimal `json:"limit" validate:"money"`
	Category string          `json:"category,omitempty" validate:"omitempty,uuid"`
}

// BudgetResponse is one budget with its derived spending for the current month.
type BudgetResponse struct {
	ID        string      `json:"id"`
	Category  CategoryRef `json:"category"`
	Limit     float64     `json:"limit"`
	Spent     float64     `json:"spent"`
	Remaining float64     `json:"remaining"`
	Progress  float64     `json:"progress"`
	Exceeded  bool        `json:"exceeded"`
	StartDate time.Time   `json:"startDate"`
}

// NewBudgetResponse combines a stored budget with its comparison.
func NewBudgetResponse(b *models.Budget, c finance.BudgetComparison) BudgetResponse {
	return BudgetResponse{
		ID:        b.ID.String(),
		Category:  CategoryRef{ID: b.Category.ID.String(), Name: b.Category.Name, Color: b.Category.Color},
		Limit:     Money(b.Limit),
		Spent:     Money(c.Actual),
		Remaining: Money(c.Remaining),
		Progress:  Percent(c.Progress),
		Exceeded:  c.Exceeded,
		StartDate: b.StartDate.UTC(),
	}
}

// BudgetSummaryResponse totals every budget of the user.
type BudgetSummaryResponse struct {
	TotalBudget float64 `json:"totalBudget"`
	Spent       float64 `json:"spent"`
	Remaining   float64 `json:"remaining"`
	Progress    float64 `json:"progress"`
}

func NewBudgetSummaryResponse(s finance.BudgetSummary) BudgetSummaryResponse {
	return BudgetSummaryResponse{
		TotalBudget: Money(s.TotalBudget),
		Spent:       Money(s.Spent),
		Remaining:   Money(s.Remaining),
		Progress:    Percent(s.Progress),
	}
}
