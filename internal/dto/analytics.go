package dto

import (
	"time"

	"fintrack/internal/finance"
)

// AnalyticsQuery selects the window and the top-N size of the analytics endpoints.
type AnalyticsQuery struct {
	Range string `query:"range"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=50"`
}

type RangeResponse struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type KPIResponse struct {
	TotalIncome      float64 `json:"totalIncome"`
	TotalExpenses    float64 `json:"totalExpenses"`
	NetBalance       float64 `json:"netBalance"`
	SavingsRate      float64 `json:"savingsRate"`
	BudgetAdherence  float64 `json:"budgetAdherence"`
	TransactionCount int     `json:"transactionCount"`
}

// KPIChangeResponse holds percent changes for income and expenses and
// percentage-point changes for the rates.
type KPIChangeResponse struct {
	TotalIncome     float64 `json:"totalIncome"`
	TotalExpenses   float64 `json:"totalExpenses"`
	SavingsRate     float64 `json:"savingsRate"`
	BudgetAdherence float64 `json:"budgetAdherence"`
}

type MonthlyPointResponse struct {
	Month    string  `json:"month"`
	Year     int     `json:"year"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Savings  float64 `json:"savings"`
}

// CategorySpendResponse is one pie slice.
type CategorySpendResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Value float64 `json:"value"`
}

type TopCategoryResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type BudgetComparisonResponse struct {
	BudgetID   string  `json:"budgetId"`
	CategoryID string  `json:"categoryId"`
	Category   string  `json:"category"`
	Color      string  `json:"color"`
	Limit      float64 `json:"limit"`
	Actual     float64 `json:"actual"`
	Remaining  float64 `json:"remaining"`
	Progress   float64 `json:"progress"`
	Exceeded   bool    `json:"exceeded"`
}

// AnalyticsSummary is the KPI block with its change against the previous period.
type AnalyticsSummary struct {
	Range  *RangeResponse    `json:"range,omitempty"`
	KPIs   KPIResponse       `json:"kpis"`
	Change KPIChangeResponse `json:"change"`
}

// AnalyticsOverview is every dashboard aggregate in one payload.
type AnalyticsOverview struct {
	AnalyticsSummary
	Monthly       []MonthlyPointResponse     `json:"monthly"`
	Categories    []CategorySpendResponse    `json:"categories"`
	Top           []TopCategoryResponse      `json:"top"`
	Budgets       []BudgetComparisonResponse `json:"budgets"`
	BudgetSummary BudgetSummaryResponse      `json:"budgetSummary"`
	Recent        []TransactionResponse      `json:"recent"`
}

func NewRangeResponse(r *finance.DateRange) *RangeResponse {
	if r == nil {
		return nil
	}
	return &RangeResponse{Name: r.Name, Start: r.Start, End: r.End}
}

func NewKPIResponse(k finance.KPIs) KPIResponse {
	return KPIResponse{
		TotalIncome:      Money(k.TotalIncome),
		TotalExpenses:    Money(k.TotalExpenses),
		NetBalance:       Money(k.NetBalance),
		SavingsRate:      Percent(k.SavingsRate),
		BudgetAdherence:  Percent(k.BudgetAdherence),
		TransactionCount: k.TransactionCount,
	}
}

func NewKPIChangeResponse(c finance.KPIChange) KPIChangeResponse {
	return KPIChangeResponse{
		TotalIncome:     Percent(c.TotalIncome),
		TotalExpenses:   Percent(c.TotalExpenses),
		SavingsRate:     Percent(c.SavingsRate),
		BudgetAdherence: Percent(c.BudgetAdherence),
	}
}

func NewMonthlySeries(points []finance.MonthlyPoint) []MonthlyPointResponse {
	out := make([]MonthlyPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, MonthlyPointResponse{
			Month:    p.Label,
			Year:     p.Year,
			Income:   Money(p.Income),
			Expenses: Money(p.Expenses),
			Savings:  Money(p.Savings),
		})
	}
	return out
}

func NewCategorySpendList(spend []finance.CategorySpend) []CategorySpendResponse {
	out := make([]CategorySpendResponse, 0, len(spend))
	for _, c := range spend {
		out = append(out, CategorySpendResponse{ID: c.CategoryID, Name: c.Name, Color: c.Color, Value: Money(c.Total)})
	}
	return out
}

func NewTopCategoryList(top []finance.TopCategory) []TopCategoryResponse {
	out := make([]TopCategoryResponse, 0, len(top))
	for _, t := range top {
		out = append(out, TopCategoryResponse{
			ID:         t.CategoryID,
			Name:       t.Name,
			Color:      t.Color,
			Amount:     Money(t.Total),
			Percentage: Percent(t.Percentage),
		})
	}
	return out
}

func NewBudgetComparisonList(comparisons []finance.BudgetComparison) []BudgetComparisonResponse {
	out := make([]BudgetComparisonResponse, 0, len(comparisons))
	for _, c := range comparisons {
		out = append(out, BudgetComparisonResponse{
			BudgetID:   c.BudgetID,
			CategoryID: c.CategoryID,
			Category:   c.CategoryName,
			Color:      c.Color,
			Limit:      Money(c.Limit),
			Actual:     Money(c.Actual),
			Remaining:  Money(c.Remaining),
			Progress:   Percent(c.Progress),
			Exceeded:   c.Exceeded,
		})
	}
	return out
}

func NewAnalyticsSummary(s *finance.Summary) AnalyticsSummary {
	return AnalyticsSummary{
		Range:  NewRangeResponse(s.Range),
		KPIs:   NewKPIResponse(s.KPIs),
		Change: NewKPIChangeResponse(s.Change),
	}
}

// NewAnalyticsOverview maps a full summary.
func NewAnalyticsOverview(s *finance.Summary) AnalyticsOverview {
	recent := make([]TransactionResponse, 0, len(s.Recent))
	for _, t := range s.Recent {
		recent = append(recent, NewTransactionFromFinance(t))
	}
	return AnalyticsOverview{
		AnalyticsSummary: NewAnalyticsSummary(s),
		Monthly:          NewMonthlySeries(s.Monthly),
		Categories:       NewCategorySpendList(s.Categories),
		Top:              NewTopCategoryList(s.Top),
		Budgets:          NewBudgetComparisonList(s.Budgets),
		BudgetSummary:    NewBudgetSummaryResponse(s.BudgetSummary),
		Recent:           recent,
	}
}
