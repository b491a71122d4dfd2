package dto

import (
	"time"

	"fintrack/internal/finance"
	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

// TransactionListQuery contains the filter and sort options of GET /transactions.
// Range names a preset window and is ignored when StartDate or EndDate is set.
type TransactionListQuery struct {
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	Category  string `query:"category"`
	Type      string `query:"type"`
	Sort      string `query:"sort"`
	Range     string `query:"range"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=1000"`
}

// TransactionRequest creates or fully replaces a transaction. Category is a
// category id; empty means uncategorized. Amount accepts a JSON number or a
// numeric string.
type TransactionRequest struct {
	Date        string          `json:"date" validate:"required"`
	Description string          `json:"description" validate:"required,min=1,max=255"`
	Category    string          `json:"category,omitempty" validate:"omitempty,uuid"`
	Type        string          `json:"type" validate:"required,txtype"`
	Amount      decimal.Decimal `json:"amount" validate:"money"`
	ExternalID  string          `json:"externalId,omitempty" validate:"omitempty,max=100"`
}

// CategoryRef is the embedded category of a transaction or budget.
type CategoryRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TransactionResponse is one transaction in the bare-array list and the
// single-resource responses.
type TransactionResponse struct {
	ID          string       `json:"id"`
	Date        time.Time    `json:"date"`
	Description string       `json:"description"`
	Category    *CategoryRef `json:"category"`
	Type        string       `json:"type"`
	Amount      float64      `json:"amount"`
	CreatedAt   *time.Time   `json:"createdAt,omitempty"`
}

// NewTransactionResponse maps a stored transaction. Category is null when
// the transaction has none.
func NewTransactionResponse(t *models.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          t.ID.String(),
		Date:        t.Date.UTC(),
		Description: t.Description,
		Type:        t.Type,
		Amount:      Money(t.Amount),
	}
	if !t.CreatedAt.IsZero() {
		created := t.CreatedAt
		resp.CreatedAt = &created
	}
	if t.Category != nil {
		resp.Category = &CategoryRef{ID: t.Category.ID.String(), Name: t.Category.Name, Color: t.Category.Color}
	}
	return resp
}

// NewTransactionList maps a list, always returning a non-nil slice.
func NewTransactionList(txs []models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, NewTransactionResponse(&txs[i]))
	}
	return out
}

// NewTransactionFromFinance maps a normalized transaction, used for the
// recent list of the overview.
func NewTransactionFromFinance(t finance.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          t.ID,
		Date:        t.Date,
		Description: t.Description,
		Type:        string(t.Type),
		Amount:      Money(t.Amount),
	}
	if !t.Category.IsZero() {
		resp.Category = &CategoryRef{ID: t.Category.ID(), Name: t.Category.Name(), Color: t.Category.Color()}
	}
	return resp
}

// SeedRequest asks for demo data covering the trailing Months months.
type SeedRequest struct {
	Months int `json:"months" validate:"omitempty,min=1,max=24"`
}

// SeedResult counts what a demo-data run wrote.
type SeedResult struct {
	Transactions int `json:"transactionsCreated"`
	Budgets      int `json:"budgetsCreated"`
	Months       int `json:"months"`
}
