package finance

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tx(id string, date time.Time, typ TxType, amount string, category CategoryRef) Transaction {
	return Transaction{
		ID:          id,
		Date:        date,
		HasDate:     !date.IsZero(),
		Description: id,
		Category:    category,
		Type:        typ,
		Amount:      decimal.RequireFromString(amount),
	}
}

// fakeTransactions builds a deterministic list spread over 2023-2024 with
// amounts at cent precision.
func fakeTransactions(seed uint64, n int) []Transaction {
	f := gofakeit.New(seed)
	categories := []Category{
		{ID: "food", Name: "Food"},
		{ID: "rent", Name: "Rent", Color: "#123456"},
		{ID: "fun", Name: "Fun"},
		{ID: "travel", Name: "Travel"},
	}

	out := make([]Transaction, 0, n)
	for i := 0; i < n; i++ {
		typ := Expense
		if f.Bool() {
			typ = Income
		}
		cents := int64(f.IntRange(1, 500000))
		out = append(out, Transaction{
			ID:          fmt.Sprintf("tx-%d", i),
			Date:        f.DateRange(day(2023, 1, 1), day(2024, 12, 31)).UTC(),
			HasDate:     true,
			Description: f.Sentence(3),
			Category:    Resolved(categories[f.IntRange(0, len(categories)-1)]),
			Type:        typ,
			Amount:      decimal.New(cents, -2),
		})
	}
	return out
}
