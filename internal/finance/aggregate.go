package finance

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPalette colors categories that carry no color of their own.
var DefaultPalette = []string{"#60A5FA", "#34D399", "#FBBF24", "#A78BFA", "#F87171", "#818CF8", "#F472B6"}

// UncategorizedName labels expenses without a category.
const UncategorizedName = "Uncategorized"

var hundred = decimal.NewFromInt(100)

// MonthlyPoint is one month of the income/expense series.
type MonthlyPoint struct {
	Year     int
	Month    time.Month
	Label    string
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Savings  decimal.Decimal
}

// MonthLabel formats a month the way the charts label it, e.g. "Jan 2024".
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month.String()[:3], year)
}

// MonthlySeries buckets dated transactions by calendar month (UTC), in
// chronological order. Months without data are omitted.
func MonthlySeries(txs []Transaction) []MonthlyPoint {
	type key struct {
		year  int
		month time.Month
	}
	buckets := make(map[key]*MonthlyPoint)
	keys := make([]key, 0)

	for _, tx := range txs {
		if !tx.HasDate {
			continue
		}
		d := tx.Date.UTC()
		k := key{d.Year(), d.Month()}
		p, ok := buckets[k]
		if !ok {
			p = &MonthlyPoint{Year: k.year, Month: k.month, Label: MonthLabel(k.year, k.month)}
			buckets[k] = p
			keys = append(keys, k)
		}
		if tx.Type == Income {
			p.Income = p.Income.Add(tx.Amount)
		} else {
			p.Expenses = p.Expenses.Add(tx.Amount)
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	series := make([]MonthlyPoint, 0, len(keys))
	for _, k := range keys {
		p := buckets[k]
		p.Savings = p.Income.Sub(p.Expenses)
		series = append(series, *p)
	}
	return series
}

// CategorySpend is the expense total of one category.
type CategorySpend struct {
	CategoryID string
	Name       string
	Color      string
	Total      decimal.Decimal
}

// SpendingByCategory totals expenses per category in first-seen order.
// A category's own color wins; otherwise the palette is cycled by position.
func SpendingByCategory(txs []Transaction, palette []string) []CategorySpend {
	if len(palette) == 0 {
		palette = DefaultPalette
	}

	index := make(map[string]int)
	out := make([]CategorySpend, 0)

	for _, tx := range txs {
		if tx.Type != Expense {
			continue
		}
		id := tx.Category.ID()
		i, ok := index[id]
		if !ok {
			i = len(out)
			index[id] = i
			entry := CategorySpend{
				CategoryID: id,
				Name:       tx.Category.Name(),
				Color:      tx.Category.Color(),
			}
			if entry.Name == "" {
				if id == "" {
					entry.Name = UncategorizedName
				} else {
					entry.Name = id
				}
			}
			if entry.Color == "" {
				entry.Color = palette[i%len(palette)]
			}
			out = append(out, entry)
		}
		out[i].Total = out[i].Total.Add(tx.Amount)
	}
	return out
}

// BudgetComparison is a budget set against what was actually spent in its window.
type BudgetComparison struct {
	BudgetID     string
	CategoryID   string
	CategoryName string
	Color        string
	Limit        decimal.Decimal
	Actual       decimal.Decimal
	Remaining    decimal.Decimal
	Progress     decimal.Decimal
	Exceeded     bool
}

// ActiveWindow returns the part of now's month during which b applies.
// It is empty when the budget starts after the month ends.
func (b Budget) ActiveWindow(now time.Time) DateRange {
	monthStart := StartOfMonth(now)
	monthEnd := monthStart.AddDate(0, 1, 0)
	start := monthStart
	if b.StartDate.After(start) {
		start = b.StartDate.UTC()
	}
	if start.After(monthEnd) {
		start = monthEnd
	}
	return DateRange{Name: "budget", Start: start, End: monthEnd}
}

// SpentInWindow sums the expenses of b's category inside its active window.
func SpentInWindow(txs []Transaction, b Budget, now time.Time) decimal.Decimal {
	window := b.ActiveWindow(now)
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type != Expense || !tx.HasDate || tx.Category.ID() != b.Category.ID {
			continue
		}
		if window.Contains(tx.Date) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// Compare builds the comparison of a budget with a known actual spend.
func Compare(b Budget, actual decimal.Decimal) BudgetComparison {
	remaining := b.Limit.Sub(actual)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	progress := decimal.Zero
	if b.Limit.IsPositive() {
		progress = actual.Mul(hundred).Div(b.Limit)
	}
	return BudgetComparison{
		BudgetID:     b.ID,
		CategoryID:   b.Category.ID,
		CategoryName: b.Category.Name,
		Color:        b.Category.Color,
		Limit:        b.Limit,
		Actual:       actual,
		Remaining:    remaining,
		Progress:     progress,
		Exceeded:     actual.GreaterThan(b.Limit),
	}
}

// BudgetVsActual compares every budget with the expenses in its active window.
func BudgetVsActual(txs []Transaction, budgets []Budget, now time.Time) []BudgetComparison {
	out := make([]BudgetComparison, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, Compare(b, SpentInWindow(txs, b, now)))
	}
	return out
}

// TopCategory is a category spend with its share of all expenses.
type TopCategory struct {
	CategorySpend
	Percentage decimal.Decimal
}

// DefaultTopN is the number of categories TopSpending keeps by default.
const DefaultTopN = 3

// TopSpending ranks categories by total, descending, keeping the first n.
// n <= 0 keeps every category.
func TopSpending(spend []CategorySpend, totalExpenses decimal.Decimal, n int) []TopCategory {
	ranked := make([]CategorySpend, len(spend))
	copy(ranked, spend)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total.GreaterThan(ranked[j].Total)
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}

	out := make([]TopCategory, 0, len(ranked))
	for _, s := range ranked {
		pct := decimal.Zero
		if totalExpenses.IsPositive() {
			pct = s.Total.Mul(hundred).Div(totalExpenses)
		}
		out = append(out, TopCategory{CategorySpend: s, Percentage: pct})
	}
	return out
}

// RecentTransactions returns the n newest dated transactions, newest first.
func RecentTransactions(txs []Transaction, n int) []Transaction {
	sorted := FilterSort(txs, Query{Sort: SortDateNewest})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
