package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// KPIs are the headline figures of a set of transactions.
type KPIs struct {
	TotalIncome      decimal.Decimal
	TotalExpenses    decimal.Decimal
	NetBalance       decimal.Decimal
	SavingsRate      decimal.Decimal
	BudgetAdherence  decimal.Decimal
	TransactionCount int
}

// ComputeKPIs derives the headline figures. NetBalance is summed from signed
// amounts independently of the income and expense totals. Rates are
// percentages and are zero when their denominator is zero.
func ComputeKPIs(txs []Transaction, comparisons []BudgetComparison) KPIs {
	k := KPIs{TransactionCount: len(txs)}
	for _, tx := range txs {
		if tx.Type == Income {
			k.TotalIncome = k.TotalIncome.Add(tx.Amount)
		} else {
			k.TotalExpenses = k.TotalExpenses.Add(tx.Amount)
		}
		k.NetBalance = k.NetBalance.Add(tx.Signed())
	}

	if k.TotalIncome.IsPositive() {
		k.SavingsRate = k.TotalIncome.Sub(k.TotalExpenses).Mul(hundred).Div(k.TotalIncome)
	}

	if len(comparisons) > 0 {
		within := 0
		for _, c := range comparisons {
			if c.Actual.LessThanOrEqual(c.Limit) {
				within++
			}
		}
		k.BudgetAdherence = decimal.NewFromInt(int64(within)).Mul(hundred).Div(decimal.NewFromInt(int64(len(comparisons))))
	}
	return k
}

// KPIChange compares two periods. Income and expense changes are percent
// changes; savings rate and adherence changes are percentage points.
type KPIChange struct {
	TotalIncome     decimal.Decimal
	TotalExpenses   decimal.Decimal
	SavingsRate     decimal.Decimal
	BudgetAdherence decimal.Decimal
}

func percentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Mul(hundred).Div(previous.Abs())
}

// CompareKPIs computes the change from previous to current.
func CompareKPIs(current, previous KPIs) KPIChange {
	return KPIChange{
		TotalIncome:     percentChange(current.TotalIncome, previous.TotalIncome),
		TotalExpenses:   percentChange(current.TotalExpenses, previous.TotalExpenses),
		SavingsRate:     current.SavingsRate.Sub(previous.SavingsRate),
		BudgetAdherence: current.BudgetAdherence.Sub(previous.BudgetAdherence),
	}
}

// BudgetSummary totals every budget comparison.
type BudgetSummary struct {
	TotalBudget decimal.Decimal
	Spent       decimal.Decimal
	Remaining   decimal.Decimal
	Progress    decimal.Decimal
}

// SummarizeBudgets adds up limits and actuals. Remaining never goes below zero.
func SummarizeBudgets(comparisons []BudgetComparison) BudgetSummary {
	var s BudgetSummary
	for _, c := range comparisons {
		s.TotalBudget = s.TotalBudget.Add(c.Limit)
		s.Spent = s.Spent.Add(c.Actual)
	}
	s.Remaining = s.TotalBudget.Sub(s.Spent)
	if s.Remaining.IsNegative() {
		s.Remaining = decimal.Zero
	}
	if s.TotalBudget.IsPositive() {
		s.Progress = s.Spent.Mul(hundred).Div(s.TotalBudget)
	}
	return s
}

// InRange keeps the dated transactions inside r, preserving order.
func InRange(txs []Transaction, r DateRange) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.HasDate && r.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}

// DefaultRecentN is how many transactions the overview lists.
const DefaultRecentN = 5

// SummaryOptions tunes Summarize. A nil Range summarizes every transaction
// and leaves Change at zero.
type SummaryOptions struct {
	Range   *DateRange
	Palette []string
	TopN    int
	RecentN int
}

// Summary bundles every aggregate the dashboard shows.
type Summary struct {
	Range         *DateRange
	KPIs          KPIs
	Change        KPIChange
	Monthly       []MonthlyPoint
	Categories    []CategorySpend
	Top           []TopCategory
	Budgets       []BudgetComparison
	BudgetSummary BudgetSummary
	Recent        []Transaction
}

// Summarize runs every aggregate over txs and budgets. Budget comparisons
// always use the budgets' own windows relative to now; the adherence change
// compares against the month before now's month.
func Summarize(txs []Transaction, budgets []Budget, now time.Time, opts SummaryOptions) Summary {
	topN := opts.TopN
	if topN == 0 {
		topN = DefaultTopN
	}
	recentN := opts.RecentN
	if recentN == 0 {
		recentN = DefaultRecentN
	}

	current := txs
	if opts.Range != nil {
		current = InRange(txs, *opts.Range)
	}

	comparisons := BudgetVsActual(txs, budgets, now)
	kpis := ComputeKPIs(current, comparisons)
	categories := SpendingByCategory(current, opts.Palette)

	s := Summary{
		Range:         opts.Range,
		KPIs:          kpis,
		Monthly:       MonthlySeries(current),
		Categories:    categories,
		Top:           TopSpending(categories, kpis.TotalExpenses, topN),
		Budgets:       comparisons,
		BudgetSummary: SummarizeBudgets(comparisons),
		Recent:        RecentTransactions(current, recentN),
	}

	if opts.Range != nil {
		previousBudgets := PreviousBudgetComparisons(txs, budgets, now)
		previous := ComputeKPIs(InRange(txs, opts.Range.Previous()), previousBudgets)
		s.Change = CompareKPIs(kpis, previous)
		if len(previousBudgets) == 0 {
			s.Change.BudgetAdherence = decimal.Zero
		}
	}
	return s
}

// PreviousBudgetComparisons compares the budgets that already applied before
// now's month with the expenses of the month before it.
func PreviousBudgetComparisons(txs []Transaction, budgets []Budget, now time.Time) []BudgetComparison {
	monthStart := StartOfMonth(now)
	started := make([]Budget, 0, len(budgets))
	for _, b := range budgets {
		if b.StartDate.Before(monthStart) {
			started = append(started, b)
		}
	}
	return BudgetVsActual(txs, started, monthStart.AddDate(0, -1, 0))
}
