package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AggregateTestSuite struct {
	suite.Suite
	food Category
	rent Category
}

func TestAggregateTestSuite(t *testing.T) {
	suite.Run(t, new(AggregateTestSuite))
}

func (s *AggregateTestSuite) SetupTest() {
	s.food = Category{ID: "food", Name: "Food"}
	s.rent = Category{ID: "rent", Name: "Rent", Color: "#111111"}
}

func (s *AggregateTestSuite) dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (s *AggregateTestSuite) equalDec(expected string, actual decimal.Decimal) {
	s.True(s.dec(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func (s *AggregateTestSuite) TestTwoMonthScenario() {
	txs := []Transaction{
		tx("1", day(2024, 1, 5), Income, "1000", CategoryRef{}),
		tx("2", day(2024, 1, 10), Expense, "200", Resolved(s.food)),
		tx("3", day(2024, 2, 3), Expense, "150", Resolved(s.food)),
	}

	series := MonthlySeries(txs)
	s.Require().Len(series, 2)
	s.Equal("Jan 2024", series[0].Label)
	s.equalDec("1000", series[0].Income)
	s.equalDec("200", series[0].Expenses)
	s.equalDec("800", series[0].Savings)
	s.Equal("Feb 2024", series[1].Label)
	s.equalDec("0", series[1].Income)
	s.equalDec("150", series[1].Expenses)
	s.equalDec("-150", series[1].Savings)

	k := ComputeKPIs(txs, nil)
	s.equalDec("1000", k.TotalIncome)
	s.equalDec("350", k.TotalExpenses)
	s.equalDec("650", k.NetBalance)
	s.equalDec("65", k.SavingsRate)
	s.equalDec("0", k.BudgetAdherence)
	s.Equal(3, k.TransactionCount)
}

func (s *AggregateTestSuite) TestMonthlySeriesSkipsUndatedAndGaps() {
	txs := []Transaction{
		tx("1", day(2024, 4, 1), Expense, "10", CategoryRef{}),
		tx("2", time.Time{}, Expense, "99", CategoryRef{}),
		tx("3", day(2023, 12, 31), Income, "5", CategoryRef{}),
	}

	series := MonthlySeries(txs)
	s.Require().Len(series, 2)
	s.Equal("Dec 2023", series[0].Label)
	s.Equal("Apr 2024", series[1].Label)
}

func (s *AggregateTestSuite) TestEmptyInput() {
	series := MonthlySeries(nil)
	s.NotNil(series)
	s.Empty(series)

	k := ComputeKPIs(nil, nil)
	s.True(k.TotalIncome.IsZero())
	s.True(k.TotalExpenses.IsZero())
	s.True(k.NetBalance.IsZero())
	s.True(k.SavingsRate.IsZero())
	s.True(k.BudgetAdherence.IsZero())
	s.Zero(k.TransactionCount)

	s.Empty(SpendingByCategory(nil, nil))
	s.Empty(TopSpending(nil, decimal.Zero, 3))
}

func (s *AggregateTestSuite) TestBudgetAdherenceScenario() {
	now := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	budgets := []Budget{
		{ID: "b1", Category: s.food, Limit: s.dec("300"), StartDate: day(2024, 1, 1)},
		{ID: "b2", Category: s.rent, Limit: s.dec("1000"), StartDate: day(2024, 1, 1)},
	}
	txs := []Transaction{
		tx("1", day(2024, 5, 2), Expense, "200", Resolved(s.food)),
		tx("2", day(2024, 5, 18), Expense, "150", Resolved(s.food)),
		tx("3", day(2024, 5, 1), Expense, "900", Resolved(s.rent)),
		tx("4", day(2024, 4, 30), Expense, "5000", Resolved(s.rent)),
		tx("5", day(2024, 5, 3), Income, "5000", Resolved(s.rent)),
	}

	comparisons := BudgetVsActual(txs, budgets, now)
	s.Require().Len(comparisons, 2)
	s.equalDec("350", comparisons[0].Actual)
	s.True(comparisons[0].Exceeded)
	s.equalDec("0", comparisons[0].Remaining)
	s.equalDec("900", comparisons[1].Actual)
	s.equalDec("100", comparisons[1].Remaining)
	s.equalDec("90", comparisons[1].Progress)
	s.False(comparisons[1].Exceeded)

	k := ComputeKPIs(txs, comparisons)
	s.equalDec("50", k.BudgetAdherence)

	summary := SummarizeBudgets(comparisons)
	s.equalDec("1300", summary.TotalBudget)
	s.equalDec("1250", summary.Spent)
	s.equalDec("50", summary.Remaining)
}

func (s *AggregateTestSuite) TestBudgetWindowStartsAtStartDate() {
	now := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	b := Budget{ID: "b", Category: s.food, Limit: s.dec("100"), StartDate: day(2024, 5, 10)}
	txs := []Transaction{
		tx("1", day(2024, 5, 9), Expense, "40", Resolved(s.food)),
		tx("2", day(2024, 5, 10), Expense, "30", Resolved(s.food)),
		tx("3", day(2024, 6, 1), Expense, "70", Resolved(s.food)),
	}
	s.equalDec("30", SpentInWindow(txs, b, now))

	future := Budget{ID: "f", Category: s.food, Limit: s.dec("100"), StartDate: day(2024, 7, 1)}
	s.equalDec("0", SpentInWindow(txs, future, now))

	zero := Compare(Budget{Limit: decimal.Zero}, s.dec("10"))
	s.True(zero.Progress.IsZero())
}

func (s *AggregateTestSuite) TestSpendingByCategoryColorsAndOrder() {
	fun := Category{ID: "fun", Name: "Fun"}
	txs := []Transaction{
		tx("1", day(2024, 1, 1), Expense, "10", Resolved(fun)),
		tx("2", day(2024, 1, 2), Expense, "20", Resolved(s.rent)),
		tx("3", day(2024, 1, 3), Income, "500", Resolved(s.food)),
		tx("4", day(2024, 1, 4), Expense, "5", CategoryRef{}),
		tx("5", day(2024, 1, 5), Expense, "7", Resolved(fun)),
	}

	spend := SpendingByCategory(txs, nil)
	s.Require().Len(spend, 3)

	s.Equal("fun", spend[0].CategoryID)
	s.Equal(DefaultPalette[0], spend[0].Color)
	s.equalDec("17", spend[0].Total)

	s.Equal("rent", spend[1].CategoryID)
	s.Equal("#111111", spend[1].Color)

	s.Equal("", spend[2].CategoryID)
	s.Equal(UncategorizedName, spend[2].Name)
	s.Equal(DefaultPalette[2], spend[2].Color)
}

func (s *AggregateTestSuite) TestPaletteCycles() {
	txs := make([]Transaction, 0)
	for i := 0; i < len(DefaultPalette)+2; i++ {
		c := Category{ID: string(rune('a' + i)), Name: string(rune('A' + i))}
		txs = append(txs, tx(c.ID, day(2024, 1, 1), Expense, "1", Resolved(c)))
	}
	spend := SpendingByCategory(txs, nil)
	s.Equal(DefaultPalette[0], spend[len(DefaultPalette)].Color)
	s.Equal(DefaultPalette[1], spend[len(DefaultPalette)+1].Color)
}

func (s *AggregateTestSuite) TestTopSpending() {
	spend := []CategorySpend{
		{CategoryID: "a", Total: s.dec("10")},
		{CategoryID: "b", Total: s.dec("60")},
		{CategoryID: "c", Total: s.dec("30")},
		{CategoryID: "d", Total: s.dec("30")},
	}

	top := TopSpending(spend, s.dec("130"), 3)
	s.Require().Len(top, 3)
	s.Equal("b", top[0].CategoryID)
	s.Equal("c", top[1].CategoryID)
	s.Equal("d", top[2].CategoryID)
	s.Equal("a", spend[0].CategoryID)

	zero := TopSpending(spend, decimal.Zero, 0)
	s.Len(zero, 4)
	for _, t := range zero {
		s.True(t.Percentage.IsZero())
	}
}

func (s *AggregateTestSuite) TestTopSpendingPercentagesSumTo100() {
	for seed := uint64(1); seed <= 20; seed++ {
		txs := fakeTransactions(seed, 150)
		spend := SpendingByCategory(txs, nil)
		k := ComputeKPIs(txs, nil)
		if k.TotalExpenses.IsZero() {
			continue
		}

		sum := decimal.Zero
		for _, t := range TopSpending(spend, k.TotalExpenses, len(spend)) {
			sum = sum.Add(t.Percentage)
		}
		diff := sum.Sub(decimal.NewFromInt(100)).Abs()
		s.True(diff.LessThan(s.dec("0.0001")), "seed %d: sum %s", seed, sum)
	}
}

func (s *AggregateTestSuite) TestNetBalanceMatchesTotals() {
	for seed := uint64(1); seed <= 20; seed++ {
		txs := fakeTransactions(seed, 120)
		k := ComputeKPIs(txs, nil)
		s.True(k.TotalIncome.Sub(k.TotalExpenses).Equal(k.NetBalance), "seed %d", seed)
	}
}

func (s *AggregateTestSuite) TestDeterministic() {
	txs := fakeTransactions(3, 100)
	now := day(2024, 6, 15)
	r := ResolveRange("This year", now)
	a := Summarize(txs, nil, now, SummaryOptions{Range: &r})
	b := Summarize(txs, nil, now, SummaryOptions{Range: &r})
	s.Equal(a, b)
}

func (s *AggregateTestSuite) TestSummarizeChangeAgainstPreviousPeriod() {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	r := ResolveRange("Last 30 days", now)
	txs := []Transaction{
		tx("prev-in", day(2024, 2, 20), Income, "1000", CategoryRef{}),
		tx("prev-out", day(2024, 2, 21), Expense, "500", Resolved(s.food)),
		tx("cur-in", day(2024, 3, 20), Income, "1500", CategoryRef{}),
		tx("cur-out", day(2024, 3, 21), Expense, "250", Resolved(s.food)),
	}

	sum := Summarize(txs, nil, now, SummaryOptions{Range: &r})
	s.equalDec("1500", sum.KPIs.TotalIncome)
	s.equalDec("50", sum.Change.TotalIncome)
	s.equalDec("-50", sum.Change.TotalExpenses)
	s.Require().Len(sum.Recent, 2)
	s.Equal("cur-out", sum.Recent[0].ID)
	s.Require().Len(sum.Top, 1)
	s.equalDec("100", sum.Top[0].Percentage)

	all := Summarize(txs, nil, now, SummaryOptions{})
	s.equalDec("2500", all.KPIs.TotalIncome)
	s.True(all.Change.TotalIncome.IsZero())
}

func (s *AggregateTestSuite) TestSummarizeAdherenceChange() {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	r := ResolveRange("Last 30 days", now)
	txs := []Transaction{
		tx("feb", day(2024, 2, 10), Expense, "500", Resolved(s.food)),
		tx("mar", day(2024, 3, 10), Expense, "50", Resolved(s.food)),
	}
	budgets := []Budget{{ID: "b1", Category: s.food, Limit: s.dec("100"), StartDate: day(2024, 1, 1)}}

	sum := Summarize(txs, budgets, now, SummaryOptions{Range: &r})
	s.equalDec("100", sum.KPIs.BudgetAdherence)
	s.equalDec("100", sum.Change.BudgetAdherence)

	previous := PreviousBudgetComparisons(txs, budgets, now)
	s.Require().Len(previous, 1)
	s.equalDec("500", previous[0].Actual)
	s.True(previous[0].Exceeded)

	// a budget created this month has no previous month to compare with
	budgets[0].StartDate = day(2024, 3, 5)
	sum = Summarize(txs, budgets, now, SummaryOptions{Range: &r})
	s.Empty(PreviousBudgetComparisons(txs, budgets, now))
	s.True(sum.Change.BudgetAdherence.IsZero())
}

func (s *AggregateTestSuite) TestRecentTransactions() {
	txs := fakeTransactions(5, 20)
	recent := RecentTransactions(txs, DefaultRecentN)
	s.Len(recent, DefaultRecentN)
	for i := 1; i < len(recent); i++ {
		s.False(recent[i].Date.After(recent[i-1].Date))
	}
}
