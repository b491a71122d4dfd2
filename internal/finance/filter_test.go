package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type FilterSortTestSuite struct {
	suite.Suite
	food Category
	rent Category
	txs  []Transaction
}

func TestFilterSortTestSuite(t *testing.T) {
	suite.Run(t, new(FilterSortTestSuite))
}

func (s *FilterSortTestSuite) SetupTest() {
	s.food = Category{ID: "food", Name: "Food"}
	s.rent = Category{ID: "rent", Name: "Rent"}
	s.txs = []Transaction{
		tx("a", day(2024, 1, 3), Expense, "20", Resolved(s.food)),
		tx("b", day(2024, 1, 1), Income, "1000", CategoryRef{}),
		tx("c", day(2024, 1, 5), Expense, "900", Resolved(s.rent)),
		tx("d", day(2024, 1, 3), Expense, "20", Resolved(s.food)),
		tx("e", time.Time{}, Expense, "5", CategoryRef{}),
	}
}

func ids(txs []Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}

func (s *FilterSortTestSuite) TestDefaultSortIsNewestFirstWithUndatedLast() {
	got := FilterSort(s.txs, Query{})
	s.Equal([]string{"c", "a", "d", "b", "e"}, ids(got))
}

func (s *FilterSortTestSuite) TestOldestFirstIsStable() {
	got := FilterSort(s.txs, Query{Sort: SortDateOldest})
	s.Equal([]string{"b", "a", "d", "c", "e"}, ids(got))
}

func (s *FilterSortTestSuite) TestAmountOrders() {
	s.Equal([]string{"b", "c", "a", "d", "e"}, ids(FilterSort(s.txs, Query{Sort: SortAmountDesc})))
	s.Equal([]string{"e", "a", "d", "c", "b"}, ids(FilterSort(s.txs, Query{Sort: SortAmountAsc})))
	s.Equal([]string{"e", "a", "d", "c", "b"}, ids(FilterSort(s.txs, Query{Sort: "amount_asc"})))
}

func (s *FilterSortTestSuite) TestUnknownSortFallsBackToNewest() {
	s.Equal(ids(FilterSort(s.txs, Query{})), ids(FilterSort(s.txs, Query{Sort: "by mood"})))
}

func (s *FilterSortTestSuite) TestCategoryAndTypeFilters() {
	s.Equal([]string{"a", "d"}, ids(FilterSort(s.txs, Query{Category: "food", Sort: SortDateOldest})))
	s.Len(FilterSort(s.txs, Query{Category: AllCategories}), 5)
	s.Equal([]string{"b"}, ids(FilterSort(s.txs, Query{Type: "INCOME"})))
	s.Len(FilterSort(s.txs, Query{Type: AllTypes}), 5)
}

func (s *FilterSortTestSuite) TestUnknownFilterValuesYieldEmpty() {
	got := FilterSort(s.txs, Query{Category: "nope"})
	s.NotNil(got)
	s.Empty(got)

	got = FilterSort(s.txs, Query{Type: "transfer"})
	s.NotNil(got)
	s.Empty(got)
}

func (s *FilterSortTestSuite) TestRangeExcludesUndated() {
	r := DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 4)}
	got := FilterSort(s.txs, Query{Range: &r, Sort: SortDateOldest})
	s.Equal([]string{"b", "a", "d"}, ids(got))
}

func (s *FilterSortTestSuite) TestDoesNotMutateInput() {
	before := ids(s.txs)
	_ = FilterSort(s.txs, Query{Sort: SortAmountAsc})
	_ = FilterSort(s.txs, Query{Category: "food"})
	s.Equal(before, ids(s.txs))
}

func (s *FilterSortTestSuite) TestIdempotent() {
	txs := fakeTransactions(11, 200)
	queries := []Query{
		{},
		{Sort: SortAmountDesc},
		{Category: "food", Sort: SortDateOldest},
		{Type: "expense", Sort: SortAmountAsc},
	}
	for _, q := range queries {
		once := FilterSort(txs, q)
		twice := FilterSort(once, q)
		s.Equal(ids(once), ids(twice))
	}
}

func (s *FilterSortTestSuite) TestAmountOrdersAreReversesWithoutTies() {
	txs := []Transaction{
		tx("1", day(2024, 1, 1), Expense, "3", CategoryRef{}),
		tx("2", day(2024, 1, 2), Income, "1", CategoryRef{}),
		tx("3", day(2024, 1, 3), Expense, "2.5", CategoryRef{}),
		tx("4", day(2024, 1, 4), Expense, "10", CategoryRef{}),
	}
	desc := ids(FilterSort(txs, Query{Sort: SortAmountDesc}))
	asc := ids(FilterSort(txs, Query{Sort: SortAmountAsc}))

	for i, j := 0, len(desc)-1; i < j; i, j = i+1, j-1 {
		desc[i], desc[j] = desc[j], desc[i]
	}
	s.Equal(asc, desc)
}

func (s *FilterSortTestSuite) TestParseSortKey() {
	s.Equal(SortDateNewest, ParseSortKey(""))
	s.Equal(SortAmountDesc, ParseSortKey("amount (high to low)"))
	s.True(IsSortKey("Date (Oldest)"))
	s.False(IsSortKey("random"))
}
