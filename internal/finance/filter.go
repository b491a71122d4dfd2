package finance

import (
	"sort"
	"strings"
)

// SortKey orders a transaction list.
type SortKey string

const (
	SortDateNewest SortKey = "Date (Newest)"
	SortDateOldest SortKey = "Date (Oldest)"
	SortAmountDesc SortKey = "Amount (High to Low)"
	SortAmountAsc  SortKey = "Amount (Low to High)"

	AllCategories = "All Categories"
	AllTypes      = "All Types"
)

var sortAliases = map[string]SortKey{
	"date (newest)":        SortDateNewest,
	"date_desc":            SortDateNewest,
	"date (oldest)":        SortDateOldest,
	"date_asc":             SortDateOldest,
	"amount (high to low)": SortAmountDesc,
	"amount_desc":          SortAmountDesc,
	"amount (low to high)": SortAmountAsc,
	"amount_asc":           SortAmountAsc,
}

// ParseSortKey maps a sort label or alias to its key, falling back to newest first.
func ParseSortKey(s string) SortKey {
	if key, ok := sortAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return key
	}
	return SortDateNewest
}

// IsSortKey reports whether s names a known sort order.
func IsSortKey(s string) bool {
	_, ok := sortAliases[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Query selects and orders transactions. Empty Category and Type mean "all".
type Query struct {
	Category string
	Type     string
	Range    *DateRange
	Sort     SortKey
}

func (q Query) matches(tx Transaction) bool {
	if q.Category != "" && q.Category != AllCategories && tx.Category.ID() != q.Category {
		return false
	}
	if q.Type != "" && q.Type != AllTypes && !strings.EqualFold(string(tx.Type), q.Type) {
		return false
	}
	if q.Range != nil && (!tx.HasDate || !q.Range.Contains(tx.Date)) {
		return false
	}
	return true
}

// FilterSort returns a new slice with the matching transactions in the
// requested order. The input is never modified. Ties keep input order and
// undated records sort after dated ones.
func FilterSort(txs []Transaction, q Query) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if q.matches(tx) {
			out = append(out, tx)
		}
	}

	key := q.Sort
	if key == "" {
		key = SortDateNewest
	} else {
		key = ParseSortKey(string(key))
	}

	var less func(a, b Transaction) bool
	switch key {
	case SortDateOldest:
		less = func(a, b Transaction) bool {
			if a.HasDate != b.HasDate {
				return a.HasDate
			}
			return a.Date.Before(b.Date)
		}
	case SortAmountDesc:
		less = func(a, b Transaction) bool { return a.Amount.GreaterThan(b.Amount) }
	case SortAmountAsc:
		less = func(a, b Transaction) bool { return a.Amount.LessThan(b.Amount) }
	default:
		less = func(a, b Transaction) bool {
			if a.HasDate != b.HasDate {
				return a.HasDate
			}
			return a.Date.After(b.Date)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
