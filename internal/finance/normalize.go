package finance

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownType   = errors.New("unknown transaction type")
	ErrInvalidAmount = errors.New("invalid transaction amount")
)

// RawTransaction is a transaction as it arrives over the wire, before any
// shape or value is trusted.
type RawTransaction struct {
	ID          string          `json:"id"`
	LegacyID    string          `json:"_id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    CategoryRef     `json:"category"`
	Type        string          `json:"type"`
	Amount      json.RawMessage `json:"amount"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the date formats seen from the API. Results are in UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseAmount reads a JSON number or numeric string. A missing or null
// amount counts as zero; anything else unparsable is an error.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, nil
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// IndexCategories builds an id lookup for Normalize.
func IndexCategories(categories []Category) map[string]Category {
	idx := make(map[string]Category, len(categories))
	for _, c := range categories {
		idx[c.ID] = c
	}
	return idx
}

// Normalize converts one raw record into the canonical form. Bare category
// ids are resolved through categories when possible. A bad date does not
// fail the record; it is reported through HasDate instead.
func Normalize(raw RawTransaction, categories map[string]Category) (Transaction, error) {
	typ, ok := ParseType(raw.Type)
	if !ok {
		return Transaction{}, ErrUnknownType
	}

	amount, err := parseAmount(raw.Amount)
	if err != nil {
		return Transaction{}, err
	}

	id := raw.ID
	if id == "" {
		id = raw.LegacyID
	}

	ref := raw.Category
	if !ref.IsZero() && !ref.IsResolved() {
		if c, found := categories[ref.ID()]; found {
			ref = Resolved(c)
		}
	}

	date, hasDate := ParseDate(raw.Date)

	return Transaction{
		ID:          id,
		Date:        date,
		HasDate:     hasDate,
		Description: raw.Description,
		Category:    ref,
		Type:        typ,
		Amount:      amount.Abs(),
	}, nil
}

// NormalizeAll normalizes a batch, dropping records that cannot be
// normalized. It returns the kept records and the number dropped.
func NormalizeAll(raws []RawTransaction, categories []Category) ([]Transaction, int) {
	idx := IndexCategories(categories)
	out := make([]Transaction, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		tx, err := Normalize(raw, idx)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, tx)
	}
	return out, dropped
}
