// Package finance turns a flat list of transactions and budget definitions
// into the aggregates shown on the dashboard and analytics views.
//
// Everything in this package is pure: no I/O, no clock reads other than an
// injected "now", and no mutation of caller-owned slices. Money is carried as
// decimal.Decimal end to end.
package finance

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TxType is the direction of a transaction.
type TxType string

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

// ParseType canonicalizes a transaction type, accepting any casing.
func ParseType(s string) (TxType, bool) {
	switch TxType(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, true
	case Expense:
		return Expense, true
	}
	return "", false
}

// Category is the display information of a spending category.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CategoryRef is either nothing, a bare category id, or a category resolved
// to its display fields. The zero value means "no category".
type CategoryRef struct {
	id       string
	name     string
	color    string
	resolved bool
}

// Unresolved references a category by id only.
func Unresolved(id string) CategoryRef {
	return CategoryRef{id: id}
}

// Resolved references a category with its display fields.
func Resolved(c Category) CategoryRef {
	return CategoryRef{id: c.ID, name: c.Name, color: c.Color, resolved: true}
}

func (r CategoryRef) ID() string       { return r.id }
func (r CategoryRef) Name() string     { return r.name }
func (r CategoryRef) Color() string    { return r.color }
func (r CategoryRef) IsResolved() bool { return r.resolved }
func (r CategoryRef) IsZero() bool     { return r.id == "" && !r.resolved }

type categoryJSON struct {
	ID       string `json:"id,omitempty"`
	LegacyID string `json:"_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Color    string `json:"color,omitempty"`
}

// UnmarshalJSON accepts null, a bare id string, or an object with
// id (or _id), name and color.
func (r *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = CategoryRef{}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Unresolved(strings.TrimSpace(id))
		return nil
	}

	var obj categoryJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	id := obj.ID
	if id == "" {
		id = obj.LegacyID
	}
	if obj.Name == "" {
		*r = Unresolved(id)
		return nil
	}
	*r = Resolved(Category{ID: id, Name: obj.Name, Color: obj.Color})
	return nil
}

// MarshalJSON writes null, the bare id, or the resolved object.
func (r CategoryRef) MarshalJSON() ([]byte, error) {
	switch {
	case r.IsZero():
		return []byte("null"), nil
	case !r.resolved:
		return json.Marshal(r.id)
	default:
		return json.Marshal(Category{ID: r.id, Name: r.name, Color: r.color})
	}
}

// Transaction is the canonical in-memory form every aggregate works on.
// Amount is always non-negative; the sign comes from Type.
// HasDate is false when the source date could not be parsed.
type Transaction struct {
	ID          string
	Date        time.Time
	HasDate     bool
	Description string
	Category    CategoryRef
	Type        TxType
	Amount      decimal.Decimal
}

// Signed returns the amount with income positive and expense negative.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Budget is a spending limit on one category starting at StartDate.
type Budget struct {
	ID        string
	Category  Category
	Limit     decimal.Decimal
	StartDate time.Time
}
