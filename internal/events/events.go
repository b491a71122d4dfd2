// Package events publishes domain events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=events.go -destination=event_mocks/event_mocks.go -package=event_mocks

// Publisher sends domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishBudgetAlert(ctx context.Context, alert BudgetAlert) error
	Close() error
}

// BudgetAlert is emitted when an expense pushes a category over its budget.
type BudgetAlert struct {
	UserID       uuid.UUID       `json:"userId"`
	BudgetID     uuid.UUID       `json:"budgetId"`
	CategoryID   uuid.UUID       `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Limit        decimal.Decimal `json:"limit"`
	Spent        decimal.Decimal `json:"spent"`
	OccurredAt   time.Time       `json:"occurredAt"`
}

// Overspend is how far Spent is above Limit.
func (a BudgetAlert) Overspend() decimal.Decimal {
	return a.Spent.Sub(a.Limit)
}

func (a BudgetAlert) ToJSON() ([]byte, error) {
	return json.Marshal(a)
}

// BudgetAlertFromJSON decodes an alert published by PublishBudgetAlert.
func BudgetAlertFromJSON(data []byte) (*BudgetAlert, error) {
	var a BudgetAlert
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishBudgetAlert(context.Context, BudgetAlert) error { return nil }
func (NoopPublisher) Close() error                                           { return nil }
