package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionFilters narrows a transaction listing. Dates are inclusive of
// StartDate and exclusive of EndDate.
type TransactionFilters struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *uuid.UUID
	Type       string
	Sort       string
	Limit      int
}
