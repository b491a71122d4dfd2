package dto

import (
	"time"

	"fintrack/internal/models"
)

// ActivityQuery pages through the caller's audit trail
type ActivityQuery struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// AuditLogResponse represents an audit log entry
type AuditLogResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	Resource  string          `json:"resource"`
	IPAddress string          `json:"ipAddress,omitempty"`
	UserAgent string          `json:"userAgent,omitempty"`
	Metadata  models.JSONBMap `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ActivityListResponse represents a page of audit log entries
type ActivityListResponse struct {
	Activity []AuditLogResponse `json:"activity"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	Limit    int                `json:"limit"`
}

func NewActivityList(logs []*models.AuditLog, total int64, page, limit int) ActivityListResponse {
	out := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, AuditLogResponse{
			ID:        l.ID.String(),
			Action:    l.Action,
			Resource:  l.Resource,
			IPAddress: l.IPAddress,
			UserAgent: l.UserAgent,
			Metadata:  l.Metadata,
			CreatedAt: l.CreatedAt,
		})
	}
	return ActivityListResponse{Activity: out, Total: total, Page: page, Limit: limit}
}
