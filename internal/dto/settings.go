package dto

import "fintrack/internal/models"

// PreferencesRequest replaces the display preferences.
type PreferencesRequest struct {
	Theme       string `json:"theme" validate:"required,oneof=light dark system"`
	DateFormat  string `json:"dateFormat" validate:"required,oneof=MM/DD/YYYY DD/MM/YYYY YYYY-MM-DD"`
	CompactView bool   `json:"compactView"`
	Language    string `json:"language" validate:"required,min=2,max=10"`
	StartOfWeek string `json:"startOfWeek" validate:"required,oneof=sunday monday"`
	Currency    string `json:"currency" validate:"required,currency"`
}

type PreferencesResponse struct {
	Theme       string `json:"theme"`
	DateFormat  string `json:"dateFormat"`
	CompactView bool   `json:"compactView"`
	Language    string `json:"language"`
	StartOfWeek string `json:"startOfWeek"`
	Currency    string `json:"currency"`
}

func NewPreferencesResponse(p *models.Preferences) PreferencesResponse {
	return PreferencesResponse{
		Theme:       p.Theme,
		DateFormat:  p.DateFormat,
		CompactView: p.CompactView,
		Language:    p.Language,
		StartOfWeek: p.StartOfWeek,
		Currency:    p.Currency,
	}
}

// NotificationsRequest replaces the notification switches.
type NotificationsRequest struct {
	BudgetAlerts    bool `json:"budgetAlerts"`
	MonthlyReport   bool `json:"monthlyReport"`
	UnusualActivity bool `json:"unusualActivity"`
	NewFeatures     bool `json:"newFeatures"`
	MarketingEmails bool `json:"marketingEmails"`
}

type NotificationsResponse NotificationsRequest

func NewNotificationsResponse(n *models.NotificationSettings) NotificationsResponse {
	return NotificationsResponse{
		BudgetAlerts:    n.BudgetAlerts,
		MonthlyReport:   n.MonthlyReport,
		UnusualActivity: n.UnusualActivity,
		NewFeatures:     n.NewFeatures,
		MarketingEmails: n.MarketingEmails,
	}
}
