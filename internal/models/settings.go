package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	WeekStartSunday = "sunday"
	WeekStartMonday = "monday"
)

// AllowedDateFormats lists the date formats the UI can render.
var AllowedDateFormats = []string{"MM/DD/YYYY", "DD/MM/YYYY", "YYYY-MM-DD"}

// Preferences are display settings, one row per user.
type Preferences struct {
	UserID      uuid.UUID `gorm:"type:uuid;primary_key" json:"-"`
	Theme       string    `gorm:"type:varchar(10);not null" json:"theme"`
	DateFormat  string    `gorm:"type:varchar(10);not null" json:"dateFormat"`
	CompactView bool      `gorm:"not null" json:"compactView"`
	Language    string    `gorm:"type:varchar(10);not null" json:"language"`
	StartOfWeek string    `gorm:"type:varchar(10);not null" json:"startOfWeek"`
	Currency    string    `gorm:"type:varchar(3);not null" json:"currency"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

func (p *Preferences) TableName() string {
	return "preferences"
}

// DefaultPreferences are used until the user saves their own.
func DefaultPreferences(userID uuid.UUID) Preferences {
	return Preferences{
		UserID:      userID,
		Theme:       ThemeLight,
		DateFormat:  AllowedDateFormats[0],
		CompactView: false,
		Language:    "en",
		StartOfWeek: WeekStartSunday,
		Currency:    DefaultCurrency,
	}
}

// NotificationSettings are the user's email notification switches.
type NotificationSettings struct {
	UserID          uuid.UUID `gorm:"type:uuid;primary_key" json:"-"`
	BudgetAlerts    bool      `gorm:"not null" json:"budgetAlerts"`
	MonthlyReport   bool      `gorm:"not null" json:"monthlyReport"`
	UnusualActivity bool      `gorm:"not null" json:"unusualActivity"`
	NewFeatures     bool      `gorm:"not null" json:"newFeatures"`
	MarketingEmails bool      `gorm:"not null" json:"marketingEmails"`
	UpdatedAt       time.Time `gorm:"not null" json:"updatedAt"`
}

func (n *NotificationSettings) TableName() string {
	return "notification_settings"
}

// DefaultNotificationSettings are used until the user saves their own.
func DefaultNotificationSettings(userID uuid.UUID) NotificationSettings {
	return NotificationSettings{
		UserID:          userID,
		BudgetAlerts:    true,
		MonthlyReport:   true,
		UnusualActivity: false,
		NewFeatures:     true,
		MarketingEmails: false,
	}
}
