package services

import (
	"fmt"
	"strings"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
)

type SettingsService struct {
	settingsRepo repositories.SettingsRepositoryInterface
}

func NewSettingsService(settingsRepo repositories.SettingsRepositoryInterface) SettingsServiceInterface {
	return &SettingsService{settingsRepo: settingsRepo}
}

func (s *SettingsService) GetPreferences(userID uuid.UUID) (*models.Preferences, error) {
	return s.settingsRepo.GetPreferences(userID)
}

func (s *SettingsService) UpdatePreferences(userID uuid.UUID, req *dto.PreferencesRequest) (*models.Preferences, error) {
	prefs := &models.Preferences{
		UserID:      userID,
		Theme:       req.Theme,
		DateFormat:  req.DateFormat,
		CompactView: req.CompactView,
		Language:    strings.ToLower(req.Language),
		StartOfWeek: req.StartOfWeek,
		Currency:    strings.ToUpper(req.Currency),
	}
	if err := s.settingsRepo.SavePreferences(prefs); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}
	return prefs, nil
}

func (s *SettingsService) GetNotifications(userID uuid.UUID) (*models.NotificationSettings, error) {
	return s.settingsRepo.GetNotifications(userID)
}

func (s *SettingsService) UpdateNotifications(userID uuid.UUID, req *dto.NotificationsRequest) (*models.NotificationSettings, error) {
	settings := &models.NotificationSettings{
		UserID:          userID,
		BudgetAlerts:    req.BudgetAlerts,
		MonthlyReport:   req.MonthlyReport,
		UnusualActivity: req.UnusualActivity,
		NewFeatures:     req.NewFeatures,
		MarketingEmails: req.MarketingEmails,
	}
	if err := s.settingsRepo.SaveNotifications(settings); err != nil {
		return nil, fmt.Errorf("failed to save notification settings: %w", err)
	}
	return settings, nil
}
