package repositories

import (
	"errors"
	"fmt"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepositoryInterface {
	return &SettingsRepository{db: db}
}

// firstOrDefault loads dest by user id, inserting fallback when the row is missing.
func firstOrDefault[T any](db *gorm.DB, userID uuid.UUID, fallback T) (*T, error) {
	var row T
	err := db.Where("user_id = ?", userID).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fallback).Error; err != nil {
		return nil, err
	}
	return &fallback, nil
}

func upsert(db *gorm.DB, value interface{}) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(value).Error
}

func (r *SettingsRepository) GetPreferences(userID uuid.UUID) (*models.Preferences, error) {
	defaults := models.DefaultPreferences(userID)
	defaults.UpdatedAt = time.Now()

	prefs, err := firstOrDefault(r.db, userID, defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return prefs, nil
}

func (r *SettingsRepository) SavePreferences(prefs *models.Preferences) error {
	if prefs == nil || prefs.UserID == uuid.Nil {
		return errors.New("preferences require a user")
	}

	prefs.UpdatedAt = time.Now()
	if err := upsert(r.db, prefs); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

func (r *SettingsRepository) GetNotifications(userID uuid.UUID) (*models.NotificationSettings, error) {
	defaults := models.DefaultNotificationSettings(userID)
	defaults.UpdatedAt = time.Now()

	settings, err := firstOrDefault(r.db, userID, defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification settings: %w", err)
	}
	return settings, nil
}

func (r *SettingsRepository) SaveNotifications(settings *models.NotificationSettings) error {
	if settings == nil || settings.UserID == uuid.Nil {
		return errors.New("notification settings require a user")
	}

	settings.UpdatedAt = time.Now()
	if err := upsert(r.db, settings); err != nil {
		return fmt.Errorf("failed to save notification settings: %w", err)
	}
	return nil
}
