package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
)

const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100

	DefaultAuditRetention = 90 * 24 * time.Hour
)

var ErrInvalidUserID = errors.New("invalid user ID")

// AuditService reads a user's audit trail and purges expired security records.
type AuditService struct {
	auditRepo            repositories.AuditLogRepositoryInterface
	refreshTokenRepo     repositories.RefreshTokenRepositoryInterface
	blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface
	logger               *slog.Logger
}

func NewAuditService(
	auditRepo repositories.AuditLogRepositoryInterface,
	refreshTokenRepo repositories.RefreshTokenRepositoryInterface,
	blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface,
	logger *slog.Logger,
) AuditServiceInterface {
	return &AuditService{
		auditRepo:            auditRepo,
		refreshTokenRepo:     refreshTokenRepo,
		blacklistedTokenRepo: blacklistedTokenRepo,
		logger:               logger,
	}
}

// GetActivity returns one page of the user's audit entries, newest first, and the total count.
func (s *AuditService) GetActivity(userID uuid.UUID, page, limit int) ([]*models.AuditLog, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, ErrInvalidUserID
	}
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}
	if page < 1 {
		page = 1
	}

	logs, total, err := s.auditRepo.GetByUserID(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get activity: %w", err)
	}
	return logs, total, nil
}

// PurgeExpired removes audit entries older than retention along with
// expired refresh and blacklisted tokens.
func (s *AuditService) PurgeExpired(retention time.Duration) (models.PurgeResult, error) {
	if retention <= 0 {
		retention = DefaultAuditRetention
	}

	var result models.PurgeResult
	var err error

	if result.AuditLogs, err = s.auditRepo.DeleteOlderThan(retention); err != nil {
		return result, fmt.Errorf("failed to purge audit logs: %w", err)
	}
	if result.RefreshTokens, err = s.refreshTokenRepo.DeleteExpired(); err != nil {
		return result, fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	if result.BlacklistedTokens, err = s.blacklistedTokenRepo.DeleteExpired(); err != nil {
		return result, fmt.Errorf("failed to purge blacklisted tokens: %w", err)
	}

	s.logger.Info("purged expired records",
		"audit_logs", result.AuditLogs,
		"refresh_tokens", result.RefreshTokens,
		"blacklisted_tokens", result.BlacklistedTokens)
	return result, nil
}
