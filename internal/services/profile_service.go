package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"fintrack/internal/config"
	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
)

const DefaultMaxAvatarBytes = 2 << 20

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyInUse     = errors.New("email is already in use")
	ErrEmptyUpdate           = errors.New("no fields to update")
	ErrAvatarTooLarge        = errors.New("avatar exceeds the maximum size")
	ErrUnsupportedAvatarType = errors.New("avatar must be a PNG, JPEG, GIF or WebP image")
)

var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ProfileService manages the authenticated user's own account
type ProfileService struct {
	userRepo         repositories.UserRepositoryInterface
	refreshTokenRepo repositories.RefreshTokenRepositoryInterface
	auditRepo        repositories.AuditLogRepositoryInterface
	passwordService  PasswordServiceInterface
	storage          config.StorageConfig
	logger           *slog.Logger
}

func NewProfileService(
	userRepo repositories.UserRepositoryInterface,
	refreshTokenRepo repositories.RefreshTokenRepositoryInterface,
	auditRepo repositories.AuditLogRepositoryInterface,
	passwordService PasswordServiceInterface,
	storage config.StorageConfig,
	logger *slog.Logger,
) ProfileServiceInterface {
	if storage.MaxAvatarBytes <= 0 {
		storage.MaxAvatarBytes = DefaultMaxAvatarBytes
	}
	return &ProfileService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		auditRepo:        auditRepo,
		passwordService:  passwordService,
		storage:          storage,
		logger:           logger,
	}
}

func (s *ProfileService) GetProfile(userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile replaces every editable field
func (s *ProfileService) UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest, ipAddress, userAgent string) (*models.User, error) {
	patch := &dto.PatchProfileRequest{
		FirstName:        &req.FirstName,
		LastName:         &req.LastName,
		Email:            &req.Email,
		Currency:         &req.Currency,
		Bio:              &req.Bio,
		TwoFactorEnabled: &req.TwoFactorEnabled,
	}
	return s.PatchProfile(userID, patch, ipAddress, userAgent)
}

// PatchProfile changes the fields present in req
func (s *ProfileService) PatchProfile(userID uuid.UUID, req *dto.PatchProfileRequest, ipAddress, userAgent string) (*models.User, error) {
	if req.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	changed := []string{}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			existing, err := s.userRepo.GetByEmailExcluding(email, userID)
			if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if existing != nil {
				return nil, ErrEmailAlreadyInUse
			}
			fields["email"] = email
			user.Email = email
			changed = append(changed, "email")
		}
	}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
		user.FirstName = *req.FirstName
		changed = append(changed, "firstName")
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
		user.LastName = *req.LastName
		changed = append(changed, "lastName")
	}
	if req.Currency != nil {
		currency := strings.ToUpper(*req.Currency)
		fields["currency"] = currency
		user.Currency = currency
		changed = append(changed, "currency")
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
		user.Bio = *req.Bio
		changed = append(changed, "bio")
	}
	if req.TwoFactorEnabled != nil {
		fields["two_factor_enabled"] = *req.TwoFactorEnabled
		user.TwoFactorEnabled = *req.TwoFactorEnabled
		changed = append(changed, "twoFactorEnabled")
	}

	if len(fields) > 0 {
		if err := user.Validate(); err != nil {
			return nil, err
		}
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			if errors.Is(err, repositories.ErrEmailAlreadyExists) {
				return nil, ErrEmailAlreadyInUse
			}
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	s.audit(userID, models.AuditActionProfileUpdated, ipAddress, userAgent, map[string]interface{}{"fields": changed})

	return s.GetProfile(userID)
}

func (s *ProfileService) ChangePassword(userID uuid.UUID, req *dto.ChangePasswordRequest, ipAddress, userAgent string) error {
	if err := s.passwordService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	// other sessions must log in again with the new password
	if err := s.refreshTokenRepo.RevokeAllForUser(userID); err != nil {
		s.logger.Warn("failed to revoke refresh tokens after password change", "error", err, "user_id", userID)
	}

	s.audit(userID, models.AuditActionPasswordUpdated, ipAddress, userAgent, nil)
	return nil
}

// UploadAvatar stores an image under the upload directory and returns its public URL.
// The content type is sniffed from the bytes; the client-supplied name is ignored
// except in the audit log.
func (s *ProfileService) UploadAvatar(userID uuid.UUID, filename string, file io.Reader) (string, error) {
	if _, err := s.GetProfile(userID); err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(file, s.storage.MaxAvatarBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read avatar: %w", err)
	}
	if int64(len(data)) > s.storage.MaxAvatarBytes {
		return "", ErrAvatarTooLarge
	}

	ext, ok := avatarExtensions[http.DetectContentType(data)]
	if !ok {
		return "", ErrUnsupportedAvatarType
	}

	if err := os.MkdirAll(s.storage.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := fmt.Sprintf("avatar-%s-%s%s", userID, uuid.NewString()[:8], ext)
	dst, err := os.Create(filepath.Join(s.storage.UploadDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create avatar file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to write avatar: %w", err)
	}

	url := strings.TrimRight(s.storage.PublicURL, "/") + "/" + name
	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{"avatar_url": url}); err != nil {
		return "", fmt.Errorf("failed to save avatar url: %w", err)
	}

	s.audit(userID, models.AuditActionAvatarUpdated, "", "", map[string]interface{}{"filename": filename, "url": url})
	return url, nil
}

// DeleteAccount soft-deletes the user and revokes every refresh token
func (s *ProfileService) DeleteAccount(userID uuid.UUID, ipAddress, userAgent string) error {
	if err := s.userRepo.Delete(userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if err := s.refreshTokenRepo.RevokeAllForUser(userID); err != nil {
		s.logger.Warn("failed to revoke refresh tokens", "error", err, "user_id", userID)
	}

	s.audit(userID, models.AuditActionAccountDeleted, ipAddress, userAgent, nil)
	return nil
}

func (s *ProfileService) audit(userID uuid.UUID, action, ipAddress, userAgent string, metadata map[string]interface{}) {
	writeAuditLog(s.auditRepo, s.logger, &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   models.AuditResourceUser,
		ResourceID: userID.String(),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Metadata:   metadata,
	})
}
