package services

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountLocked       = errors.New("account is locked due to too many failed attempts")
	ErrUserAlreadyExists   = errors.New("user with this email already exists")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// AuthService handles registration, login and the token lifecycle
type AuthService struct {
	userRepo             repositories.UserRepositoryInterface
	refreshTokenRepo     repositories.RefreshTokenRepositoryInterface
	auditRepo            repositories.AuditLogRepositoryInterface
	blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface
	categoryRepo         repositories.CategoryRepositoryInterface
	settingsRepo         repositories.SettingsRepositoryInterface
	passwordService      PasswordServiceInterface
	tokenService         TokenServiceInterface
	metrics              MetricsRecorderInterface
	maxFailedAttempts    int
	logger               *slog.Logger
}

// AuthDependencies groups the collaborators of AuthService.
type AuthDependencies struct {
	UserRepo             repositories.UserRepositoryInterface
	RefreshTokenRepo     repositories.RefreshTokenRepositoryInterface
	AuditRepo            repositories.AuditLogRepositoryInterface
	BlacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface
	CategoryRepo         repositories.CategoryRepositoryInterface
	SettingsRepo         repositories.SettingsRepositoryInterface
	PasswordService      PasswordServiceInterface
	TokenService         TokenServiceInterface
	Metrics              MetricsRecorderInterface
	MaxFailedAttempts    int
}

// NewAuthService creates a new authentication service
func NewAuthService(deps AuthDependencies, logger *slog.Logger) AuthServiceInterface {
	return &AuthService{
		userRepo:             deps.UserRepo,
		refreshTokenRepo:     deps.RefreshTokenRepo,
		auditRepo:            deps.AuditRepo,
		blacklistedTokenRepo: deps.BlacklistedTokenRepo,
		categoryRepo:         deps.CategoryRepo,
		settingsRepo:         deps.SettingsRepo,
		passwordService:      deps.PasswordService,
		tokenService:         deps.TokenService,
		metrics:              deps.Metrics,
		maxFailedAttempts:    deps.MaxFailedAttempts,
		logger:               logger,
	}
}

// Register creates a user with the default categories and settings
func (s *AuthService) Register(req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existingUser, err := s.userRepo.GetByEmail(email)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		s.auditFailedRegistration(email, ipAddress, userAgent, "email_already_exists")
		return nil, ErrUserAlreadyExists
	}

	if err := s.passwordService.ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	hashedPassword, err := s.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleUser,
		Currency:     strings.ToUpper(req.Currency),
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Missing defaults are recreated lazily, so a failure here does not fail registration.
	if err := s.categoryRepo.EnsureDefaults(user.ID); err != nil {
		s.logger.Warn("failed to create default categories", "error", err, "user_id", user.ID)
	}
	if _, err := s.settingsRepo.GetPreferences(user.ID); err != nil {
		s.logger.Warn("failed to create default preferences", "error", err, "user_id", user.ID)
	}
	if _, err := s.settingsRepo.GetNotifications(user.ID); err != nil {
		s.logger.Warn("failed to create default notification settings", "error", err, "user_id", user.ID)
	}

	s.createAuditLog(&user.ID, models.AuditActionRegister, models.AuditResourceUser, user.ID.String(), ipAddress, userAgent, nil)
	s.countAuthEvent("register", "success")

	return user, nil
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.auditFailedLogin(email, ipAddress, userAgent, "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsLocked() {
		s.auditFailedLogin(email, ipAddress, userAgent, "account_locked")
		return nil, ErrAccountLocked
	}

	if !s.passwordService.ComparePassword(req.Password, user.PasswordHash) {
		user.IncrementFailedAttempts(s.maxFailedAttempts)
		if err := s.userRepo.UpdateFailedLoginAttempts(user); err != nil {
			s.logger.Error("failed to update login attempts",
				"error", err,
				"user_id", user.ID)
		}

		if user.IsLocked() {
			s.createAuditLog(&user.ID, models.AuditActionAccountLocked, models.AuditResourceUser, user.ID.String(), ipAddress, userAgent, nil)
		}

		s.auditFailedLogin(email, ipAddress, userAgent, "invalid_password")
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 {
		user.Unlock()
		if err := s.userRepo.ResetFailedLoginAttempts(user.ID); err != nil {
			s.logger.Warn("failed to reset login attempts",
				"error", err,
				"user_id", user.ID)
		}
	}

	user.UpdateLastLogin()
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"last_login_at": user.LastLoginAt}); err != nil {
		s.logger.Warn("failed to record last login", "error", err, "user_id", user.ID)
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.createAuditLog(&user.ID, models.AuditActionLogin, models.AuditResourceUser, user.ID.String(), ipAddress, userAgent, nil)
	s.countAuthEvent("login", "success")

	return tokens, nil
}

// RefreshTokens rotates a refresh token: the presented one is revoked and a new pair issued.
func (s *AuthService) RefreshTokens(refreshToken, ipAddress, userAgent string) (*dto.TokenResponse, error) {
	claims, err := s.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.auditFailedTokenRefresh("", ipAddress, userAgent, "invalid_token")
		return nil, ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	storedToken, err := s.refreshTokenRepo.GetByTokenHash(hashToken(refreshToken))
	if err != nil {
		s.auditFailedTokenRefresh(claims.UserID, ipAddress, userAgent, "token_not_found")
		return nil, ErrInvalidRefreshToken
	}

	if !storedToken.IsValid() {
		s.auditFailedTokenRefresh(claims.UserID, ipAddress, userAgent, "token_expired_or_revoked")
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.refreshTokenRepo.Revoke(storedToken.ID); err != nil {
		s.logger.Warn("failed to revoke old token",
			"error", err,
			"user_id", user.ID,
			"token_id", storedToken.ID)
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate new tokens: %w", err)
	}

	s.createAuditLog(&user.ID, models.AuditActionTokenRefresh, models.AuditResourceUser, user.ID.String(), ipAddress, userAgent, nil)
	s.countAuthEvent("refresh", "success")

	return tokens, nil
}

// Logout blacklists the access token and revokes every refresh token of the user
func (s *AuthService) Logout(accessToken, ipAddress, userAgent string) error {
	claims, err := s.tokenService.ValidateAccessToken(accessToken)
	if err != nil {
		// expired tokens are blacklisted too
		jti, _ := s.tokenService.GetJTI(accessToken)
		if jti != "" {
			if err := s.blacklistToken(jti, uuid.Nil, time.Now().Add(24*time.Hour)); err != nil {
				s.logger.Error("failed to blacklist expired token",
					"error", err,
					"jti", jti)
			}
		}
		return nil
	}

	userID, _ := uuid.Parse(claims.UserID)

	expiry, _ := s.tokenService.GetTokenExpiry(accessToken)
	if err := s.blacklistToken(claims.ID, userID, expiry); err != nil {
		s.logger.Error("failed to blacklist token",
			"error", err,
			"jti", claims.ID,
			"user_id", userID)
	}

	if err := s.refreshTokenRepo.RevokeAllForUser(userID); err != nil {
		s.logger.Warn("failed to revoke refresh tokens",
			"error", err,
			"user_id", userID)
	}

	s.createAuditLog(&userID, models.AuditActionLogout, models.AuditResourceUser, userID.String(), ipAddress, userAgent, nil)
	s.countAuthEvent("logout", "success")

	return nil
}

func (s *AuthService) generateTokens(user *models.User) (*dto.TokenResponse, error) {
	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.tokenService.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.refreshTokenRepo.Create(&models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: refreshExpiresAt,
	}); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.TokenResponse{
		Token:        accessToken,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *AuthService) blacklistToken(jti string, userID uuid.UUID, expiresAt time.Time) error {
	return s.blacklistedTokenRepo.Create(&models.BlacklistedToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt,
	})
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", sum)
}

func (s *AuthService) countAuthEvent(event, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementCounter(MetricAuthEvents, map[string]string{"event": event, "outcome": outcome})
}

func (s *AuthService) auditFailedRegistration(email, ipAddress, userAgent, reason string) {
	metadata := map[string]interface{}{
		"email":  email,
		"reason": reason,
	}
	s.createAuditLog(nil, models.AuditActionRegister, models.AuditResourceUser, "", ipAddress, userAgent, metadata)
	s.countAuthEvent("register", "failure")
}

func (s *AuthService) auditFailedLogin(email, ipAddress, userAgent, reason string) {
	metadata := map[string]interface{}{
		"email":  email,
		"reason": reason,
	}
	s.createAuditLog(nil, models.AuditActionFailedLogin, models.AuditResourceUser, "", ipAddress, userAgent, metadata)
	s.countAuthEvent("login", "failure")
}

func (s *AuthService) auditFailedTokenRefresh(userID, ipAddress, userAgent, reason string) {
	var uid *uuid.UUID
	if id, err := uuid.Parse(userID); err == nil {
		uid = &id
	}
	s.createAuditLog(uid, models.AuditActionTokenRefresh, "token", "", ipAddress, userAgent, map[string]interface{}{
		"reason": reason,
	})
	s.countAuthEvent("refresh", "failure")
}

func (s *AuthService) createAuditLog(userID *uuid.UUID, action, resource, resourceID, ipAddress, userAgent string, metadata map[string]interface{}) {
	writeAuditLog(s.auditRepo, s.logger, &models.AuditLog{
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Metadata:   metadata,
	})
}

// writeAuditLog stores entry and only logs when the insert fails.
func writeAuditLog(repo repositories.AuditLogRepositoryInterface, logger *slog.Logger, entry *models.AuditLog) {
	if repo == nil {
		return
	}
	if err := repo.Create(entry); err != nil {
		logger.Error("failed to create audit log",
			"error", err,
			"action", entry.Action,
			"resource", entry.Resource,
			"resource_id", entry.ResourceID)
	}
}
