package dto

import (
	"time"

	"fintrack/internal/models"
)

// UserProfileResponse represents the authenticated user's profile
type UserProfileResponse struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	Name             string     `json:"name"`
	Role             string     `json:"role"`
	Currency         string     `json:"currency"`
	Bio              string     `json:"bio"`
	TwoFactorEnabled bool       `json:"twoFactorEnabled"`
	AvatarURL        string     `json:"avatarUrl,omitempty"`
	LastLoginAt      *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// NewUserProfileResponse maps a stored user onto the profile payload.
func NewUserProfileResponse(u *models.User) UserProfileResponse {
	return UserProfileResponse{
		ID:               u.ID.String(),
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Name:             u.FullName(),
		Role:             u.Role,
		Currency:         u.Currency,
		Bio:              u.Bio,
		TwoFactorEnabled: u.TwoFactorEnabled,
		AvatarURL:        u.AvatarURL,
		LastLoginAt:      u.LastLoginAt,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// UpdateProfileRequest replaces every editable profile field (PUT).
type UpdateProfileRequest struct {
	FirstName        string `json:"firstName" validate:"required,min=1,max=100"`
	LastName         string `json:"lastName" validate:"required,min=1,max=100"`
	Email            string `json:"email" validate:"required,email"`
	Currency         string `json:"currency" validate:"required,currency"`
	Bio              string `json:"bio" validate:"max=500"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
}

// PatchProfileRequest changes only the fields that are present (PATCH).
type PatchProfileRequest struct {
	FirstName        *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName         *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	Currency         *string `json:"currency,omitempty" validate:"omitempty,currency"`
	Bio              *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	TwoFactorEnabled *bool   `json:"twoFactorEnabled,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (r *PatchProfileRequest) IsEmpty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Email == nil &&
		r.Currency == nil && r.Bio == nil && r.TwoFactorEnabled == nil
}

// ChangePasswordRequest contains the current and the new password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// AvatarResponse is returned after an avatar upload
type AvatarResponse struct {
	FileURL string `json:"fileUrl"`
}
