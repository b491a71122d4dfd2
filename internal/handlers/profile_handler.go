package handlers

import (
	stderrors "errors"
	"net/http"

	"fintrack/internal/dto"
	"fintrack/internal/errors"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
)

// ProfileHandler serves the authenticated user's own account
type ProfileHandler struct {
	profileService services.ProfileServiceInterface
	auditService   services.AuditServiceInterface
}

func NewProfileHandler(profileService services.ProfileServiceInterface, auditService services.AuditServiceInterface) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		auditService:   auditService,
	}
}

// GetProfile returns the caller's profile
// @Summary Get current user profile
// @Tags Profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserProfileResponse
// @Failure 404 {object} errors.ErrorResponse "User not found - USER_001"
// @Router /users/me [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	user, err := h.profileService.GetProfile(userID)
	if err != nil {
		return h.sendProfileError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewUserProfileResponse(user))
}

// UpdateProfile replaces the editable profile fields
// @Summary Replace current user profile
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile"
// @Success 200 {object} dto.UserProfileResponse
// @Failure 409 {object} errors.ErrorResponse "Email in use - USER_002"
// @Router /users/me [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.profileService.UpdateProfile(userID, &req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		return h.sendProfileError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewUserProfileResponse(user))
}

// PatchProfile changes only the fields present in the body
// @Summary Partially update current user profile
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.PatchProfileRequest true "Changed fields"
// @Success 200 {object} dto.UserProfileResponse
// @Router /users/me [patch]
func (h *ProfileHandler) PatchProfile(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.PatchProfileRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.profileService.PatchProfile(userID, &req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		return h.sendProfileError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewUserProfileResponse(user))
}

// DeleteAccount removes the caller's account and revokes every session
// @Summary Delete current user
// @Tags Profile
// @Security BearerAuth
// @Success 204
// @Router /users/me [delete]
func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	if err := h.profileService.DeleteAccount(userID, getClientIP(c), c.Request().UserAgent()); err != nil {
		return h.sendProfileError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadAvatar stores the multipart field "file" as the caller's avatar
// @Summary Upload avatar
// @Tags Profile
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Avatar image"
// @Success 200 {object} dto.AvatarResponse
// @Failure 400 {object} errors.ErrorResponse "Invalid image - USER_004"
// @Failure 413 {object} errors.ErrorResponse "Too large - USER_005"
// @Router /users/me/avatar [post]
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	header, err := c.FormFile("file")
	if err != nil {
		return SendError(c, errors.ValidationRequiredField, errors.WithDetails("file is required"))
	}
	file, err := header.Open()
	if err != nil {
		return SendError(c, errors.UserInvalidAvatar)
	}
	defer file.Close()

	url, err := h.profileService.UploadAvatar(userID, header.Filename, file)
	if err != nil {
		return h.sendProfileError(c, err)
	}

	return c.JSON(http.StatusOK, dto.AvatarResponse{FileURL: url})
}

// ChangePassword verifies the current password and stores the new one
// @Summary Change password
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Passwords"
// @Success 200 {object} SuccessResponse{message=string}
// @Failure 400 {object} errors.ErrorResponse "Wrong password - USER_006, weak password - VALIDATION_006"
// @Router /users/me/password [put]
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if err := h.profileService.ChangePassword(userID, &req, getClientIP(c), c.Request().UserAgent()); err != nil {
		return h.sendProfileError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "Password changed successfully"})
}

// GetActivity pages through the caller's audit trail
// @Summary List account activity
// @Tags Profile
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, max 100"
// @Success 200 {object} dto.ActivityListResponse
// @Router /users/me/activity [get]
func (h *ProfileHandler) GetActivity(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	page := max(getIntParam(c, "page", 1), 1)
	limit := getIntParam(c, "limit", services.DefaultActivityLimit)
	if limit < 1 {
		limit = services.DefaultActivityLimit
	}
	limit = min(limit, services.MaxActivityLimit)

	logs, total, err := h.auditService.GetActivity(userID, page, limit)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewActivityList(logs, total, page, limit))
}

func (h *ProfileHandler) sendProfileError(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, services.ErrUserNotFound):
		return SendError(c, errors.UserNotFound)
	case stderrors.Is(err, services.ErrEmailAlreadyInUse):
		return SendError(c, errors.UserAlreadyExists, errors.WithMessage("Email is already in use"))
	case stderrors.Is(err, services.ErrEmptyUpdate):
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	case stderrors.Is(err, services.ErrAvatarTooLarge):
		return SendError(c, errors.UserAvatarTooLarge)
	case stderrors.Is(err, services.ErrUnsupportedAvatarType):
		return SendError(c, errors.UserInvalidAvatar)
	case stderrors.Is(err, services.ErrCurrentPasswordWrong):
		return SendError(c, errors.UserPasswordInvalid)
	case isPasswordPolicyError(err):
		return SendError(c, errors.ValidationWeakPassword, errors.WithDetails(err.Error()))
	}
	return SendSystemError(c, err)
}
