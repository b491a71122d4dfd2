package handlers

import (
	"net/http"

	"fintrack/internal/dto"
	"fintrack/internal/errors"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
)

// SettingsHandler serves display preferences and notification switches
type SettingsHandler struct {
	settingsService services.SettingsServiceInterface
}

func NewSettingsHandler(settingsService services.SettingsServiceInterface) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// @Summary Get preferences
// @Tags Settings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.PreferencesResponse
// @Router /preferences [get]
func (h *SettingsHandler) GetPreferences(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	prefs, err := h.settingsService.GetPreferences(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewPreferencesResponse(prefs))
}

// @Summary Replace preferences
// @Tags Settings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.PreferencesRequest true "Preferences"
// @Success 200 {object} dto.PreferencesResponse
// @Router /preferences [put]
func (h *SettingsHandler) UpdatePreferences(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.PreferencesRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	prefs, err := h.settingsService.UpdatePreferences(userID, &req)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewPreferencesResponse(prefs))
}

// @Summary Get notification settings
// @Tags Settings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.NotificationsResponse
// @Router /notifications [get]
func (h *SettingsHandler) GetNotifications(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	settings, err := h.settingsService.GetNotifications(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewNotificationsResponse(settings))
}

// @Summary Replace notification settings
// @Tags Settings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.NotificationsRequest true "Notification switches"
// @Success 200 {object} dto.NotificationsResponse
// @Router /notifications [put]
func (h *SettingsHandler) UpdateNotifications(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.NotificationsRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	settings, err := h.settingsService.UpdateNotifications(userID, &req)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewNotificationsResponse(settings))
}
