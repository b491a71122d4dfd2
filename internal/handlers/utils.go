package handlers

import (
	stderrors "errors"
	"fmt"
	"strings"

	"fintrack/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrUnauthorized is returned when user context is invalid
var ErrUnauthorized = fmt.Errorf("unauthorized")

var passwordPolicyErrors = []error{
	services.ErrPasswordEmpty,
	services.ErrPasswordTooShort,
	services.ErrPasswordTooLong,
	services.ErrPasswordNoUppercase,
	services.ErrPasswordNoLowercase,
	services.ErrPasswordNoNumber,
	services.ErrPasswordNoSpecial,
	services.ErrSamePassword,
}

// Helper function to extract user ID from context
// Returns ErrUnauthorized if user ID is missing or invalid
func getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userIDValue := c.Get(UserIDContextKey)
	if userIDValue == nil {
		return uuid.UUID{}, ErrUnauthorized
	}

	userID, ok := userIDValue.(uuid.UUID)
	if !ok {
		return uuid.UUID{}, ErrUnauthorized
	}

	return userID, nil
}

// parseIDParam reads a uuid path parameter. ok is false when it is malformed.
func parseIDParam(c echo.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}

func isPasswordPolicyError(err error) bool {
	for _, target := range passwordPolicyErrors {
		if stderrors.Is(err, target) {
			return true
		}
	}
	return false
}

func getIntParam(c echo.Context, name string, defaultValue int) int {
	param := c.QueryParam(name)
	if param == "" {
		return defaultValue
	}

	var value int
	if _, err := fmt.Sscanf(param, "%d", &value); err != nil {
		return defaultValue
	}

	return value
}

func getClientIP(c echo.Context) string {
	xff := c.Request().Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	xri := c.Request().Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	return c.Request().RemoteAddr
}
