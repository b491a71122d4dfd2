package handlers

import (
	stderrors "errors"
	"net/http"

	"fintrack/internal/dto"
	"fintrack/internal/errors"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
)

const defaultDemoMonths = 6

// DevHandler handles development-only endpoints. Routes registers it only
// outside production.
type DevHandler struct {
	seedService services.SeedServiceInterface
}

func NewDevHandler(seedService services.SeedServiceInterface) *DevHandler {
	return &DevHandler{seedService: seedService}
}

// GenerateDemoData fills the caller's ledger with generated transactions and budgets
//
// Method: POST /api/dev/demo-data
// Body: {"months": 1..24}, default 6
//
// Success Response: 201 Created with the number of rows written
func (h *DevHandler) GenerateDemoData(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.SeedRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
		}
		if err := c.Validate(req); err != nil {
			return err
		}
	}
	if req.Months == 0 {
		req.Months = defaultDemoMonths
	}

	result, err := h.seedService.Seed(c.Request().Context(), userID, req.Months, nil)
	if err != nil {
		if stderrors.Is(err, services.ErrInvalidSeedMonths) {
			return SendError(c, errors.ValidationOutOfRange, errors.WithDetails(err.Error()))
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    result,
		Message: "Demo data generated",
	})
}
