package handlers

import (
	stderrors "errors"
	"net/http"

	"fintrack/internal/dto"
	"fintrack/internal/errors"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
)

type BudgetHandler struct {
	budgetService services.BudgetServiceInterface
}

func NewBudgetHandler(budgetService services.BudgetServiceInterface) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// ListBudgets returns every budget with spent derived from this month's expenses
// @Summary List budgets
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.BudgetResponse
// @Router /budgets [get]
func (h *BudgetHandler) ListBudgets(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgets, err := h.budgetService.List(c.Request().Context(), userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, budgets)
}

// GetSummary
// @Summary Budget totals for the current month
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.BudgetSummaryResponse
// @Router /budgets/summary [get]
func (h *BudgetHandler) GetSummary(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	summary, err := h.budgetService.Summary(c.Request().Context(), userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// CreateBudget
// @Summary Create budget
// @Tags Budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateBudgetRequest true "Budget"
// @Success 201 {object} dto.BudgetResponse
// @Failure 409 {object} errors.ErrorResponse "BUDGET_002 category already has a budget"
// @Router /budgets [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	budget, err := h.budgetService.Create(c.Request().Context(), userID, &req)
	if err != nil {
		return sendBudgetError(c, err)
	}

	return c.JSON(http.StatusCreated, budget)
}

// UpdateBudget changes the limit; the category cannot change
// @Summary Update budget limit
// @Tags Budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body dto.UpdateBudgetRequest true "Limit"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} errors.ErrorResponse "BUDGET_005 category locked"
// @Router /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, errors.BudgetInvalidID)
	}

	var req dto.UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	budget, err := h.budgetService.UpdateLimit(c.Request().Context(), userID, id, &req)
	if err != nil {
		return sendBudgetError(c, err)
	}

	return c.JSON(http.StatusOK, budget)
}

// DeleteBudget
// @Summary Delete budget
// @Tags Budgets
// @Security BearerAuth
// @Param id path string true "Budget ID"
// @Success 204
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, errors.BudgetInvalidID)
	}

	if err := h.budgetService.Delete(c.Request().Context(), userID, id); err != nil {
		return sendBudgetError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func sendBudgetError(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, services.ErrBudgetNotFound):
		return SendError(c, errors.BudgetNotFound)
	case stderrors.Is(err, services.ErrBudgetAlreadyExists):
		return SendError(c, errors.BudgetAlreadyExists)
	case stderrors.Is(err, services.ErrBudgetCategoryLocked):
		return SendError(c, errors.BudgetCategoryLocked)
	case stderrors.Is(err, services.ErrCategoryNotFound):
		return SendError(c, errors.BudgetInvalidCategory)
	case stderrors.Is(err, services.ErrInvalidDate):
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	}
	return SendSystemError(c, err)
}
