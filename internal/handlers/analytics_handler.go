package handlers

import (
	"net/http"

	"fintrack/internal/dto"
	"fintrack/internal/errors"
	"fintrack/internal/finance"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
)

// AnalyticsHandler serves the dashboard aggregates. Every endpoint accepts
// range (a preset name, default "Last 30 days") and limit (top-N size).
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServiceInterface
	defaultTopN      int
}

func NewAnalyticsHandler(analyticsService services.AnalyticsServiceInterface, defaultTopN int) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		defaultTopN:      defaultTopN,
	}
}

// @Summary Full dashboard payload
// @Tags Analytics
// @Security BearerAuth
// @Produce json
// @Param range query string false "Range name" default(Last 30 days)
// @Param limit query int false "Top categories"
// @Success 200 {object} dto.AnalyticsOverview
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c echo.Context) error {
	return h.respond(c, func(s *finance.Summary) interface{} {
		return dto.NewAnalyticsOverview(s)
	})
}

// @Summary KPIs with change against the previous period
// @Tags Analytics
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.AnalyticsSummary
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	return h.respond(c, func(s *finance.Summary) interface{} {
		return dto.NewAnalyticsSummary(s)
	})
}

// @Summary Income, expenses and savings per month
// @Tags Analytics
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.MonthlyPointResponse
// @Router /analytics/monthly [get]
func (h *AnalyticsHandler) Monthly(c echo.Context) error {
	return h.respond(c, func(s *finance.Summary) interface{} {
		return dto.NewMonthlySeries(s.Monthly)
	})
}

// @Summary Expenses per category
// @Tags Analytics
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.CategorySpendResponse
// @Router /analytics/categories [get]
func (h *AnalyticsHandler) Categories(c echo.Context) error {
	return h.respond(c, func(s *finance.Summary) interface{} {
		return dto.NewCategorySpendList(s.Categories)
	})
}

// @Summary Budget limits against this month's spending
// @Tags Analytics
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.BudgetComparisonResponse
// @Router /analytics/budgets [get]
func (h *AnalyticsHandler) Budgets(c echo.Context) error {
	return h.respond(c, func(s *finance.Summary) interface{} {
		return dto.NewBudgetComparisonList(s.Budgets)
	})
}

// @Summary Top spending categories
// @Tags Analytics
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.TopCategoryResponse
// @Router /analytics/top [get]
func (h *AnalyticsHandler) Top(c echo.Context) error {
	return h.respond(c, func(s *finance.Summary) interface{} {
		return dto.NewTopCategoryList(s.Top)
	})
}

func (h *AnalyticsHandler) respond(c echo.Context, render func(*finance.Summary) interface{}) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.AnalyticsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(query); err != nil {
		return err
	}
	if query.Limit == 0 {
		query.Limit = h.defaultTopN
	}

	summary, err := h.analyticsService.Summarize(c.Request().Context(), userID, query.Range, query.Limit)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, render(summary))
}
