package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/finance"
	"fintrack/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestAnalyticsHandler(t *testing.T) {
	suite.Run(t, new(AnalyticsHandlerSuite))
}

type AnalyticsHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *service_mocks.MockAnalyticsServiceInterface
	handler *AnalyticsHandler
	e       *echo.Echo
	userID  uuid.UUID
	summary *finance.Summary
}

func (s *AnalyticsHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = service_mocks.NewMockAnalyticsServiceInterface(s.ctrl)
	s.handler = NewAnalyticsHandler(s.service, 3)
	s.e = newTestEcho()
	s.userID = uuid.New()

	food := finance.CategorySpend{CategoryID: "food", Name: "Food", Color: "#F87171", Total: decimal.NewFromInt(350)}
	s.summary = &finance.Summary{
		Range: &finance.DateRange{
			Name:  "This year",
			Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		KPIs: finance.KPIs{
			TotalIncome:   decimal.NewFromInt(1000),
			TotalExpenses: decimal.NewFromInt(350),
			NetBalance:    decimal.NewFromInt(650),
			SavingsRate:   decimal.NewFromInt(65),
		},
		Monthly: []finance.MonthlyPoint{
			{Year: 2024, Month: time.January, Label: "Jan 2024", Income: decimal.NewFromInt(1000), Expenses: decimal.NewFromInt(200), Savings: decimal.NewFromInt(800)},
			{Year: 2024, Month: time.February, Label: "Feb 2024", Expenses: decimal.NewFromInt(150), Savings: decimal.NewFromInt(-150)},
		},
		Categories: []finance.CategorySpend{food},
		Top:        []finance.TopCategory{{CategorySpend: food, Percentage: decimal.NewFromInt(100)}},
	}
}

func (s *AnalyticsHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AnalyticsHandlerSuite) TestOverview_DefaultLimit() {
	s.service.EXPECT().Summarize(gomock.Any(), s.userID, "This year", 3).Return(s.summary, nil)

	c, rec := newJSONContext(s.e, http.MethodGet, "/api/analytics/overview?range=This%20year", nil, s.userID)

	s.Require().NoError(s.handler.Overview(c))
	s.Equal(http.StatusOK, rec.Code)

	var got dto.AnalyticsOverview
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Equal(65.0, got.KPIs.SavingsRate)
	s.Len(got.Monthly, 2)
	s.NotNil(got.Recent)
	s.Equal("This year", got.Range.Name)
}

func (s *AnalyticsHandlerSuite) TestMonthly() {
	s.service.EXPECT().Summarize(gomock.Any(), s.userID, "", 3).Return(s.summary, nil)

	c, rec := newJSONContext(s.e, http.MethodGet, "/api/analytics/monthly", nil, s.userID)

	s.Require().NoError(s.handler.Monthly(c))
	var got []dto.MonthlyPointResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 2)
	s.Equal("Jan 2024", got[0].Month)
}

func (s *AnalyticsHandlerSuite) TestTop_ExplicitLimit() {
	s.service.EXPECT().Summarize(gomock.Any(), s.userID, "90days", 5).Return(s.summary, nil)

	c, rec := newJSONContext(s.e, http.MethodGet, "/api/analytics/top?range=90days&limit=5", nil, s.userID)

	s.Require().NoError(s.handler.Top(c))
	var got []dto.TopCategoryResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 1)
	s.Equal(100.0, got[0].Percentage)
}

func (s *AnalyticsHandlerSuite) TestTop_LimitOutOfRange() {
	c, _ := newJSONContext(s.e, http.MethodGet, "/api/analytics/top?limit=500", nil, s.userID)

	s.Error(s.handler.Top(c))
}

func (s *AnalyticsHandlerSuite) TestSummary_ServiceError() {
	s.service.EXPECT().Summarize(gomock.Any(), s.userID, "", 3).Return(nil, errors.New("db down"))

	c, rec := newJSONContext(s.e, http.MethodGet, "/api/analytics/summary", nil, s.userID)

	s.Require().NoError(s.handler.Summary(c))
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "db down")
}

func (s *AnalyticsHandlerSuite) TestCategoriesAndBudgets() {
	s.service.EXPECT().Summarize(gomock.Any(), s.userID, "", 3).Return(s.summary, nil).Times(2)

	c, rec := newJSONContext(s.e, http.MethodGet, "/api/analytics/categories", nil, s.userID)
	s.Require().NoError(s.handler.Categories(c))
	s.Contains(rec.Body.String(), `"Food"`)

	c, rec = newJSONContext(s.e, http.MethodGet, "/api/analytics/budgets", nil, s.userID)
	s.Require().NoError(s.handler.Budgets(c))
	s.JSONEq("[]", rec.Body.String())
}
