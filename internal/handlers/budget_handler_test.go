package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"fintrack/internal/dto"
	"fintrack/internal/services"
	"fintrack/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestBudgetHandler(t *testing.T) {
	suite.Run(t, new(BudgetHandlerSuite))
}

type BudgetHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *service_mocks.MockBudgetServiceInterface
	handler *BudgetHandler
	e       *echo.Echo
	userID  uuid.UUID
}

func (s *BudgetHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = service_mocks.NewMockBudgetServiceInterface(s.ctrl)
	s.handler = NewBudgetHandler(s.service)
	s.e = newTestEcho()
	s.userID = uuid.New()
}

func (s *BudgetHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *BudgetHandlerSuite) TestList() {
	s.service.EXPECT().List(gomock.Any(), s.userID).Return([]dto.BudgetResponse{
		{ID: uuid.NewString(), Category: dto.CategoryRef{Name: "Food"}, Limit: 300, Spent: 350, Exceeded: true},
	}, nil)

	c, rec := newJSONContext(s.e, http.MethodGet, "/api/budgets", nil, s.userID)

	s.Require().NoError(s.handler.ListBudgets(c))
	var got []dto.BudgetResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 1)
	s.Equal(350.0, got[0].Spent)
}

func (s *BudgetHandlerSuite) TestSummary() {
	s.service.EXPECT().Summary(gomock.Any(), s.userID).Return(&dto.BudgetSummaryResponse{TotalBudget: 1300, Spent: 1250, Remaining: 50}, nil)

	c, rec := newJSONContext(s.e, http.MethodGet, "/api/budgets/summary", nil, s.userID)

	s.Require().NoError(s.handler.GetSummary(c))
	s.JSONEq(`{"totalBudget":1300,"spent":1250,"remaining":50,"progress":0}`, rec.Body.String())
}

func (s *BudgetHandlerSuite) TestCreate_AlreadyExists() {
	s.service.EXPECT().Create(gomock.Any(), s.userID, gomock.Any()).Return(nil, services.ErrBudgetAlreadyExists)

	c, rec := newJSONContext(s.e, http.MethodPost, "/api/budgets", map[string]interface{}{
		"category": uuid.NewString(), "limit": 200,
	}, s.userID)

	s.Require().NoError(s.handler.CreateBudget(c))
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("BUDGET_002", errorCode(rec))
}

func (s *BudgetHandlerSuite) TestCreate_NonPositiveLimit() {
	c, _ := newJSONContext(s.e, http.MethodPost, "/api/budgets", map[string]interface{}{
		"category": uuid.NewString(), "limit": 0,
	}, s.userID)

	s.Error(s.handler.CreateBudget(c))
}

func (s *BudgetHandlerSuite) TestUpdate_CategoryLocked() {
	id := uuid.New()
	s.service.EXPECT().UpdateLimit(gomock.Any(), s.userID, id, gomock.Any()).Return(nil, services.ErrBudgetCategoryLocked)

	c, rec := newJSONContext(s.e, http.MethodPut, "/", map[string]interface{}{"limit": 500, "category": uuid.NewString()}, s.userID)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	s.Require().NoError(s.handler.UpdateBudget(c))
	s.Equal("BUDGET_005", errorCode(rec))
}

func (s *BudgetHandlerSuite) TestDelete_NotFound() {
	id := uuid.New()
	s.service.EXPECT().Delete(gomock.Any(), s.userID, id).Return(services.ErrBudgetNotFound)

	c, rec := newJSONContext(s.e, http.MethodDelete, "/", nil, s.userID)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	s.Require().NoError(s.handler.DeleteBudget(c))
	s.Equal(http.StatusNotFound, rec.Code)
}
