package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerSuite))
}

type TransactionHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *service_mocks.MockTransactionServiceInterface
	handler *TransactionHandler
	e       *echo.Echo
	userID  uuid.UUID
}

func (s *TransactionHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = service_mocks.NewMockTransactionServiceInterface(s.ctrl)
	s.handler = NewTransactionHandler(s.service)
	s.e = newTestEcho()
	s.userID = uuid.New()
}

func (s *TransactionHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *TransactionHandlerSuite) transaction() *models.Transaction {
	categoryID := uuid.New()
	return &models.Transaction{
		ID:          uuid.New(),
		UserID:      s.userID,
		Date:        time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Description: "Coffee",
		Type:        models.TransactionTypeExpense,
		Amount:      decimal.RequireFromString("4.50"),
		CategoryID:  &categoryID,
		Category:    &models.Category{ID: categoryID, Name: "Food", Color: "#F87171"},
	}
}

func (s *TransactionHandlerSuite) TestList_PassesQuery() {
	tx := s.transaction()
	s.service.EXPECT().List(gomock.Any(), s.userID, gomock.Any()).
		DoAndReturn(func(_ interface{}, _ uuid.UUID, q *dto.TransactionListQuery) ([]models.Transaction, error) {
			s.Equal("2024-03-01", q.StartDate)
			s.Equal("expense", q.Type)
			s.Equal("Amount (High to Low)", q.Sort)
			return []models.Transaction{*tx}, nil
		})

	c, rec := newJSONContext(s.e, http.MethodGet, "/api/transactions?startDate=2024-03-01&type=expense&sort=Amount%20(High%20to%20Low)", nil, s.userID)

	s.Require().NoError(s.handler.ListTransactions(c))
	s.Equal(http.StatusOK, rec.Code)

	var got []dto.TransactionResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 1)
	s.Equal(4.5, got[0].Amount)
	s.Equal("Food", got[0].Category.Name)
}

func (s *TransactionHandlerSuite) TestList_EmptyIsArray() {
	s.service.EXPECT().List(gomock.Any(), s.userID, gomock.Any()).Return(nil, nil)

	c, rec := newJSONContext(s.e, http.MethodGet, "/api/transactions", nil, s.userID)

	s.Require().NoError(s.handler.ListTransactions(c))
	s.JSONEq("[]", rec.Body.String())
}

func (s *TransactionHandlerSuite) TestList_BadDate() {
	s.service.EXPECT().List(gomock.Any(), s.userID, gomock.Any()).
		Return(nil, fmt.Errorf("%w: startDate %q", services.ErrInvalidDate, "yesterday"))
	c, rec := newJSONContext(s.e, http.MethodGet, "/api/transactions?startDate=yesterday", nil, s.userID)

	s.Require().NoError(s.handler.ListTransactions(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_007", errorCode(rec))
}

func (s *TransactionHandlerSuite) TestList_UnmatchableFiltersAreEmpty() {
	s.service.EXPECT().List(gomock.Any(), s.userID, gomock.Any()).
		DoAndReturn(func(_ interface{}, _ uuid.UUID, q *dto.TransactionListQuery) ([]models.Transaction, error) {
			s.Equal("Food", q.Category)
			s.Equal("transfer", q.Type)
			return []models.Transaction{}, nil
		})
	c, rec := newJSONContext(s.e, http.MethodGet, "/api/transactions?category=Food&type=transfer", nil, s.userID)

	s.Require().NoError(s.handler.ListTransactions(c))
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq("[]", rec.Body.String())
}

func (s *TransactionHandlerSuite) TestList_Unauthenticated() {
	c, rec := newJSONContext(s.e, http.MethodGet, "/api/transactions", nil, uuid.Nil)

	s.Require().NoError(s.handler.ListTransactions(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *TransactionHandlerSuite) TestCreate() {
	tx := s.transaction()
	s.service.EXPECT().Create(gomock.Any(), s.userID, gomock.Any()).
		DoAndReturn(func(_ interface{}, _ uuid.UUID, req *dto.TransactionRequest) (*models.Transaction, error) {
			s.True(req.Amount.Equal(decimal.RequireFromString("4.5")))
			return tx, nil
		})

	c, rec := newJSONContext(s.e, http.MethodPost, "/api/transactions", map[string]interface{}{
		"date": "2024-03-02", "description": "Coffee", "type": "expense", "amount": "4.5",
		"category": tx.CategoryID.String(),
	}, s.userID)

	s.Require().NoError(s.handler.CreateTransaction(c))
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *TransactionHandlerSuite) TestCreate_ServiceErrors() {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrCategoryNotFound, http.StatusUnprocessableEntity, "TRANSACTION_004"},
		{services.ErrDuplicateTransaction, http.StatusConflict, "TRANSACTION_007"},
		{services.ErrInvalidTransactionType, http.StatusBadRequest, "TRANSACTION_006"},
	}
	for _, tc := range cases {
		s.service.EXPECT().Create(gomock.Any(), s.userID, gomock.Any()).Return(nil, tc.err)
		c, rec := newJSONContext(s.e, http.MethodPost, "/api/transactions", map[string]interface{}{
			"date": "2024-03-02", "description": "Coffee", "type": "expense", "amount": 4.5,
		}, s.userID)

		s.Require().NoError(s.handler.CreateTransaction(c))
		s.Equal(tc.status, rec.Code, tc.code)
		s.Equal(tc.code, errorCode(rec))
	}
}

func (s *TransactionHandlerSuite) TestCreate_InvalidBody() {
	c, _ := newJSONContext(s.e, http.MethodPost, "/api/transactions", map[string]interface{}{
		"description": "Coffee", "type": "gift", "amount": -1,
	}, s.userID)

	s.Error(s.handler.CreateTransaction(c))
}

func (s *TransactionHandlerSuite) TestGet_NotFound() {
	id := uuid.New()
	s.service.EXPECT().Get(gomock.Any(), s.userID, id).Return(nil, services.ErrTransactionNotFound)

	c, rec := newJSONContext(s.e, http.MethodGet, "/", nil, s.userID)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	s.Require().NoError(s.handler.GetTransaction(c))
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("TRANSACTION_001", errorCode(rec))
}

func (s *TransactionHandlerSuite) TestGet_InvalidID() {
	c, rec := newJSONContext(s.e, http.MethodGet, "/", nil, s.userID)
	c.SetParamNames("id")
	c.SetParamValues("42")

	s.Require().NoError(s.handler.GetTransaction(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("TRANSACTION_003", errorCode(rec))
}

func (s *TransactionHandlerSuite) TestUpdate() {
	tx := s.transaction()
	s.service.EXPECT().Update(gomock.Any(), s.userID, tx.ID, gomock.Any()).Return(tx, nil)

	c, rec := newJSONContext(s.e, http.MethodPut, "/", map[string]interface{}{
		"date": "2024-03-02", "description": "Coffee", "type": "expense", "amount": 4.5,
	}, s.userID)
	c.SetParamNames("id")
	c.SetParamValues(tx.ID.String())

	s.Require().NoError(s.handler.UpdateTransaction(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *TransactionHandlerSuite) TestDelete() {
	id := uuid.New()
	s.service.EXPECT().Delete(gomock.Any(), s.userID, id).Return(nil)

	c, rec := newJSONContext(s.e, http.MethodDelete, "/", nil, s.userID)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	s.Require().NoError(s.handler.DeleteTransaction(c))
	s.Equal(http.StatusNoContent, rec.Code)
	s.Empty(rec.Body.String())
}
