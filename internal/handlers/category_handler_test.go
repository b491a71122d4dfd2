package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestCategoryHandler(t *testing.T) {
	suite.Run(t, new(CategoryHandlerSuite))
}

type CategoryHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *service_mocks.MockCategoryServiceInterface
	handler *CategoryHandler
	e       *echo.Echo
	userID  uuid.UUID
}

func (s *CategoryHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = service_mocks.NewMockCategoryServiceInterface(s.ctrl)
	s.handler = NewCategoryHandler(s.service)
	s.e = newTestEcho()
	s.userID = uuid.New()
}

func (s *CategoryHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CategoryHandlerSuite) TestList() {
	s.service.EXPECT().List(gomock.Any(), s.userID).Return([]models.Category{
		{ID: uuid.New(), Name: "Food", Color: "#F87171", Icon: "🍔"},
	}, nil)

	c, rec := newJSONContext(s.e, http.MethodGet, "/api/categories", nil, s.userID)

	s.Require().NoError(s.handler.ListCategories(c))
	var got []dto.CategoryResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 1)
	s.Equal("🍔", got[0].Icon)
}

func (s *CategoryHandlerSuite) TestCreate() {
	s.service.EXPECT().Create(gomock.Any(), s.userID, &dto.CategoryRequest{Name: "Pets", Color: "#aabbcc"}).
		Return(&models.Category{ID: uuid.New(), Name: "Pets", Color: "#aabbcc", Icon: "📌"}, nil)

	c, rec := newJSONContext(s.e, http.MethodPost, "/api/categories", map[string]string{"name": "Pets", "color": "#aabbcc"}, s.userID)

	s.Require().NoError(s.handler.CreateCategory(c))
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *CategoryHandlerSuite) TestCreate_BadColor() {
	c, _ := newJSONContext(s.e, http.MethodPost, "/api/categories", map[string]string{"name": "Pets", "color": "red"}, s.userID)

	s.Error(s.handler.CreateCategory(c))
}

func (s *CategoryHandlerSuite) TestCreate_Duplicate() {
	s.service.EXPECT().Create(gomock.Any(), s.userID, gomock.Any()).Return(nil, services.ErrCategoryAlreadyExists)

	c, rec := newJSONContext(s.e, http.MethodPost, "/api/categories", map[string]string{"name": "Food"}, s.userID)

	s.Require().NoError(s.handler.CreateCategory(c))
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("CATEGORY_002", errorCode(rec))
}

func (s *CategoryHandlerSuite) TestUpdate_NotFound() {
	id := uuid.New()
	s.service.EXPECT().Update(gomock.Any(), s.userID, id, gomock.Any()).Return(nil, services.ErrCategoryNotFound)

	c, rec := newJSONContext(s.e, http.MethodPut, "/", map[string]string{"name": "Food"}, s.userID)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	s.Require().NoError(s.handler.UpdateCategory(c))
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *CategoryHandlerSuite) TestDelete_InUse() {
	id := uuid.New()
	s.service.EXPECT().Delete(gomock.Any(), s.userID, id).
		Return(fmt.Errorf("%w: 3 transactions, 0 budgets", services.ErrCategoryInUse))

	c, rec := newJSONContext(s.e, http.MethodDelete, "/", nil, s.userID)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	s.Require().NoError(s.handler.DeleteCategory(c))
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("CATEGORY_003", errorCode(rec))
	s.Contains(rec.Body.String(), "3 transactions")
}

func (s *CategoryHandlerSuite) TestDelete() {
	id := uuid.New()
	s.service.EXPECT().Delete(gomock.Any(), s.userID, id).Return(nil)

	c, rec := newJSONContext(s.e, http.MethodDelete, "/", nil, s.userID)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	s.Require().NoError(s.handler.DeleteCategory(c))
	s.Equal(http.StatusNoContent, rec.Code)
}
