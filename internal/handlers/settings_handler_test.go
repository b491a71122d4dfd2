package handlers

import (
	"errors"
	"net/http"
	"testing"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestSettingsHandler(t *testing.T) {
	suite.Run(t, new(SettingsHandlerSuite))
}

type SettingsHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *service_mocks.MockSettingsServiceInterface
	handler *SettingsHandler
	e       *echo.Echo
	userID  uuid.UUID
}

func (s *SettingsHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = service_mocks.NewMockSettingsServiceInterface(s.ctrl)
	s.handler = NewSettingsHandler(s.service)
	s.e = newTestEcho()
	s.userID = uuid.New()
}

func (s *SettingsHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *SettingsHandlerSuite) TestGetPreferences() {
	s.service.EXPECT().GetPreferences(s.userID).Return(&models.Preferences{
		UserID: s.userID, Theme: "dark", DateFormat: "YYYY-MM-DD", Language: "en", StartOfWeek: "monday", Currency: "EUR",
	}, nil)

	c, rec := newJSONContext(s.e, http.MethodGet, "/api/preferences", nil, s.userID)

	s.Require().NoError(s.handler.GetPreferences(c))
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"theme":"dark","dateFormat":"YYYY-MM-DD","compactView":false,"language":"en","startOfWeek":"monday","currency":"EUR"}`, rec.Body.String())
}

func (s *SettingsHandlerSuite) TestUpdatePreferences() {
	req := dto.PreferencesRequest{Theme: "light", DateFormat: "DD/MM/YYYY", CompactView: true, Language: "de", StartOfWeek: "sunday", Currency: "CHF"}
	s.service.EXPECT().UpdatePreferences(s.userID, &req).Return(&models.Preferences{
		Theme: req.Theme, DateFormat: req.DateFormat, CompactView: true, Language: "de", StartOfWeek: "sunday", Currency: "CHF",
	}, nil)

	c, rec := newJSONContext(s.e, http.MethodPut, "/api/preferences", req, s.userID)

	s.Require().NoError(s.handler.UpdatePreferences(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"currency":"CHF"`)
}

func (s *SettingsHandlerSuite) TestUpdatePreferences_InvalidTheme() {
	c, _ := newJSONContext(s.e, http.MethodPut, "/api/preferences", dto.PreferencesRequest{
		Theme: "neon", DateFormat: "DD/MM/YYYY", Language: "en", StartOfWeek: "monday", Currency: "USD",
	}, s.userID)

	s.Error(s.handler.UpdatePreferences(c))
}

func (s *SettingsHandlerSuite) TestUpdateNotifications() {
	req := dto.NotificationsRequest{BudgetAlerts: true, MonthlyReport: true}
	s.service.EXPECT().UpdateNotifications(s.userID, &req).Return(&models.NotificationSettings{BudgetAlerts: true, MonthlyReport: true}, nil)

	c, rec := newJSONContext(s.e, http.MethodPut, "/api/notifications", req, s.userID)

	s.Require().NoError(s.handler.UpdateNotifications(c))
	s.JSONEq(`{"budgetAlerts":true,"monthlyReport":true,"unusualActivity":false,"newFeatures":false,"marketingEmails":false}`, rec.Body.String())
}

func (s *SettingsHandlerSuite) TestGetNotifications_ServiceError() {
	s.service.EXPECT().GetNotifications(s.userID).Return(nil, errors.New("boom"))

	c, rec := newJSONContext(s.e, http.MethodGet, "/api/notifications", nil, s.userID)

	s.Require().NoError(s.handler.GetNotifications(c))
	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *SettingsHandlerSuite) TestUnauthenticated() {
	c, rec := newJSONContext(s.e, http.MethodGet, "/api/preferences", nil, uuid.Nil)

	s.Require().NoError(s.handler.GetPreferences(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
}
