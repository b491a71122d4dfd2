package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/internal/logging"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observedTrace struct {
	echoValue string
	ctxValue  string
}

func serveWithRequestID(t *testing.T, incoming string) (observedTrace, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/overview", nil)
	if incoming != "" {
		req.Header.Set(TraceIDHeader, incoming)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	var seen observedTrace
	err := RequestID()(func(c echo.Context) error {
		seen.echoValue = GetTraceID(c)
		seen.ctxValue = logging.TraceIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return seen, rec
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	seen, rec := serveWithRequestID(t, "")

	_, err := uuid.Parse(seen.echoValue)
	require.NoError(t, err)
	assert.Equal(t, seen.echoValue, seen.ctxValue)
	assert.Equal(t, seen.echoValue, rec.Header().Get(TraceIDHeader))
}

func TestRequestID_KeepsIncomingHeader(t *testing.T) {
	seen, rec := serveWithRequestID(t, "client-trace-42")

	assert.Equal(t, observedTrace{echoValue: "client-trace-42", ctxValue: "client-trace-42"}, seen)
	assert.Equal(t, "client-trace-42", rec.Header().Get(TraceIDHeader))
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	first, _ := serveWithRequestID(t, "")
	second, _ := serveWithRequestID(t, "")

	assert.NotEqual(t, first.echoValue, second.echoValue)
}

func TestGetTraceID_Unset(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Empty(t, GetTraceID(c))

	c.Set(TraceIDContextKey, 123)
	assert.Empty(t, GetTraceID(c))
}
