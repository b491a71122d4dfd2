package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWithRecovery(traceID string, h echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/transactions", nil), rec)
	if traceID != "" {
		c.Set(TraceIDContextKey, traceID)
	}
	return rec, PanicRecovery()(h)(c)
}

func TestPanicRecovery(t *testing.T) {
	tests := []struct {
		name        string
		traceID     string
		panicWith   interface{}
		wantTraceID string
	}{
		{name: "string", traceID: "trace-1", panicWith: "boom", wantTraceID: "trace-1"},
		{name: "error value", traceID: "trace-2", panicWith: assert.AnError, wantTraceID: "trace-2"},
		{name: "nil panic", traceID: "trace-3", panicWith: nil, wantTraceID: "trace-3"},
		{name: "no trace id", panicWith: 42, wantTraceID: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			require.NotPanics(t, func() {
				rec, _ = runWithRecovery(tt.traceID, func(echo.Context) error { panic(tt.panicWith) })
			})

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			var body errors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "SYSTEM_001", body.Error.Code)
			assert.Equal(t, tt.wantTraceID, body.Error.TraceID)
			assert.NotContains(t, rec.Body.String(), "boom")
		})
	}
}

func TestPanicRecovery_PassesThrough(t *testing.T) {
	rec, err := runWithRecovery("trace", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPanicRecovery_CommittedResponseUntouched(t *testing.T) {
	rec, err := runWithRecovery("trace", func(c echo.Context) error {
		_ = c.String(http.StatusCreated, "partial")
		panic("late failure")
	})

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}

func TestPanicRecovery_AbortHandlerRepanics(t *testing.T) {
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		_, _ = runWithRecovery("trace", func(echo.Context) error { panic(http.ErrAbortHandler) })
	})
}
