package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newJSONContext builds a request context, authenticated as userID unless it is uuid.Nil.
func newJSONContext(e *echo.Echo, method, target string, body interface{}, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(TraceIDContextKey, "trace-test")
	if userID != uuid.Nil {
		c.Set(UserIDContextKey, userID)
	}
	return c, rec
}

func errorCode(rec *httptest.ResponseRecorder) string {
	var resp ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return string(resp.Error.Code)
}
