package handlers

import (
	"log/slog"
	"net/http"

	"fintrack/internal/errors"
	"fintrack/internal/logging"

	"github.com/labstack/echo/v4"
)

// Handlers report failures through two helpers only:
//
//   - SendError for client and business errors (4xx), e.g.
//     SendError(c, errors.CategoryInUse, errors.WithDetails("..."))
//   - SendSystemError for repository and unexpected service errors (500);
//     the cause is logged and never sent to the client.

const (
	TraceIDContextKey   = "trace_id"
	UserIDContextKey    = "user_id"
	UserEmailContextKey = "user_email"
	UserRoleContextKey  = "user_role"
	TokenJTIContextKey  = "token_jti"
)

// SuccessResponse carries a message for endpoints without a resource body.
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ErrorResponse = errors.ErrorResponse

func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	errorResponse := errors.NewErrorResponse(code, getTraceID(c), opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError logs err and sends a generic 500.
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse, cause := errors.WrapSystemError(err, traceID)
	slog.ErrorContext(c.Request().Context(), "request failed",
		slog.String(logging.KeyTraceID, traceID),
		slog.String("path", c.Path()),
		logging.Err(cause),
	)
	return c.JSON(http.StatusInternalServerError, errorResponse)
}
