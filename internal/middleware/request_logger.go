package middleware

import (
	"log/slog"
	"time"

	"fintrack/internal/handlers"
	"fintrack/internal/logging"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestLogger logs one line per request after the handler ran.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	logger = logging.WithComponent(logger, "http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.String("route", c.Path()),
				slog.Int("status", status),
				slog.Int64(logging.KeyDuration, time.Since(start).Milliseconds()),
				slog.String(logging.KeyTraceID, GetTraceID(c)),
				slog.String("remote_ip", c.RealIP()),
			}
			if userID, ok := c.Get(handlers.UserIDContextKey).(uuid.UUID); ok {
				attrs = append(attrs, slog.String(logging.KeyUserID, userID.String()))
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)

			return nil
		}
	}
}
