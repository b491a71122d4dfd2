package services

import (
	"context"
	"log/slog"
	"time"

	"fintrack/internal/logging"

	"github.com/google/uuid"
)

// AuditLogger writes data-change and security events to the application log.
// Login and account events additionally go to the audit_logs table.
type AuditLogger struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewAuditLogger(logger *slog.Logger) AuditLoggerInterface {
	return &AuditLogger{
		logger: logger,
		now:    time.Now,
	}
}

func (al *AuditLogger) LogTransactionWritten(ctx context.Context, userID, transactionID uuid.UUID, operation string) {
	al.logger.InfoContext(ctx, "transaction written",
		slog.String("event_type", "transaction_"+operation),
		slog.String(logging.KeyUserID, userID.String()),
		slog.String("transaction_id", transactionID.String()),
		slog.Time("timestamp", al.now()),
		slog.String(logging.KeyTraceID, logging.TraceIDFromContext(ctx)),
	)
}

func (al *AuditLogger) LogBudgetExceeded(ctx context.Context, userID, budgetID uuid.UUID, limit, spent string) {
	al.logger.WarnContext(ctx, "budget exceeded",
		slog.String("event_type", "budget_exceeded"),
		slog.String(logging.KeyUserID, userID.String()),
		slog.String("budget_id", budgetID.String()),
		slog.String("limit", limit),
		slog.String("spent", spent),
		slog.Time("timestamp", al.now()),
		slog.String(logging.KeyTraceID, logging.TraceIDFromContext(ctx)),
	)
}

func (al *AuditLogger) LogCategoryChanged(ctx context.Context, userID, categoryID uuid.UUID, operation string) {
	al.logger.InfoContext(ctx, "category changed",
		slog.String("event_type", "category_"+operation),
		slog.String(logging.KeyUserID, userID.String()),
		slog.String("category_id", categoryID.String()),
		slog.Time("timestamp", al.now()),
		slog.String(logging.KeyTraceID, logging.TraceIDFromContext(ctx)),
	)
}

func (al *AuditLogger) LogSecurityEvent(ctx context.Context, eventType string, userID uuid.UUID, details map[string]interface{}) {
	attrs := []slog.Attr{
		slog.String("event_type", eventType),
		slog.String(logging.KeyUserID, userID.String()),
		slog.Time("timestamp", al.now()),
		slog.String(logging.KeyTraceID, logging.TraceIDFromContext(ctx)),
	}
	for k, v := range details {
		attrs = append(attrs, slog.Any(k, v))
	}

	al.logger.LogAttrs(ctx, slog.LevelWarn, "security event", attrs...)
}
