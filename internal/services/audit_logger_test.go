package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"fintrack/internal/logging"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestAuditLogger_TransactionWrittenCarriesTraceID(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	userID, txID := uuid.New(), uuid.New()
	ctx := logging.ContextWithTraceID(context.Background(), "trace-123")

	al.LogTransactionWritten(ctx, userID, txID, "create")

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "transaction written", entry["msg"])
	assert.Equal(t, "transaction_create", entry["event_type"])
	assert.Equal(t, userID.String(), entry[logging.KeyUserID])
	assert.Equal(t, txID.String(), entry["transaction_id"])
	assert.Equal(t, "trace-123", entry[logging.KeyTraceID])
}

func TestAuditLogger_BudgetExceededIsWarning(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	al.LogBudgetExceeded(context.Background(), uuid.New(), uuid.New(), "300.00", "350.00")

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "350.00", entry["spent"])
}

func TestAuditLogger_SecurityEventDetails(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	al.LogSecurityEvent(context.Background(), "token_revoked", uuid.New(), map[string]interface{}{"path": "/api/transactions"})

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "token_revoked", entry["event_type"])
	assert.Equal(t, "/api/transactions", entry["path"])
}
