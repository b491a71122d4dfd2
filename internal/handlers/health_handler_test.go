package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"fintrack/internal/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	db := database.SetupTestDB(t)

	c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/health", nil, uuid.Nil)

	require.NoError(t, NewHealthCheckHandler(db.DB, "1.2.3").HealthCheck(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
}

func TestHealthCheck_DatabaseClosed(t *testing.T) {
	db := database.SetupTestDB(t)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/health", nil, uuid.Nil)

	require.NoError(t, NewHealthCheckHandler(db.DB, "dev").HealthCheck(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "SYSTEM_003", errorCode(rec))
}
