package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshToken_Validity(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		token RefreshToken
		valid bool
	}{
		{"valid token", RefreshToken{ExpiresAt: now.Add(time.Hour)}, true},
		{"expired token", RefreshToken{ExpiresAt: now.Add(-time.Hour)}, false},
		{"revoked token", RefreshToken{ExpiresAt: now.Add(time.Hour), RevokedAt: &now}, false},
	}

	for i := range tests {
		tt := &tests[i]
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.token.IsValid())
		})
	}
}

func TestRefreshToken_Revoke(t *testing.T) {
	token := RefreshToken{ExpiresAt: time.Now().Add(time.Hour)}
	token.Revoke()
	assert.True(t, token.IsRevoked())
	assert.False(t, token.IsValid())
}

func TestTokens_BeforeCreate(t *testing.T) {
	rt := RefreshToken{UserID: uuid.New()}
	require.NoError(t, rt.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, rt.ID)
	assert.NotZero(t, rt.CreatedAt)

	bt := BlacklistedToken{JTI: "jti", UserID: uuid.New(), ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, bt.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, bt.ID)
	assert.NotZero(t, bt.BlacklistedAt)
	assert.True(t, bt.IsExpired())
}
