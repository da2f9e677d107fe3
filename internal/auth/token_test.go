package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("signing-secret", time.Hour)

	token, expiresAt, err := tm.GenerateToken("comtooin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "comtooin", claims.AdminID)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "comtooin", claims.Subject)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", time.Hour).GenerateToken("comtooin")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("signing-secret", time.Millisecond)

	token, _, err := tm.GenerateToken("comtooin")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("signing-secret", time.Hour)

	_, err := tm.ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestZeroTTLDefaultsToEightHours(t *testing.T) {
	tm := NewTokenManager("signing-secret", 0)

	_, expiresAt, err := tm.GenerateToken("comtooin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), expiresAt, time.Minute)
}
