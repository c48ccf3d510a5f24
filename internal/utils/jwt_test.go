package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManagerIssueAndValidate(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Issue("user-1", "owner@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
}

func TestJWTManagerRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).Issue("user-1", "a@b.c")
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", time.Hour).Validate(token)
	assert.Error(t, err)
}

func TestJWTManagerRejectsExpiredToken(t *testing.T) {
	token, err := NewJWTManager("secret", -time.Minute).Issue("user-1", "a@b.c")
	require.NoError(t, err)

	_, err = NewJWTManager("secret", -time.Minute).Validate(token)
	assert.Error(t, err)
}
