package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthLoginAndValidate(t *testing.T) {
	s := NewAuthService()

	resp, err := s.Login("admin", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.ClientID)

	claims, err := s.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ClientID, claims.ClientID)
}

func TestAuthLoginBadCredentials(t *testing.T) {
	s := NewAuthService()
	_, err := s.Login("admin", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthValidateGarbageToken(t *testing.T) {
	s := NewAuthService()
	_, err := s.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
