package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_RoundTrip(t *testing.T) {
	secret := []byte("secret")

	token, err := GenerateToken("alice", secret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	name, err := GetUserNameFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
}

func TestToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("alice", []byte("secret"), time.Hour)
	require.NoError(t, err)

	_, err = GetUserNameFromToken(token, []byte("other"))
	require.Error(t, err)
}

func TestToken_Expired(t *testing.T) {
	token, err := GenerateToken("alice", []byte("secret"), -time.Minute)
	require.NoError(t, err)

	_, err = GetUserNameFromToken(token, []byte("secret"))
	require.Error(t, err)
}
