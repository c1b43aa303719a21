package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	require.NoError(t, err)
	b, err := GenerateSecret()
	require.NoError(t, err)

	assert.Len(t, a, SecretLength*2)
	assert.NotEqual(t, a, b)
}

func TestHashAndCheckSecret(t *testing.T) {
	secret, err := GenerateSecret()
	require.NoError(t, err)

	hashed, err := HashSecret(secret)
	require.NoError(t, err)

	assert.True(t, CheckSecret(hashed, secret))
	assert.False(t, CheckSecret(hashed, secret+"x"))
}

func TestHashSecret_TooShort(t *testing.T) {
	_, err := HashSecret("short")
	assert.Error(t, err)
}
