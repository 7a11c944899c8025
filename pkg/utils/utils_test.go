package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	HashCost = bcrypt.MinCost

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestGenerateRandomToken(t *testing.T) {
	a := GenerateRandomToken(16)
	b := GenerateRandomToken(16)
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
	assert.Len(t, GenerateRandomToken(7), 7)
}
