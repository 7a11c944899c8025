package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	id := uuid.New()
	signed, err := GenerateJWT(id, "field_manager", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(signed, "secret")
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "field_manager", claims.Role)
	assert.Equal(t, id.String(), claims.Subject)
}

func TestValidateRejects(t *testing.T) {
	id := uuid.New()

	expired, err := GenerateJWT(id, "user", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateJWT(expired, "secret")
	assert.ErrorContains(t, err, "expired")

	signed, err := GenerateJWT(id, "user", "secret", time.Hour)
	require.NoError(t, err)
	_, err = ValidateJWT(signed, "other-secret")
	assert.ErrorContains(t, err, "signature")

	_, err = ValidateJWT("", "secret")
	assert.Error(t, err)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    issuer,
		},
	})
	s, err := noUser.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ValidateJWT(s, "secret")
	assert.ErrorContains(t, err, "userId")
}
