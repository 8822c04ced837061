package utils_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/utils"
)

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, utils.CheckPassword(hash, "secret123"))
	assert.False(t, utils.CheckPassword(hash, "wrong"))
}

func TestSignJWT(t *testing.T) {
	tokenStr, err := utils.SignJWT("test-secret", "11111111-1111-1111-1111-111111111111", "client", 60)
	require.NoError(t, err)

	token, err := jwt.ParseWithClaims(tokenStr, &utils.Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(*utils.Claims)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", claims.UserID)
	assert.Equal(t, "client", claims.Role)

	// secret salah harus gagal
	_, err = jwt.ParseWithClaims(tokenStr, &utils.Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}
