package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestGenerateAndValidateAccessToken(t *testing.T) {
	token, err := GenerateAccessToken(42, "asha@example.com", "Asha Verma", "FIELD_ENGINEER", testSecret, 7)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "FIELD_ENGINEER", claims.Role)
	assert.Equal(t, "nirman-fieldworks", claims.Issuer)
	assert.NotEmpty(t, claims.ID, "each token carries a unique jti")
}

func TestValidateAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@b.co", "A", "ADMIN", testSecret, 7)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "a-different-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@b.co", "A", "ADMIN", testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateAccessTokenGarbage(t *testing.T) {
	_, err := ValidateAccessToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
