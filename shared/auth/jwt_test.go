package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	a := NewJWTAuthenticator("secret", "", "strive-blog", time.Hour)

	token, err := a.GenerateToken("65f0c0ffee", "a@x.com")
	require.NoError(t, err)

	claims, err := a.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "65f0c0ffee", claims.AuthorID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "65f0c0ffee", claims.Subject)
	assert.Equal(t, "strive-blog", claims.Issuer)
}

func TestValidateTokenRejects(t *testing.T) {
	a := NewJWTAuthenticator("secret", "", "strive-blog", time.Hour)
	valid, err := a.GenerateToken("id", "a@x.com")
	require.NoError(t, err)

	expired := NewJWTAuthenticator("secret", "", "strive-blog", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.GenerateToken("id", "a@x.com")
	require.NoError(t, err)

	otherIssuer, err := NewJWTAuthenticator("secret", "", "someone-else", time.Hour).GenerateToken("id", "a@x.com")
	require.NoError(t, err)

	otherSecret, err := NewJWTAuthenticator("other", "", "strive-blog", time.Hour).GenerateToken("id", "a@x.com")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"author_id": "id"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "expired", token: expiredToken},
		{name: "wrong issuer", token: otherIssuer},
		{name: "wrong secret", token: otherSecret},
		{name: "unsigned", token: noneToken},
		{name: "tampered", token: valid + "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.ValidateToken(tt.token)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}
