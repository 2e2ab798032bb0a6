package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by every bearer token, regardless of whether the
// author signed in with a password or through an OAuth provider.
type Claims struct {
	AuthorID string `json:"author_id"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// JWTAuthenticator represents a JWT based authenticator.
type JWTAuthenticator struct {
	secret    []byte
	audience  string
	issuer    string
	expiresIn time.Duration
	now       func() time.Time
}

// NewJWTAuthenticator creates a new JWTAuthenticator instance. The issuer doubles as
// the audience when audience is empty.
func NewJWTAuthenticator(secret, audience, issuer string, expiresIn time.Duration) *JWTAuthenticator {
	if audience == "" {
		audience = issuer
	}

	return &JWTAuthenticator{
		secret:    []byte(secret),
		audience:  audience,
		issuer:    issuer,
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

// GenerateToken signs an HS256 token for the given author.
func (a *JWTAuthenticator) GenerateToken(authorID, email string) (string, error) {
	now := a.now()
	claims := Claims{
		AuthorID: authorID,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   authorID,
			Issuer:    a.issuer,
			Audience:  jwt.ClaimStrings{a.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenStr, nil
}

// ValidateToken parses the token and returns its claims. Expiry, issuer and
// audience are mandatory.
func (a *JWTAuthenticator) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return a.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithAudience(a.audience),
		jwt.WithIssuer(a.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.AuthorID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
