package security

import (
	"errors"

	"github.com/matthewhartstonge/argon2"
)

var ErrEmptyPassword = errors.New("password is empty")

// HashPassword returns the argon2id encoded hash of password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	cfg := argon2.DefaultConfig()

	encoded, err := cfg.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword reports whether password matches the encoded hash. Accounts created
// through an OAuth provider have no hash and never verify.
func VerifyPassword(password, encoded string) (bool, error) {
	if encoded == "" || password == "" {
		return false, nil
	}

	return argon2.VerifyEncoded([]byte(password), []byte(encoded))
}
