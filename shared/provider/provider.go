package provider

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrExchangeFailed  = errors.New("failed to exchange authorization code")
	ErrNoVerifiedEmail = errors.New("provider account has no verified email")
)

// Identity is the subset of a provider profile needed to find or create an author.
type Identity struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
	Surname    string
	AvatarURL  string
}

// Provider runs the authorization code flow against one identity provider.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Identify(ctx context.Context, code string) (*Identity, error)
}

// OAuthConfig holds the client registration of a provider.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
}

// Enabled reports whether the provider has client credentials.
func (c OAuthConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// splitName splits a display name into given name and the rest.
func splitName(full string) (string, string) {
	fields := strings.Fields(full)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}
