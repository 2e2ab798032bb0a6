package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newGitHubServer(t *testing.T, user githubUser, emails []githubEmail) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "gh-token",
			"token_type":   "bearer",
		})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer gh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(user)
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(emails)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func newTestGitHubProvider(srv *httptest.Server) *GitHubOAuthProvider {
	p := NewGitHubOAuthProvider(OAuthConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/callback",
	})
	p.config.Endpoint = oauth2.Endpoint{
		AuthURL:   srv.URL + "/authorize",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	p.apiBaseURL = srv.URL

	return p
}

func TestGitHubIdentify(t *testing.T) {
	srv := newGitHubServer(t, githubUser{
		ID:        42,
		Login:     "octo",
		Name:      "Mona Lisa Octocat",
		Email:     "mona@example.com",
		AvatarURL: "https://avatars.example.com/42",
	}, nil)

	identity, err := newTestGitHubProvider(srv).Identify(context.Background(), "code")
	require.NoError(t, err)

	assert.Equal(t, &Identity{
		Provider:   "github",
		ProviderID: "42",
		Email:      "mona@example.com",
		Name:       "Mona",
		Surname:    "Lisa Octocat",
		AvatarURL:  "https://avatars.example.com/42",
	}, identity)
}

func TestGitHubIdentifyFallsBackToPrimaryEmail(t *testing.T) {
	srv := newGitHubServer(t, githubUser{ID: 7, Login: "ghost"}, []githubEmail{
		{Email: "old@example.com", Verified: true},
		{Email: "primary@example.com", Primary: true, Verified: true},
	})

	identity, err := newTestGitHubProvider(srv).Identify(context.Background(), "code")
	require.NoError(t, err)

	assert.Equal(t, "primary@example.com", identity.Email)
	assert.Equal(t, "ghost", identity.Name)
	assert.Empty(t, identity.Surname)
}

func TestGitHubIdentifyWithoutVerifiedEmail(t *testing.T) {
	srv := newGitHubServer(t, githubUser{ID: 7, Login: "ghost"}, []githubEmail{
		{Email: "unverified@example.com", Primary: true},
	})

	_, err := newTestGitHubProvider(srv).Identify(context.Background(), "code")
	assert.ErrorIs(t, err, ErrNoVerifiedEmail)
}

func TestAuthCodeURLCarriesState(t *testing.T) {
	cfg := OAuthConfig{ClientID: "client", ClientSecret: "secret", RedirectURL: "http://localhost/cb"}

	for _, p := range []Provider{NewGoogleOAuthProvider(cfg), NewGitHubOAuthProvider(cfg)} {
		t.Run(p.Name(), func(t *testing.T) {
			u, err := url.Parse(p.AuthCodeURL("random-state"))
			require.NoError(t, err)

			q := u.Query()
			assert.Equal(t, "random-state", q.Get("state"))
			assert.Equal(t, "client", q.Get("client_id"))
			assert.Equal(t, "http://localhost/cb", q.Get("redirect_uri"))
		})
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, name, surname string
	}{
		{"", "", ""},
		{"Ada", "Ada", ""},
		{"Ada Lovelace", "Ada", "Lovelace"},
		{"  Ada   King  Lovelace ", "Ada", "King Lovelace"},
	}

	for _, tt := range tests {
		name, surname := splitName(tt.in)
		assert.Equal(t, tt.name, name)
		assert.Equal(t, tt.surname, surname)
	}
}

func TestOAuthConfigEnabled(t *testing.T) {
	assert.False(t, OAuthConfig{}.Enabled())
	assert.False(t, OAuthConfig{ClientID: "id"}.Enabled())
	assert.True(t, OAuthConfig{ClientID: "id", ClientSecret: "s"}.Enabled())
}
