// Package session resolves who is signed in to the web frontend once per request.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/strive-blog/services/web-service/internal/client"
)

const (
	CookieName = "strive_token"
	cookieTTL  = 24 * time.Hour
)

type contextKey struct{}

// State is the sign-in state of the current visitor. Every view reads the same State
// from the request context.
type State struct {
	Token  string
	Author *client.Author
}

func (s *State) LoggedIn() bool {
	return s != nil && s.Token != ""
}

// AuthorResolver returns the author a token was issued to.
type AuthorResolver interface {
	Me(ctx context.Context, token string) (*client.Author, error)
}

// Middleware resolves the State from the token cookie. The token is checked against
// the API on a best-effort basis: a rejected token clears the cookie, while an
// unreachable API keeps the visitor signed in without a profile.
func Middleware(resolver AuthorResolver, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := &State{}

			if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
				state.Token = cookie.Value

				author, err := resolver.Me(r.Context(), cookie.Value)
				switch status := client.StatusCode(err); {
				case err == nil:
					state.Author = author
				case status == http.StatusUnauthorized || status == http.StatusNotFound:
					state.Token = ""
					Clear(w, secure)
				default:
					hlog.FromRequest(r).Warn().Err(err).Msg("failed to resolve signed-in author")
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, state)))
		})
	}
}

// FromContext returns the State stored by Middleware, or an anonymous State.
func FromContext(ctx context.Context) *State {
	if state, ok := ctx.Value(contextKey{}).(*State); ok {
		return state
	}
	return &State{}
}

// SetToken stores token in the session cookie.
func SetToken(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func Clear(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
