package middleware

import (
	"net/http"
	"strings"

	"github.com/vasapolrittideah/strive-blog/shared/utilities"
)

const UserEmailHeader = "User-Email"

// EmailGate only lets through requests whose User-Email header matches one of the
// allowed addresses, case-insensitively. Everything else gets 403.
func EmailGate(allowed []string) func(http.Handler) http.Handler {
	allowedMap := make(map[string]bool, len(allowed))
	for _, email := range allowed {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			allowedMap[email] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := strings.ToLower(strings.TrimSpace(r.Header.Get(UserEmailHeader)))
			if !allowedMap[email] {
				utilities.WriteMessage(w, http.StatusForbidden, "access denied: unauthorized user")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
