package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BasicAuthConfig holds the site-wide gate credentials.
type BasicAuthConfig struct {
	Username string
	Password string
	Realm    string
}

// basicAuthExempt lists path prefixes that bypass the site gate. The API
// carries its own token auth, and asset requests from an already-gated page
// must not re-prompt.
var basicAuthExempt = []string{
	"/api",
	"/assets",
	"/favicon.ico",
}

// BasicAuth gates the static pages behind HTTP Basic authentication.
// Credentials are compared in constant time.
func BasicAuth(cfg BasicAuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range basicAuthExempt {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			user, pass, ok := r.BasicAuth()
			if !ok || !credentialsMatch(cfg, user, pass) {
				w.Header().Set("WWW-Authenticate", `Basic realm="`+cfg.Realm+`"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func credentialsMatch(cfg BasicAuthConfig, user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(cfg.Password)) == 1
	return userOK && passOK
}
