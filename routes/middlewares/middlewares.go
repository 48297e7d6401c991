package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

// Authenticated verifies the bearer token on administrative routes. Any
// missing, malformed or expired token answers 401, which the console treats
// as the session-expiry signal.
func Authenticated(auth *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(
			jwtauth.Verifier(auth),
			jwtauth.Authenticator(auth),
		).Handler(next)
	}
}
