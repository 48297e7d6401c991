package httpx

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
)

// IssueToken mints a bearer token for an authenticated administrator
// session. Expiry is the only revocation mechanism: when the token lapses,
// every authenticated route answers 401 and the console forces re-login.
func IssueToken(auth *jwtauth.JWTAuth, username string, ttl time.Duration) (string, error) {
	claims := map[string]any{"sub": username}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, ttl)

	_, token, err := auth.Encode(claims)
	return token, err
}
