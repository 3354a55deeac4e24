package backend

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry extracts the exp claim from a bearer token without verifying the
// signature: the client does not hold the backend's signing key. The value is
// only used to warn at startup instead of failing on the first request.
// Returns a zero time when the token carries no exp claim.
func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, err
	}
	return exp.Time, nil
}
