package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when a credential carries no exp claim.
var ErrNoExpiry = errors.New("credential has no expiry")

// CredentialExpiry reads the exp claim of a JWT credential without verifying
// its signature. The signing key lives on the remote API; the client only
// uses the claim to tell the user when they will need to log in again.
func CredentialExpiry(credential string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, &claims); err != nil {
		return time.Time{}, fmt.Errorf("parse credential: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}
