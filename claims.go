package authkit

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPurpose scopes a token to a single use. All purposes share one
// signing secret; verification rejects a token presented for a purpose
// other than the one it was issued for, so a verification token can
// never be replayed as a session token.
type TokenPurpose string

const (
	// PurposeVerify is a one-time credential proving control of an email
	// address during signup.
	PurposeVerify TokenPurpose = "verify"

	// PurposeAccess is a short-lived credential proving recent
	// authentication.
	PurposeAccess TokenPurpose = "access"

	// PurposeRefresh is a long-lived credential, single active instance
	// per account, checked against storage on renewal and revocation.
	PurposeRefresh TokenPurpose = "refresh"
)

// Claims bind an email identity and a purpose to a signed expiry window.
type Claims struct {
	jwt.RegisteredClaims
	Email   string       `json:"email"`
	Purpose TokenPurpose `json:"purpose"`
}

// Expires returns the expiry time, or the zero time when absent.
func (c *Claims) Expires() time.Time {
	if c.ExpiresAt != nil {
		return c.ExpiresAt.Time
	}
	return time.Time{}
}

// Issued returns the issue time, or the zero time when absent.
func (c *Claims) Issued() time.Time {
	if c.IssuedAt != nil {
		return c.IssuedAt.Time
	}
	return time.Time{}
}

// ensureTokenID populates the jti claim when missing.
func ensureTokenID(rc *jwt.RegisteredClaims) {
	if rc.ID == "" {
		rc.ID = uuid.NewString()
	}
}
