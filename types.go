package authkit

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface components depend on.
// The service binary wires a real backend; defLogger is the fallback.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// CredentialStore persists one Account per unique email.
//
// Implementations must enforce uniqueness of email and of any non-empty
// verify token across the whole collection, and must express every
// mutation as a single atomic update. The store carries no business
// rules beyond the replace-unverified precondition of Insert.
type CredentialStore interface {
	// Find returns the account for the email or ErrAccountNotFound.
	Find(ctx context.Context, email string) (*Account, error)

	// Insert creates an unverified account. It fails with
	// ErrAccountExists when a verified account already holds the email.
	// An unverified holder is deleted first and recreated fresh;
	// unverified accounts are not permanent.
	Insert(ctx context.Context, account *Account) error

	// SetVerified marks the account verified and clears its verify
	// token. Calling it on an already verified account is a no-op.
	SetVerified(ctx context.Context, email string) error

	// SetRefreshToken replaces the stored refresh token. An empty token
	// clears it.
	SetRefreshToken(ctx context.Context, email, token string) error

	// Delete removes the account entirely.
	Delete(ctx context.Context, email string) error
}

// Mailer delivers the verification link to an address. Delivery failure
// must surface as an error; signup reports failure when it does.
type Mailer interface {
	SendVerification(ctx context.Context, recipient, link string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
