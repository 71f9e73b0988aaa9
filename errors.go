package authkit

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeAccountExists      = "ACCOUNT_EXISTS"
	textCodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	textCodeAccountNotVerified = "ACCOUNT_NOT_VERIFIED"
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeTokenInvalid       = "TOKEN_INVALID"
	textCodeTokenExpired       = "TOKEN_EXPIRED"
	textCodeInvalidInput       = "INVALID_INPUT"
)

// ErrAccountExists signals a verified account already holds the email.
var ErrAccountExists = goerrors.New("account already exists", goerrors.CategoryConflict).
	WithTextCode(textCodeAccountExists).
	WithCode(goerrors.CodeConflict)

// ErrAccountNotFound signals no account is stored for the email.
var ErrAccountNotFound = goerrors.New("account not found", goerrors.CategoryNotFound).
	WithTextCode(textCodeAccountNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrAccountNotVerified signals the account has not completed email
// verification and cannot hold a session.
var ErrAccountNotVerified = goerrors.New("account not verified", goerrors.CategoryAuthz).
	WithTextCode(textCodeAccountNotVerified).
	WithCode(goerrors.CodeForbidden)

// ErrInvalidCredentials signals a password mismatch.
var ErrInvalidCredentials = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeBadRequest)

// ErrTokenInvalid covers bad signatures, malformed tokens, purpose or
// identity mismatches, and tokens superseded by a newer session.
var ErrTokenInvalid = goerrors.New("token is invalid", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenInvalid).
	WithCode(goerrors.CodeBadRequest)

// ErrTokenExpired signals a well-signed token past its expiry.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(goerrors.CodeBadRequest)

// ErrNoEmptyString is returned when hashing an empty password.
var ErrNoEmptyString = errors.New("cannot hash an empty string")

// ErrMismatchedHashAndPassword is returned when a password does not match
// its stored hash.
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password")

// newValidationError wraps a human-readable reason as a 400 input error.
func newValidationError(msg string) *goerrors.Error {
	return goerrors.New(msg, goerrors.CategoryValidation).
		WithTextCode(textCodeInvalidInput).
		WithCode(goerrors.CodeBadRequest)
}
