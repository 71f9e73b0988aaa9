package authkit

import (
	"errors"
	"regexp"
	"slices"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
)

// reEmail is deliberately permissive, not RFC-complete: something before
// an @, something after, and a dot in the domain part.
var reEmail = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// rePrintableASCII covers 0x21-0x7E, i.e. printable ASCII without space.
var rePrintableASCII = regexp.MustCompile(`^[!-~]+$`)

// ValidateEmail checks that the value is shaped like an email address.
func ValidateEmail(email string) error {
	err := validation.Validate(email,
		validation.Required.Error("email is required"),
		validation.Match(reEmail).Error("invalid email address"),
	)
	if err != nil {
		return newValidationError(err.Error())
	}
	return nil
}

// ValidatePassword checks password strength. Rules run in order and the
// first failing rule wins: length, then charset, then composition.
func ValidatePassword(password string) error {
	err := validation.Validate(password,
		validation.Required.Error("password is required"),
		validation.RuneLength(8, 0).Error("password must be at least 8 characters"),
		validation.Match(rePrintableASCII).Error("password must contain only printable ASCII characters"),
		validation.By(checkPasswordComposition),
	)
	if err != nil {
		return newValidationError(err.Error())
	}
	return nil
}

// checkPasswordComposition requires at least one lowercase letter, one
// uppercase letter, one digit and one symbol. Go regexp has no lookahead,
// so the classes are counted directly.
func checkPasswordComposition(value any) error {
	s, _ := value.(string)

	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case r >= '!' && r <= '~':
			symbol = true
		}
	}

	if !lower || !upper || !digit || !symbol {
		return errors.New("password must contain at least one uppercase letter, one lowercase letter, one number and one symbol")
	}
	return nil
}

// RequireExact checks that the body holds exactly the named parameters:
// every name present with a non-empty value, and no extra keys. Extra
// keys are a hard error; the contract is exact-match, not at-least.
func RequireExact(body map[string]string, names ...string) error {
	for _, name := range names {
		if body[name] == "" {
			return newValidationError(name + " is required")
		}
	}

	extra := make([]string, 0, len(body))
	for key := range body {
		if !slices.Contains(names, key) {
			extra = append(extra, key)
		}
	}
	if len(extra) > 0 {
		// deterministic error message regardless of map order
		slices.Sort(extra)
		return newValidationError(extra[0] + " is not a valid parameter")
	}
	return nil
}
