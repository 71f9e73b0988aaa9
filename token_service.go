package authkit

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenService issues and verifies signed, time-limited tokens carrying
// an email identity and a purpose. One HMAC secret signs all purposes;
// the purpose claim keeps them from crossing over.
type TokenService struct {
	signingKey []byte
	issuer     string
	logger     Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, issuer string, logger Logger) *TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenService{
		signingKey: signingKey,
		issuer:     issuer,
		logger:     logger,
	}
}

// Issue signs a token for the email with the given purpose and ttl.
// Expiry is embedded in the token and enforced by Verify, not here.
func (ts *TokenService) Issue(email string, purpose TokenPurpose, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   NormalizeEmail(email),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:   NormalizeEmail(email),
		Purpose: purpose,
	}

	ensureTokenID(&claims.RegisteredClaims)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// Verify parses and validates a token string for the expected purpose.
// It returns ErrTokenExpired for a well-signed token past its expiry and
// ErrTokenInvalid for everything else: bad signature, malformed input,
// unexpected signing method, purpose mismatch, or missing identity.
func (ts *TokenService) Verify(raw string, purpose TokenPurpose) (*Claims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token verify encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		ts.logger.Error("token verify could not decode claims")
		return nil, ErrTokenInvalid
	}

	if claims.Purpose != purpose {
		ts.logger.Warn("token presented for wrong purpose: got %q want %q", claims.Purpose, purpose)
		return nil, ErrTokenInvalid
	}

	if claims.Email == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
