package authkit

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// opTimeout bounds the store and mail suspension points of every
// operation.
const opTimeout = 10 * time.Second

// TokenPair is the session material returned by Login. The TTLs are
// surfaced so the transport can set matching cookie max-ages.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

// Authenticator orchestrates the credential store, token service and
// mailer to run the account lifecycle: unverified on signup, verified
// through the emailed token, a single refresh token per account while a
// session exists.
//
// Requests may run concurrently; all state lives in the store and every
// mutation is a single atomic update, so concurrent logins for one
// account resolve to last-writer-wins on the refresh token.
type Authenticator struct {
	store  CredentialStore
	tokens *TokenService
	mailer Mailer
	logger Logger

	baseURL    string
	verifyTTL  time.Duration
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthenticator wires the auth core from its collaborators and config.
func NewAuthenticator(store CredentialStore, tokens *TokenService, mailer Mailer, cfg Config) *Authenticator {
	verifyTTL := cfg.VerifyTokenTTL
	if verifyTTL <= 0 {
		verifyTTL = 30 * 24 * time.Hour
	}
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Hour
	}
	refreshTTL := cfg.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}

	return &Authenticator{
		store:      store,
		tokens:     tokens,
		mailer:     mailer,
		logger:     defLogger{},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		verifyTTL:  verifyTTL,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// SignUp validates the input, persists an unverified account and emails
// the verification link. A verified account already holding the email is
// a conflict; an unverified one is silently replaced. When mail delivery
// fails the inserted record remains but the operation reports failure.
func (a *Authenticator) SignUp(ctx context.Context, email, password string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	verifyToken, err := a.tokens.Issue(email, PurposeVerify, a.verifyTTL)
	if err != nil {
		return err
	}

	account := NewAccount(email, hash, verifyToken)
	if err := a.store.Insert(ctx, account); err != nil {
		a.logger.Info("signup rejected for %s: %v", account.Email, err)
		return err
	}

	if err := a.mailer.SendVerification(ctx, account.Email, a.verificationLink(account.Email, verifyToken)); err != nil {
		a.logger.Error("signup mail delivery failed for %s: %v", account.Email, err)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to send verification email")
	}

	a.logger.Info("signup accepted: %s", account.Email)
	return nil
}

// VerifyEmail consumes a verification token. The token must verify
// cryptographically, embed the submitted email, and still equal the
// account's stored verify token. Re-verifying after the stored token was
// cleared fails: the token is strictly one-shot.
func (a *Authenticator) VerifyEmail(ctx context.Context, email, token string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := ValidateEmail(email); err != nil {
		return err
	}

	claims, err := a.tokens.Verify(token, PurposeVerify)
	if err != nil {
		return err
	}

	if claims.Email != NormalizeEmail(email) {
		a.logger.Warn("verification token identity mismatch for %s", email)
		return ErrTokenInvalid
	}

	account, err := a.store.Find(ctx, email)
	if err != nil {
		if goerrors.Is(err, ErrAccountNotFound) {
			return ErrTokenInvalid
		}
		return err
	}

	if account.Verified || account.VerifyToken != token {
		return ErrTokenInvalid
	}

	if err := a.store.SetVerified(ctx, account.Email); err != nil {
		return err
	}

	a.logger.Info("account verified: %s", account.Email)
	return nil
}

// Login checks the password of a verified account and opens a session:
// it issues an access and a refresh token and persists the refresh token
// as the single valid session credential for the account.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	account, err := a.requireVerified(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		a.logger.Info("login password mismatch for %s", account.Email)
		return nil, ErrInvalidCredentials
	}

	access, err := a.tokens.Issue(account.Email, PurposeAccess, a.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := a.tokens.Issue(account.Email, PurposeRefresh, a.refreshTTL)
	if err != nil {
		return nil, err
	}

	if err := a.store.SetRefreshToken(ctx, account.Email, refresh); err != nil {
		return nil, err
	}

	a.logger.Info("login success: %s", account.Email)
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessTTL:    a.accessTTL,
		RefreshTTL:   a.refreshTTL,
	}, nil
}

// Logout revokes the session identified by the refresh token. The token
// is decoded to obtain the account, and the stored token is cleared only
// if it equals the presented one; a superseded token is rejected.
func (a *Authenticator) Logout(ctx context.Context, refreshToken string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	claims, err := a.tokens.Verify(refreshToken, PurposeRefresh)
	if err != nil {
		return err
	}

	account, err := a.store.Find(ctx, claims.Email)
	if err != nil {
		return err
	}

	if account.RefreshToken != refreshToken {
		return ErrTokenInvalid
	}

	if err := a.store.SetRefreshToken(ctx, account.Email, ""); err != nil {
		return err
	}

	a.logger.Info("logout success: %s", account.Email)
	return nil
}

// Refresh issues a new access token for a refresh token that still
// matches the stored one. The refresh token itself is not rotated.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (string, time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	claims, err := a.tokens.Verify(refreshToken, PurposeRefresh)
	if err != nil {
		return "", 0, err
	}

	account, err := a.requireVerified(ctx, claims.Email)
	if err != nil {
		return "", 0, err
	}

	// detects revoked or superseded sessions
	if account.RefreshToken != refreshToken {
		a.logger.Info("stale refresh token presented for %s", account.Email)
		return "", 0, ErrTokenInvalid
	}

	access, err := a.tokens.Issue(account.Email, PurposeAccess, a.accessTTL)
	if err != nil {
		return "", 0, err
	}

	return access, a.accessTTL, nil
}

// DeleteAccount destroys the account. It demands both session tokens:
// each must verify for its purpose, both must embed the same email, and
// the refresh token must still be the stored one.
func (a *Authenticator) DeleteAccount(ctx context.Context, refreshToken, accessToken string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	refreshClaims, err := a.tokens.Verify(refreshToken, PurposeRefresh)
	if err != nil {
		return err
	}

	accessClaims, err := a.tokens.Verify(accessToken, PurposeAccess)
	if err != nil {
		return err
	}

	if refreshClaims.Email != accessClaims.Email {
		a.logger.Warn("delete-account token identity mismatch")
		return ErrTokenInvalid
	}

	account, err := a.requireVerified(ctx, refreshClaims.Email)
	if err != nil {
		return err
	}

	if account.RefreshToken != refreshToken {
		return ErrTokenInvalid
	}

	if err := a.store.Delete(ctx, account.Email); err != nil {
		return err
	}

	a.logger.Info("account deleted: %s", account.Email)
	return nil
}

// requireVerified loads the account and insists it completed email
// verification.
func (a *Authenticator) requireVerified(ctx context.Context, email string) (*Account, error) {
	account, err := a.store.Find(ctx, email)
	if err != nil {
		return nil, err
	}
	if !account.Verified {
		return nil, ErrAccountNotVerified
	}
	return account, nil
}

func (a *Authenticator) verificationLink(email, token string) string {
	return fmt.Sprintf("%s/auth/verify?token=%s&email=%s",
		a.baseURL, url.QueryEscape(token), url.QueryEscape(email))
}
