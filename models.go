package authkit

import (
	"strings"
	"time"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// Account is the persisted identity record, one document per email.
//
// RefreshToken is the sole source of truth for session validity: an
// access token is only trusted for its stateless expiry and is never
// checked against storage. VerifyToken is present while the account is
// unverified and cleared once verification completes.
type Account struct {
	ID           uuid.UUID `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Verified     bool      `bson:"verified" json:"verified"`
	VerifyToken  string    `bson:"verify_token,omitempty" json:"-"`
	RefreshToken string    `bson:"refresh_token,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// NewAccount builds an unverified account for the email. The ID is
// derived deterministically from the normalized email so a replaced
// unverified signup keeps a stable identity.
func NewAccount(email, passwordHash, verifyToken string) *Account {
	email = NormalizeEmail(email)
	now := time.Now()

	a := &Account{
		Email:        email,
		PasswordHash: passwordHash,
		VerifyToken:  verifyToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if id, err := hashid.NewUUID(email); err == nil {
		a.ID = id
	} else {
		a.ID = uuid.New()
	}

	return a
}

// NormalizeEmail lowercases and trims an email for comparison and
// storage. All store lookups go through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
