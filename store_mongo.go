package authkit

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultAccountsCollectionName is the collection MongoStore uses unless
// configured otherwise.
const DefaultAccountsCollectionName = "users"

// MongoStore implements CredentialStore on a MongoDB collection. Every
// mutation is a single-document operation; the collection's unique
// indexes resolve concurrent signup races (second writer gets a
// duplicate key error, surfaced as ErrAccountExists).
type MongoStore struct {
	accounts *mongo.Collection
	logger   Logger
}

// NewMongoStore returns a store backed by the given database.
func NewMongoStore(db *mongo.Database, logger Logger) *MongoStore {
	if logger == nil {
		logger = defLogger{}
	}
	return &MongoStore{
		accounts: db.Collection(DefaultAccountsCollectionName),
		logger:   logger,
	}
}

// EnsureIndexes creates the uniqueness constraints the store relies on:
// unique email, and sparse unique verify_token so unset tokens do not
// collide.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.accounts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "verify_token", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create account indexes")
	}
	s.logger.Info("account indexes ensured on %q", s.accounts.Name())
	return nil
}

// Find returns the account stored for the email.
func (s *MongoStore) Find(ctx context.Context, email string) (*Account, error) {
	var account Account
	err := s.accounts.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&account)
	if err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAccountNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "account lookup failed")
	}
	return &account, nil
}

// Insert creates the account, replacing a prior unverified holder of the
// same email.
func (s *MongoStore) Insert(ctx context.Context, account *Account) error {
	existing, err := s.Find(ctx, account.Email)
	switch {
	case err == nil && existing.Verified:
		return ErrAccountExists
	case err == nil:
		// unverified accounts are not permanent; a fresh signup wins
		if err := s.Delete(ctx, account.Email); err != nil {
			return err
		}
	case !goerrors.Is(err, ErrAccountNotFound):
		return err
	}

	if _, err := s.accounts.InsertOne(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAccountExists
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "account insert failed")
	}

	s.logger.Debug("account inserted: %s", account.Email)
	return nil
}

// SetVerified marks the account verified and clears its verify token.
func (s *MongoStore) SetVerified(ctx context.Context, email string) error {
	res, err := s.accounts.UpdateOne(ctx,
		bson.M{"email": NormalizeEmail(email)},
		bson.M{
			"$set":   bson.M{"verified": true, "updated_at": time.Now()},
			"$unset": bson.M{"verify_token": ""},
		},
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "account verify update failed")
	}
	if res.MatchedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// SetRefreshToken replaces the stored refresh token; empty clears it.
// Last writer wins, which is the intended semantic: only the most recent
// refresh token should remain valid.
func (s *MongoStore) SetRefreshToken(ctx context.Context, email, token string) error {
	update := bson.M{"$set": bson.M{"refresh_token": token, "updated_at": time.Now()}}
	if token == "" {
		update = bson.M{
			"$set":   bson.M{"updated_at": time.Now()},
			"$unset": bson.M{"refresh_token": ""},
		}
	}

	res, err := s.accounts.UpdateOne(ctx, bson.M{"email": NormalizeEmail(email)}, update)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "refresh token update failed")
	}
	if res.MatchedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// Delete removes the account document.
func (s *MongoStore) Delete(ctx context.Context, email string) error {
	res, err := s.accounts.DeleteOne(ctx, bson.M{"email": NormalizeEmail(email)})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "account delete failed")
	}
	if res.DeletedCount == 0 {
		return ErrAccountNotFound
	}
	s.logger.Debug("account deleted: %s", email)
	return nil
}
