package authkit

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// MemoryStore is an in-memory CredentialStore with the same contract as
// MongoStore, including the verify-token uniqueness constraint. It backs
// tests and mail-less local runs.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

var _ CredentialStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: map[string]*Account{}}
}

func (s *MemoryStore) Find(ctx context.Context, email string) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[NormalizeEmail(email)]
	if !ok {
		return nil, ErrAccountNotFound
	}

	cp := *account
	return &cp, nil
}

func (s *MemoryStore) Insert(ctx context.Context, account *Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := NormalizeEmail(account.Email)
	if existing, ok := s.accounts[email]; ok && existing.Verified {
		return ErrAccountExists
	}

	if account.VerifyToken != "" {
		for held, other := range s.accounts {
			if held != email && other.VerifyToken == account.VerifyToken {
				return goerrors.New("verify token already in use", goerrors.CategoryConflict).
					WithCode(goerrors.CodeConflict)
			}
		}
	}

	cp := *account
	cp.Email = email
	s.accounts[email] = &cp
	return nil
}

func (s *MemoryStore) SetVerified(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[NormalizeEmail(email)]
	if !ok {
		return ErrAccountNotFound
	}

	account.Verified = true
	account.VerifyToken = ""
	account.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) SetRefreshToken(ctx context.Context, email, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[NormalizeEmail(email)]
	if !ok {
		return ErrAccountNotFound
	}

	account.RefreshToken = token
	account.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email = NormalizeEmail(email)
	if _, ok := s.accounts[email]; !ok {
		return ErrAccountNotFound
	}

	delete(s.accounts, email)
	return nil
}
