package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier checks a login/email and password pair against the stored bcrypt hash.
type CredentialVerifier struct {
	accounts AccountRepository
}

func NewCredentialVerifier(accounts AccountRepository) *CredentialVerifier {
	return &CredentialVerifier{accounts: accounts}
}

// Verify returns the matching account, ErrAccountNotFound or ErrPasswordMismatch.
func (v *CredentialVerifier) Verify(ctx context.Context, identifier, password string) (*Account, error) {
	acc, err := v.accounts.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrPasswordMismatch
		}
		// a hash bcrypt cannot parse is a storage fault
		return nil, fmt.Errorf("compare password hash for account %d: %w", acc.ID, err)
	}

	return acc, nil
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
