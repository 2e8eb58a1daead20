// Package auth provides the credential-hashing and token-generation
// collaborators of the account service. The core never sees raw secrets
// beyond these two boundaries.
package auth

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type (
	// PasswordHasher hashes and verifies account secrets.
	PasswordHasher interface {
		Hash(secret string) (string, error)
		Verify(hash, secret string) bool
	}

	// TokenSource produces globally unique opaque tokens.
	TokenSource interface {
		NewToken() string
	}
)

// BcryptHasher implements PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given cost; 0 selects the
// library default.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{cost: cost}
}

func (h BcryptHasher) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (h BcryptHasher) Verify(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// UUIDTokenSource implements TokenSource with random UUIDs.
type UUIDTokenSource struct{}

func (UUIDTokenSource) NewToken() string {
	return uuid.NewString()
}
