// Package password wraps bcrypt hashing behind a small interface so services
// can be tested without paying the hashing cost.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher performs one-way salted hashing and constant-time verification.
type Hasher interface {
	Hash(plaintext string) (string, error)
	// Compare reports whether plaintext matches the hash. Errors other than
	// a mismatch (malformed hash) are returned as-is.
	Compare(hash, plaintext string) (bool, error)
}

// Bcrypt implements Hasher with a configurable cost. Cost is capped at a
// moderate value so hashing stays bounded and does not stall concurrent
// request handling.
type Bcrypt struct {
	cost int
}

const maxCost = 14

// NewBcrypt creates a bcrypt hasher. Out-of-range costs fall back to the
// bcrypt default.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > maxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (b *Bcrypt) Compare(hash, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("failed to compare password: %w", err)
}
