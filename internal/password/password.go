package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher is the credential-hashing capability: plaintext passwords go in,
// opaque digests come out, and plaintext is never stored anywhere.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(digest, password string) bool
}

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt-backed Hasher. A cost of 0 selects
// bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
