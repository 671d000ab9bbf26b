// Package auth implements the credential primitives of authd: bcrypt
// password hashing and signed, expiring access tokens.
package auth

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// MaxPasswordLength is the bcrypt input limit.
	MaxPasswordLength = 72

	// DefaultBcryptCost is the work factor used when none is configured.
	DefaultBcryptCost = 12
)

// Hasher turns plaintext passwords into storable bcrypt blobs and verifies
// candidates against them. It is stateless with respect to call history and
// safe for concurrent use.
type Hasher struct {
	cost  int
	dummy string
}

// NewHasher creates a Hasher with the given bcrypt cost. Out-of-range costs
// fall back to DefaultBcryptCost. It fails only if the entropy source cannot
// produce the internal dummy hash; that failure is fatal and should abort
// service initialization.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}

	// The dummy hash is a valid bcrypt blob of a random value nobody knows.
	// Login flows verify against it when the account does not exist, so the
	// response time does not reveal whether an email is registered.
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("error generating dummy secret: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword(secret, cost)
	if err != nil {
		return nil, fmt.Errorf("error generating dummy hash: %w", err)
	}

	return &Hasher{cost: cost, dummy: string(dummy)}, nil
}

// Hash returns the bcrypt hash of password. A fresh salt is embedded on
// every call, so hashing the same password twice yields different blobs.
func (h *Hasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether password matches hash. It returns false for a
// malformed hash as well as for a wrong password; the two cases are not
// distinguishable to the caller.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// VerifyDummy runs a verification against the internal dummy hash and
// discards the result. Callers use it to keep the work done on a login
// attempt for a missing account comparable to a real verification.
func (h *Hasher) VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(h.dummy), []byte(password))
}
