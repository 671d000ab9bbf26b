package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sebak/authd/internal/common"
)

// DefaultTokenTTL is the validity duration of issued tokens when none is
// configured.
const DefaultTokenTTL = time.Hour

// Identity is the claim recovered from a verified token: who authenticated.
type Identity struct {
	AccountID int64
	Email     string
}

// Claims is the JWT payload: the registered claims plus the account id.
// Subject carries the account email.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64 `json:"aid"`
}

// TokenCodec issues and verifies HS256-signed, expiring tokens bound to an
// identity. The signing key is read-only after construction, so a single
// codec is safe for concurrent use.
type TokenCodec struct {
	key []byte
	ttl time.Duration
}

// NewTokenCodec creates a codec with the given signing key and token TTL.
// An empty key is a configuration error and aborts initialization; a
// non-positive ttl falls back to DefaultTokenTTL.
func NewTokenCodec(key []byte, ttl time.Duration) (*TokenCodec, error) {
	if len(key) == 0 {
		return nil, errors.New("signing key is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{key: key, ttl: ttl}, nil
}

// TTL returns the fixed validity duration of issued tokens.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a signed token for id. Issued-at is now; expiry is now+TTL.
// The caller supplies now so the codec stays clock-free and testable.
func (c *TokenCodec) Issue(id Identity, now time.Time) (string, time.Time, error) {
	expires := now.Add(c.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		AccountID: id.AccountID,
	})

	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error signing token: %w", err)
	}

	return signed, expires, nil
}

// Verify validates the signature of tokenString and its expiry against now,
// and returns the embedded identity. The signature is checked before any
// claim is trusted, and every failure mode — bad signature, malformed
// structure, expired — collapses to common.ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string, now time.Time) (Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !token.Valid {
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{AccountID: claims.AccountID, Email: claims.Subject}, nil
}
