package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/sebak/authd/internal/common"
)

func newTestCodec(t *testing.T, ttl time.Duration) *TokenCodec {
	t.Helper()
	c, err := NewTokenCodec([]byte("super-secret"), ttl)
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}
	return c
}

func TestTokenCodec_IssueAndVerify(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, time.Hour)
	now := time.Unix(1_700_000_000, 0)
	id := Identity{AccountID: 1, Email: "a@x.com"}

	tok, expires, err := c.Issue(id, now)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if want := now.Add(time.Hour); !expires.Equal(want) {
		t.Fatalf("expiry: got %v want %v", expires, want)
	}

	got, err := c.Verify(tok, now)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != id {
		t.Fatalf("identity mismatch: got %+v want %+v", got, id)
	}
}

func TestTokenCodec_ValidUntilExpiry(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, 3600*time.Second)
	issued := time.Unix(0, 0)

	tok, _, err := c.Issue(Identity{AccountID: 7, Email: "a@x.com"}, issued)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// One second before expiry the token still verifies.
	id, err := c.Verify(tok, issued.Add(3599*time.Second))
	if err != nil {
		t.Fatalf("Verify at t=3599 error: %v", err)
	}
	if id.Email != "a@x.com" {
		t.Fatalf("email: got %q", id.Email)
	}

	// Past expiry it does not.
	if _, err := c.Verify(tok, issued.Add(3601*time.Second)); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("Verify at t=3601: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenCodec_Tampered(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, time.Hour)
	now := time.Now()

	tok, _, err := c.Issue(Identity{AccountID: 2, Email: "b@x.com"}, now)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Flip one byte of the payload.
	raw := []byte(tok)
	i := len(raw) / 2
	if raw[i] == 'A' {
		raw[i] = 'B'
	} else {
		raw[i] = 'A'
	}

	if _, err := c.Verify(string(raw), now); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestTokenCodec_WrongKey(t *testing.T) {
	t.Parallel()

	issuer := newTestCodec(t, time.Hour)
	other, err := NewTokenCodec([]byte("different-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}

	now := time.Now()
	tok, _, err := issuer.Issue(Identity{AccountID: 3, Email: "c@x.com"}, now)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := other.Verify(tok, now); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for wrong key, got %v", err)
	}
}

func TestTokenCodec_Malformed(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, time.Hour)
	for _, tok := range []string{"", "not.a.jwt", "a.b"} {
		if _, err := c.Verify(tok, time.Now()); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("want ErrInvalidToken for %q, got %v", tok, err)
		}
	}
}

func TestNewTokenCodec_EmptyKey(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenCodec(nil, time.Hour); err == nil {
		t.Fatalf("expected error for empty signing key")
	}
}

func TestNewTokenCodec_DefaultTTL(t *testing.T) {
	t.Parallel()

	c, err := NewTokenCodec([]byte("k"), 0)
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}
	if c.TTL() != DefaultTokenTTL {
		t.Fatalf("ttl: got %v want %v", c.TTL(), DefaultTokenTTL)
	}
}
