package utils

import (
	"errors"
	"testing"
	"time"
)

func newTestTokens() *Tokens {
	return NewTokens("test-secret", 24*time.Hour, 7*24*time.Hour, 10*time.Minute)
}

func TestIssueVerifyAccessToken(t *testing.T) {
	tk := newTestTokens()

	raw, exp, err := tk.Issue(KindAccess, 42, "admin")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if raw == "" {
		t.Fatal("Issue() returned empty token")
	}
	if !exp.After(time.Now()) {
		t.Errorf("expiry %v is not in the future", exp)
	}

	claims, err := tk.Verify(raw, KindAccess)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("claims.UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("claims.Role = %q, want %q", claims.Role, "admin")
	}
}

func TestVerifyKindMismatch(t *testing.T) {
	tk := newTestTokens()

	refresh, _, err := tk.Issue(KindRefresh, 7, "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	// A refresh token must not pass where an access token is expected.
	if _, err := tk.Verify(refresh, KindAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify(refresh as access) error = %v, want ErrTokenInvalid", err)
	}
	reset, _, err := tk.Issue(KindReset, 7, "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := tk.Verify(reset, KindRefresh); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify(reset as refresh) error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	expired := NewTokens("test-secret", -time.Minute, -time.Minute, -time.Minute)

	raw, _, err := expired.Issue(KindReset, 9, "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := expired.Verify(raw, KindReset); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify(expired) error = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	tk := newTestTokens()
	other := NewTokens("other-secret", 24*time.Hour, 7*24*time.Hour, 10*time.Minute)

	raw, _, err := tk.Issue(KindAccess, 1, "user")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := other.Verify(raw, KindAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify(wrong secret) error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	tk := newTestTokens()
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := tk.Verify(raw, KindAccess); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Verify(%q) error = %v, want ErrTokenInvalid", raw, err)
		}
	}
}

func TestRefreshTokensUnique(t *testing.T) {
	tk := newTestTokens()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		raw, _, err := tk.Issue(KindRefresh, 5, "")
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		if seen[raw] {
			t.Fatal("two refresh tokens issued with identical bytes")
		}
		seen[raw] = true
	}
}

func TestHashTokenRaw(t *testing.T) {
	h1 := HashTokenRaw("some-token")
	h2 := HashTokenRaw("some-token")
	if h1 != h2 {
		t.Error("HashTokenRaw is not deterministic")
	}
	if len(h1) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(h1))
	}
	if h1 == "some-token" {
		t.Error("digest equals the input")
	}
	if HashTokenRaw("other-token") == h1 {
		t.Error("different inputs hash to the same digest")
	}
}
