package utils // package utils provides token issuing, verification and hashing helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind names the three credential purposes this service signs tokens
// for.  The kind is embedded in the token's "typ" claim and checked on
// verification, so a refresh token can never be presented where an access
// token is expected.
type TokenKind string

const (
	KindAccess  TokenKind = "access"  // proves identity and role for one request
	KindRefresh TokenKind = "refresh" // represents the single active session
	KindReset   TokenKind = "reset"   // authorizes one password change
)

// Verification failures are split in two so callers can tell the user to
// log in again (expired) without revealing anything else (invalid).
var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)

// Claims is the decoded payload of a verified token.
type Claims struct {
	UserID uint64
	Role   string // set for access tokens only
	Kind   TokenKind
}

// Tokens signs and verifies HS256 JWTs with a process-wide secret.  The
// per-kind lifetimes are fixed at construction; rotating the secret
// invalidates every outstanding token, which is acceptable here.
type Tokens struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
}

func NewTokens(secret string, accessTTL, refreshTTL, resetTTL time.Duration) *Tokens {
	return &Tokens{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
	}
}

// Issue signs a token of the given kind for a user and returns the token
// string along with its expiry.  The role claim is only included on
// access tokens; refresh and reset tokens carry just the subject.
func (t *Tokens) Issue(kind TokenKind, userID uint64, role string) (string, time.Time, error) {
	exp := time.Now().UTC().Add(t.ttl(kind))
	claims := jwt.MapClaims{
		"sub": userID,
		"typ": string(kind),
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	if kind == KindAccess {
		claims["role"] = role
	} else {
		// Refresh and reset tokens carry a random token id so two tokens
		// issued in the same second are never byte-identical; rotation
		// must always produce a fresh value.
		jti, err := randomHex(16)
		if err != nil {
			return "", time.Time{}, err
		}
		claims["jti"] = jti
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses and validates a token, requiring it to be of the expected
// kind.  Expiry is reported as ErrTokenExpired; every other failure mode
// (bad signature, wrong algorithm, malformed claims, kind mismatch)
// collapses into ErrTokenInvalid.
func (t *Tokens) Verify(raw string, kind TokenKind) (Claims, error) {
	tok, err := jwt.Parse(raw, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}
	if typ, _ := mc["typ"].(string); typ != string(kind) {
		return Claims{}, ErrTokenInvalid
	}
	sub, ok := mc["sub"].(float64) // JSON numbers decode as float64
	if !ok || sub <= 0 {
		return Claims{}, ErrTokenInvalid
	}
	c := Claims{UserID: uint64(sub), Kind: kind}
	if role, ok := mc["role"].(string); ok {
		c.Role = role
	}
	return c, nil
}

func (t *Tokens) ttl(kind TokenKind) time.Duration {
	switch kind {
	case KindRefresh:
		return t.refreshTTL
	case KindReset:
		return t.resetTTL
	default:
		return t.accessTTL
	}
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashTokenRaw returns the SHA-256 hex digest of a token string.  Refresh
// and reset tokens are stored hashed so database access alone cannot
// hijack a session or an open reset window.
func HashTokenRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
