package pubsubauth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// tokenPrefix is the case-sensitive ASCII prefix every token starts with
// (spec §4.5, §6).
const tokenPrefix = "X-HMAC "

// Sentinel errors returned by GetToken (spec §4.5). Unlike the wire
// package's Truncated/Malformed/UnsupportedType, these map directly onto
// the Unauthorized/Forbidden outcomes authorize/verify callers already
// branch on.
var (
	// ErrUnauthorized means the authorization value was absent.
	ErrUnauthorized = errors.New("pubsubauth: unauthorized")

	// ErrForbidden means a token was present but malformed, expired, or
	// failed verification.
	ErrForbidden = errors.New("pubsubauth: forbidden")
)

// Token is the parsed form of an "X-HMAC <ts>:<nonce>:<b64hmac>" value.
type Token struct {
	Timestamp int64
	Nonce     string
	HMAC      [64]byte
}

// GetToken extracts and time-bounds-checks a token (spec §4.5). authorization
// empty means the header was absent, reported as ErrUnauthorized; every
// other failure is ErrForbidden.
func GetToken(authorization string, now, tokenLifetime int64) (Token, error) {
	if authorization == "" {
		return Token{}, ErrUnauthorized
	}
	if !strings.HasPrefix(authorization, tokenPrefix) {
		return Token{}, fmt.Errorf("missing %q prefix: %w", tokenPrefix, ErrForbidden)
	}
	rest := authorization[len(tokenPrefix):]

	parts := strings.SplitN(rest, ":", 3)
	if len(parts) != 3 {
		return Token{}, fmt.Errorf("expected two ':' separators: %w", ErrForbidden)
	}
	ts, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Token{}, fmt.Errorf("timestamp %q: %w", parts[0], ErrForbidden)
	}
	delta := now - ts
	if delta < 0 {
		delta = -delta
	}
	if delta > tokenLifetime {
		return Token{}, fmt.Errorf("timestamp %d outside %ds window of now=%d: %w", ts, tokenLifetime, now, ErrForbidden)
	}
	digest, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return Token{}, fmt.Errorf("hmac body: %w", ErrForbidden)
	}
	if len(digest) != 64 {
		return Token{}, fmt.Errorf("hmac length %d != 64: %w", len(digest), ErrForbidden)
	}
	var h [64]byte
	copy(h[:], digest)
	return Token{Timestamp: ts, Nonce: parts[1], HMAC: h}, nil
}

// MakeNonce generates 4 bytes of cryptographic randomness, url-safe
// base64 encoded into a 6-character string (spec §4.4).
func MakeNonce() (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("pubsubauth: generate nonce: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}

// sign computes HMAC-SHA-512(secret, toSign) and formats the result as
// "X-HMAC <ts>:<nonce>:<b64hmac>".
func sign(secret []byte, timestamp int64, nonce string, toSign []byte) string {
	mac := hmac.New(sha512.New, secret)
	mac.Write(toSign)
	digest := mac.Sum(nil)
	return fmt.Sprintf("%s%d:%s:%s", tokenPrefix, timestamp, nonce, base64.StdEncoding.EncodeToString(digest))
}

// expectedDigest recomputes HMAC-SHA-512(secret, toSign) without
// formatting it, for constant-time comparison against a token's digest.
func expectedDigest(secret, toSign []byte) [64]byte {
	mac := hmac.New(sha512.New, secret)
	mac.Write(toSign)
	var out [64]byte
	copy(out[:], mac.Sum(nil))
	return out
}

// digestsEqual compares two HMAC digests in constant time.
func digestsEqual(a, b [64]byte) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}
