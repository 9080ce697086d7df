package pubsubauth

import (
	"encoding/base64"
	"errors"
	"testing"
)

// -------------------------------------------------------------------------
// GetToken (spec §4.5, §8)
// -------------------------------------------------------------------------

func TestGetTokenAbsentIsUnauthorized(t *testing.T) {
	t.Parallel()

	_, err := GetToken("", 0, 120)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
}

func TestGetTokenMissingPrefixIsForbidden(t *testing.T) {
	t.Parallel()

	_, err := GetToken("Bearer abc", 0, 120)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestGetTokenTooFewSeparatorsIsForbidden(t *testing.T) {
	t.Parallel()

	_, err := GetToken("X-HMAC 0:nonce-only", 0, 120)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestGetTokenBadTimestampIsForbidden(t *testing.T) {
	t.Parallel()

	_, err := GetToken("X-HMAC notanumber:n:AA==", 0, 120)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestGetTokenClockDriftWindow(t *testing.T) {
	t.Parallel()

	// A syntactically valid token (64-byte all-zero digest) so only the
	// clock check is exercised.
	tokenStr := "X-HMAC 1000:n:" + base64.StdEncoding.EncodeToString(make([]byte, 64))

	tests := []struct {
		name string
		now  int64
		want error
	}{
		{"exact lifetime in the past", 1000 + 120, nil},
		{"exact lifetime in the future", 1000 - 120, nil},
		{"one second past the window", 1000 + 121, ErrForbidden},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			token, err := GetToken(tokenStr, tt.now, 120)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if token.Timestamp != 1000 || token.Nonce != "n" {
					t.Fatalf("token fields mismatch: %+v", token)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

// TestGetTokenShortDigestIsForbidden mirrors spec's literal scenario:
// "X-HMAC 0:n:AA==" decodes to a 1-byte hmac, which must be Forbidden.
func TestGetTokenShortDigestIsForbidden(t *testing.T) {
	t.Parallel()

	_, err := GetToken("X-HMAC 0:n:AA==", 0, 1<<30)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestGetTokenBadBase64IsForbidden(t *testing.T) {
	t.Parallel()

	_, err := GetToken("X-HMAC 0:n:not base64!!", 0, 1<<30)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

// -------------------------------------------------------------------------
// MakeNonce (spec §4.4 "4 bytes of entropy -> 6-7 ASCII chars")
// -------------------------------------------------------------------------

func TestMakeNonceLength(t *testing.T) {
	t.Parallel()

	n, err := MakeNonce()
	if err != nil {
		t.Fatalf("MakeNonce: %v", err)
	}
	if len(n) < 6 || len(n) > 7 {
		t.Fatalf("nonce length = %d, want 6-7", len(n))
	}
}

func TestMakeNonceVaries(t *testing.T) {
	t.Parallel()

	a, err := MakeNonce()
	if err != nil {
		t.Fatalf("MakeNonce: %v", err)
	}
	b, err := MakeNonce()
	if err != nil {
		t.Fatalf("MakeNonce: %v", err)
	}
	if a == b {
		t.Fatalf("two consecutive nonces collided: %q", a)
	}
}
