package pubsubauth

import (
	"bytes"
	"strings"
	"testing"
)

func TestSecretRoundTrip(t *testing.T) {
	t.Parallel()

	secret := bytes.Repeat([]byte{0x5a}, SecretSize)
	encoded, err := EncodeSecret(secret)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeSecret(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded, secret) {
		t.Fatalf("round-trip mismatch: got % x, want % x", decoded, secret)
	}
}

func TestDecodeSecretAcceptsPaddedForm(t *testing.T) {
	t.Parallel()

	secret := bytes.Repeat([]byte{0x11}, SecretSize)
	unpadded, err := EncodeSecret(secret)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	padded := unpadded + strings.Repeat("=", (4-len(unpadded)%4)%4)

	decoded, err := DecodeSecret(padded)
	if err != nil {
		t.Fatalf("decode padded: %v", err)
	}
	if !bytes.Equal(decoded, secret) {
		t.Fatalf("round-trip mismatch: got % x, want % x", decoded, secret)
	}
}

func TestDecodeSecretWrongLength(t *testing.T) {
	t.Parallel()

	_, err := DecodeSecret("dG9vc2hvcnQ")
	if err == nil {
		t.Fatal("expected an error for a too-short secret")
	}
}

func TestEncodeSecretWrongLength(t *testing.T) {
	t.Parallel()

	_, err := EncodeSecret([]byte("not 64 bytes"))
	if err == nil {
		t.Fatal("expected an error for a non-64-byte secret")
	}
}
