package pubsubauth

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// SecretSize is the fixed length of a shared HMAC secret (spec §3, §6).
const SecretSize = 64

// DecodeSecret decodes a shared secret from its external url-safe base64
// representation. Padding is optional (spec §6): any trailing "=" is
// stripped and the result decoded unpadded, which accepts both a padded
// and an unpadded encoding of the same 64 bytes. The decoded result must
// be exactly SecretSize bytes.
func DecodeSecret(s string) ([]byte, error) {
	secret, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, fmt.Errorf("pubsubauth: decode secret: %w", err)
	}
	if len(secret) != SecretSize {
		return nil, fmt.Errorf("pubsubauth: secret is %d bytes, want %d", len(secret), SecretSize)
	}
	return secret, nil
}

// EncodeSecret formats a SecretSize-byte secret as url-safe base64 without
// padding, the external representation spec §6 describes.
func EncodeSecret(secret []byte) (string, error) {
	if len(secret) != SecretSize {
		return "", fmt.Errorf("pubsubauth: secret is %d bytes, want %d", len(secret), SecretSize)
	}
	return base64.RawURLEncoding.EncodeToString(secret), nil
}
