// Package pubsubauth implements the HMAC-SHA-512 authentication scheme
// shared by the stateful session and the stateless one-shot request paths:
// canonical per-operation byte encoding, token formatting, time-bounded
// acceptance, and replay-resistant verification via the replay subpackage.
package pubsubauth
