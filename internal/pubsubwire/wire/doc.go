// Package wire implements the framed message codec for a stateful
// publish/subscribe session: fixed-width primitives, the two header
// encodings (minimal and expanded), and the per-direction dense dispatch
// tables that turn a type code into a decoded message.
//
// The codec is pure: Parse and the per-message Marshal functions are
// synchronous, allocate only the returned value, and share no mutable
// state across calls.
package wire
