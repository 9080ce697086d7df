package pubsubauth

import (
	"encoding/hex"
	"testing"
)

// -------------------------------------------------------------------------
// Canonical-encoding literal scenario (spec §8 scenario 3)
// -------------------------------------------------------------------------

// TestSubscribeExactCanonicalLiteralShape pins the exact to-sign bytes for
// the spec's worked example: url="u", recovery=absent, exact="t",
// timestamp=0, nonce="n".
func TestSubscribeExactCanonicalLiteralShape(t *testing.T) {
	t.Parallel()

	want := mustHex(t, ""+
		"01"+ // operation tag
		"0000000000000000"+ // timestamp
		"016e"+ // nonce length 1 + "n"
		"000175"+ // url len 1 + "u"
		"0000"+ // recovery len 0
		"000174", // exact len 1 + "t"
	)

	p := SubscribeExactParams{URL: "u", Recovery: "", Topic: []byte("t")}
	got, err := p.canonical(0, "n")
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("canonical bytes mismatch:\ngot  % x\nwant % x", got, want)
	}
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex decode %q: %v", s, err)
	}
	return b
}

// -------------------------------------------------------------------------
// Operation tag cross-collision (spec §8 "HMAC collision across operations")
// -------------------------------------------------------------------------

// TestOperationTagsAreDistinct enumerates every operation and asserts each
// has a unique 1-byte tag, so no canonical encoding of one operation can
// ever be prefix-confused with another's.
func TestOperationTagsAreDistinct(t *testing.T) {
	t.Parallel()

	ops := []Op{
		OpSubscribeExact,
		OpSubscribeGlob,
		OpNotify,
		OpWebsocketConfigure,
		OpCheckSubscriptions,
		OpSetSubscriptions,
		OpReceive,
		OpMissed,
		OpWebsocketConfirmConfigure,
	}
	seen := make(map[Op]bool, len(ops))
	for _, op := range ops {
		if seen[op] {
			t.Fatalf("duplicate operation tag %d (%s)", op, op)
		}
		seen[op] = true
	}
}

// TestCanonicalPrefixesDiffer builds the canonical encoding for every
// operation with matching (timestamp, nonce) and otherwise-identical
// parameter bytes, and checks no two outputs collide.
func TestCanonicalPrefixesDiffer(t *testing.T) {
	t.Parallel()

	const ts = int64(12345)
	const nonce = "abcdef"

	var sha [64]byte
	var nonce32 [32]byte

	canon := map[string][]byte{}
	add := func(name string, b []byte, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		canon[name] = b
	}

	b, err := SubscribeExactParams{URL: "u", Topic: []byte("t")}.canonical(ts, nonce)
	add("subscribe_exact", b, err)
	b, err = SubscribeGlobParams{URL: "u", Glob: "t"}.canonical(ts, nonce)
	add("subscribe_glob", b, err)
	b, err = NotifyParams{Topic: []byte("u"), SHA512: sha}.canonical(ts, nonce)
	add("notify", b, err)
	b, err = WebsocketConfigureParams{SubscriberNonce: nonce32}.canonical(ts, nonce)
	add("websocket_configure", b, err)
	b, err = CheckSubscriptionsParams{URL: "u"}.canonical(ts, nonce)
	add("check_subscriptions", b, err)
	b, err = SetSubscriptionsParams{URL: "u", EtagFormat: EtagFormatSHA256, Etag: make([]byte, 32)}.canonical(ts, nonce)
	add("set_subscriptions", b, err)
	b, err = ReceiveParams{URL: "u", Topic: []byte("t"), SHA512: sha}.canonical(ts, nonce)
	add("receive", b, err)
	b, err = MissedParams{Recovery: "u", Topic: []byte("t")}.canonical(ts, nonce)
	add("missed", b, err)
	b, err = WebsocketConfirmConfigureParams{BroadcasterNonce: nonce32}.canonical(ts, nonce)
	add("websocket_confirm_configure", b, err)

	seenBytes := make(map[string]string, len(canon))
	for name, b := range canon {
		key := string(b)
		if other, ok := seenBytes[key]; ok {
			t.Fatalf("canonical collision between %s and %s", name, other)
		}
		seenBytes[key] = name
		if b[0] == 0 {
			t.Fatalf("%s: operation tag byte is zero", name)
		}
	}
}

func TestOpStringUnknown(t *testing.T) {
	t.Parallel()

	var op Op = 200
	if got := op.String(); got != "Op(200)" {
		t.Fatalf("Op(200).String() = %q, want %q", got, "Op(200)")
	}
}

func TestFieldTooLargeNonce(t *testing.T) {
	t.Parallel()

	longNonce := make([]byte, 256)
	for i := range longNonce {
		longNonce[i] = 'a'
	}
	_, err := CheckSubscriptionsParams{URL: "u"}.canonical(0, string(longNonce))
	if err == nil {
		t.Fatal("expected ErrFieldTooLarge for an oversized nonce")
	}
}
