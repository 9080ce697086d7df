package wire

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func sha512Of(b byte) [sha512Size]byte {
	var out [sha512Size]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func TestSubscribeUnsubscribeRoundTrip(t *testing.T) {
	t.Parallel()

	for _, minimal := range []bool{false, true} {
		se := &S2BSubscribeExactMsg{Authorization: "X-HMAC 0:n:AA==", Topic: []byte("topic-a")}
		raw := se.Marshal(minimal)
		got, err := ParseS2BFrame(raw)
		if err != nil {
			t.Fatalf("subscribe exact: %v", err)
		}
		gotSE := got.(*S2BSubscribeExactMsg)
		if gotSE.Authorization != se.Authorization || !bytes.Equal(gotSE.Topic, se.Topic) {
			t.Fatalf("subscribe exact round-trip mismatch: got %+v, want %+v", gotSE, se)
		}

		sg := &S2BSubscribeGlobMsg{Authorization: "", Glob: "a.*.b"}
		raw = sg.Marshal(minimal)
		got, err = ParseS2BFrame(raw)
		if err != nil {
			t.Fatalf("subscribe glob: %v", err)
		}
		gotSG := got.(*S2BSubscribeGlobMsg)
		if gotSG.Authorization != "" || gotSG.Glob != sg.Glob {
			t.Fatalf("subscribe glob round-trip mismatch: got %+v, want %+v", gotSG, sg)
		}

		ce := &B2SConfirmSubscribeExactMsg{Topic: []byte("topic-a")}
		raw = ce.Marshal(minimal)
		got2, err := ParseB2SFrame(raw)
		if err != nil {
			t.Fatalf("confirm subscribe exact: %v", err)
		}
		gotCE := got2.(*B2SConfirmSubscribeExactMsg)
		if !bytes.Equal(gotCE.Topic, ce.Topic) {
			t.Fatalf("confirm subscribe exact mismatch: got %+v, want %+v", gotCE, ce)
		}
	}
}

func TestNotifyRoundTripUncompressed(t *testing.T) {
	t.Parallel()

	msg := &S2BNotifyMsg{
		Authorization:  "X-HMAC 1:n:AA==",
		Identifier:     []byte("req-1"),
		Topic:          []byte("topic-a"),
		CompressorID:   0,
		VerifiedSHA512: sha512Of(0xAA),
		Message:        []byte("hello world"),
	}

	for _, minimal := range []bool{false, true} {
		raw := msg.Marshal(minimal)
		got, err := ParseS2BFrame(raw)
		if err != nil {
			t.Fatalf("minimal=%v: %v", minimal, err)
		}
		gotN := got.(*S2BNotifyMsg)
		if gotN.Authorization != msg.Authorization ||
			!bytes.Equal(gotN.Identifier, msg.Identifier) ||
			!bytes.Equal(gotN.Topic, msg.Topic) ||
			gotN.CompressorID != msg.CompressorID ||
			gotN.VerifiedSHA512 != msg.VerifiedSHA512 ||
			!bytes.Equal(gotN.Message, msg.Message) {
			t.Fatalf("minimal=%v round-trip mismatch: got %+v, want %+v", minimal, gotN, msg)
		}
	}
}

func TestNotifyRoundTripCompressed(t *testing.T) {
	t.Parallel()

	msg := &S2BNotifyMsg{
		Identifier:         []byte("req-2"),
		Topic:              []byte("topic-b"),
		CompressorID:       1,
		VerifiedSHA512:     sha512Of(0xBB),
		DecompressedLength: 4096,
		Message:            []byte{0x28, 0xb5, 0x2f, 0xfd},
	}

	for _, minimal := range []bool{false, true} {
		raw := msg.Marshal(minimal)
		got, err := ParseS2BFrame(raw)
		if err != nil {
			t.Fatalf("minimal=%v: %v", minimal, err)
		}
		gotN := got.(*S2BNotifyMsg)
		if gotN.CompressorID != 1 || gotN.DecompressedLength != 4096 || !bytes.Equal(gotN.Message, msg.Message) {
			t.Fatalf("minimal=%v round-trip mismatch: got %+v, want %+v", minimal, gotN, msg)
		}
	}
}

func TestNotifyOversizedIdentifierIsMalformed(t *testing.T) {
	t.Parallel()

	msg := &S2BNotifyMsg{
		Identifier:     bytes.Repeat([]byte{'x'}, maxIdentLen+1),
		Topic:          []byte("t"),
		VerifiedSHA512: sha512Of(0),
	}
	raw := msg.Marshal(true)
	if _, err := ParseS2BFrame(raw); err == nil {
		t.Fatal("expected Malformed for oversized identifier")
	}
}

func TestStreamRoundTrip(t *testing.T) {
	t.Parallel()

	start := &S2BNotifyStreamMsg{streamFields: streamFields{
		Identifier:         []byte("stream-1"),
		PartID:             0,
		Authorization:      "X-HMAC 2:n:AA==",
		CompressorID:       0,
		DecompressedLength: 1024,
		VerifiedSHA512:     sha512Of(0xCC),
	}}
	cont := &B2SReceiveStreamMsg{streamFields: streamFields{
		Identifier: []byte("stream-1"),
		PartID:     3,
		Payload:    []byte("chunk-3-bytes"),
	}}

	for _, minimal := range []bool{false, true} {
		raw := start.Marshal(minimal)
		got, err := ParseS2BFrame(raw)
		if err != nil {
			t.Fatalf("start minimal=%v: %v", minimal, err)
		}
		gotStart := got.(*S2BNotifyStreamMsg)
		if gotStart.PartID != 0 || gotStart.DecompressedLength != 1024 {
			t.Fatalf("start round-trip mismatch: %+v", gotStart)
		}

		raw = cont.Marshal(minimal)
		got2, err := ParseB2SFrame(raw)
		if err != nil {
			t.Fatalf("continuation minimal=%v: %v", minimal, err)
		}
		gotCont := got2.(*B2SReceiveStreamMsg)
		if gotCont.PartID != 3 || !bytes.Equal(gotCont.Payload, cont.Payload) {
			t.Fatalf("continuation round-trip mismatch: %+v", gotCont)
		}
	}
}

// TestStreamContinuationMinimalShapeOmitsStartMetadata pins the continuation
// frame's wire shape directly (spec §3: "When nonzero, carries only payload
// continuation"): identifier, part_id, authorization, payload — no
// compressor_id, decompressed_length, or sha512 positions at all, unlike a
// part_id=0 start frame.
func TestStreamContinuationMinimalShapeOmitsStartMetadata(t *testing.T) {
	t.Parallel()

	cont := &B2SReceiveStreamMsg{streamFields: streamFields{
		Identifier:    []byte("id"),
		PartID:        3,
		Authorization: "",
		Payload:       []byte("xy"),
	}}
	raw := cont.Marshal(true)

	want := mustHex(t, ""+
		"0001"+ // flags: MINIMAL_HEADERS
		"0009"+ // type: RECEIVE_STREAM
		"0002"+hex.EncodeToString([]byte("id"))+ // identifier
		"0001"+"03"+ // part_id = 3
		"0000"+ // authorization (absent -> empty value)
		"7879", // payload "xy"
	)
	if !bytes.Equal(raw, want) {
		t.Fatalf("continuation minimal frame shape mismatch:\ngot  % x\nwant % x", raw, want)
	}
}

func TestConfirmReceiveAndNotifyRoundTrip(t *testing.T) {
	t.Parallel()

	recv := &S2BConfirmReceiveMsg{Identifier: []byte("id-1")}
	for _, minimal := range []bool{false, true} {
		raw := recv.Marshal(minimal)
		got, err := ParseS2BFrame(raw)
		if err != nil {
			t.Fatalf("confirm receive: %v", err)
		}
		if !bytes.Equal(got.(*S2BConfirmReceiveMsg).Identifier, recv.Identifier) {
			t.Fatalf("confirm receive mismatch")
		}
	}

	withSubs := &B2SConfirmNotifyMsg{Identifier: []byte("id-1"), Subscribers: 7}
	withoutSubs := &B2SConfirmNotifyMsg{Identifier: []byte("id-2")}
	for _, minimal := range []bool{false, true} {
		raw := withSubs.Marshal(minimal)
		got, err := ParseB2SFrame(raw)
		if err != nil {
			t.Fatalf("confirm notify (subs): %v", err)
		}
		gotCN := got.(*B2SConfirmNotifyMsg)
		if gotCN.Subscribers != 7 {
			t.Fatalf("expected subscribers=7, got %d", gotCN.Subscribers)
		}

		raw = withoutSubs.Marshal(minimal)
		got, err = ParseB2SFrame(raw)
		if err != nil {
			t.Fatalf("confirm notify (no subs): %v", err)
		}
		gotCN = got.(*B2SConfirmNotifyMsg)
		if gotCN.Subscribers != 0 {
			t.Fatalf("expected default subscribers=0, got %d", gotCN.Subscribers)
		}
	}
}

func TestContinueRoundTrip(t *testing.T) {
	t.Parallel()

	sRecv := &S2BContinueReceiveMsg{Identifier: []byte("id-1"), PartID: 5}
	bNotify := &B2SContinueNotifyMsg{Identifier: []byte("id-1"), PartID: 5}

	for _, minimal := range []bool{false, true} {
		raw := sRecv.Marshal(minimal)
		got, err := ParseS2BFrame(raw)
		if err != nil || got.(*S2BContinueReceiveMsg).PartID != 5 {
			t.Fatalf("continue receive: got=%v err=%v", got, err)
		}

		raw = bNotify.Marshal(minimal)
		got2, err := ParseB2SFrame(raw)
		if err != nil || got2.(*B2SContinueNotifyMsg).PartID != 5 {
			t.Fatalf("continue notify: got=%v err=%v", got2, err)
		}
	}
}

func TestZstdRoundTrip(t *testing.T) {
	t.Parallel()

	preset := &B2SEnableZstdPresetMsg{zstdPreset: zstdPreset{
		Identifier:       []byte("zstd-1"),
		CompressionLevel: 19,
		MinSize:          64,
		MaxSize:          1 << 20,
	}}
	custom := &B2SEnableZstdCustomMsg{
		zstdPreset: zstdPreset{Identifier: []byte("zstd-2"), CompressionLevel: -1, MinSize: 0, MaxSize: 8192},
		Dictionary: bytes.Repeat([]byte{0x42}, 128),
	}

	for _, minimal := range []bool{false, true} {
		raw := preset.Marshal(minimal)
		got, err := ParseB2SFrame(raw)
		if err != nil {
			t.Fatalf("preset: %v", err)
		}
		gotP := got.(*B2SEnableZstdPresetMsg)
		if gotP.CompressionLevel != 19 || gotP.MaxSize != 1<<20 {
			t.Fatalf("preset round-trip mismatch: %+v", gotP)
		}

		raw = custom.Marshal(minimal)
		got2, err := ParseB2SFrame(raw)
		if err != nil {
			t.Fatalf("custom: %v", err)
		}
		gotC := got2.(*B2SEnableZstdCustomMsg)
		if gotC.CompressionLevel != -1 || !bytes.Equal(gotC.Dictionary, custom.Dictionary) {
			t.Fatalf("custom round-trip mismatch: %+v", gotC)
		}
	}
}

func TestUnsupportedType(t *testing.T) {
	t.Parallel()

	if _, err := ParseS2B(0, 0xFFFF, nil); err == nil {
		t.Fatal("expected ErrUnsupportedType for out-of-range type")
	}
}
