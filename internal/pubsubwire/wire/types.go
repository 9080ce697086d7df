package wire

// S2BType is a Subscriber→Broadcaster message type code (spec §3).
type S2BType uint16

// B2SType is a Broadcaster→Subscriber message type code (spec §3).
type B2SType uint16

// S2B type codes. Numeric assignments are stable; successive types take
// successive integer values starting at 1 (spec §8 scenario 1 pins
// CONFIGURE's wire type byte to 0x0001, so slot 0 is reserved and unused —
// see DESIGN.md's Open Question decisions for the full resolution).
const (
	S2BConfigure S2BType = iota + 1
	S2BSubscribeExact
	S2BSubscribeGlob
	S2BUnsubscribeExact
	S2BUnsubscribeGlob
	S2BNotify
	S2BNotifyStream
	S2BConfirmReceive
	S2BContinueReceive

	s2bTypeCount = iota
)

// B2S type codes.
const (
	B2SConfirmConfigure B2SType = iota
	B2SConfirmSubscribeExact
	B2SConfirmSubscribeGlob
	B2SConfirmUnsubscribeExact
	B2SConfirmUnsubscribeGlob
	B2SConfirmNotify
	B2SContinueNotify
	B2SEnableZstdPreset
	B2SEnableZstdCustom
	B2SReceiveStream

	b2sTypeCount = iota
)

var s2bTypeNames = map[S2BType]string{
	S2BConfigure:        "S2BConfigure",
	S2BSubscribeExact:   "S2BSubscribeExact",
	S2BSubscribeGlob:    "S2BSubscribeGlob",
	S2BUnsubscribeExact: "S2BUnsubscribeExact",
	S2BUnsubscribeGlob:  "S2BUnsubscribeGlob",
	S2BNotify:           "S2BNotify",
	S2BNotifyStream:     "S2BNotifyStream",
	S2BConfirmReceive:   "S2BConfirmReceive",
	S2BContinueReceive:  "S2BContinueReceive",
}

var b2sTypeNames = map[B2SType]string{
	B2SConfirmConfigure:        "B2SConfirmConfigure",
	B2SConfirmSubscribeExact:   "B2SConfirmSubscribeExact",
	B2SConfirmSubscribeGlob:    "B2SConfirmSubscribeGlob",
	B2SConfirmUnsubscribeExact: "B2SConfirmUnsubscribeExact",
	B2SConfirmUnsubscribeGlob:  "B2SConfirmUnsubscribeGlob",
	B2SConfirmNotify:           "B2SConfirmNotify",
	B2SContinueNotify:          "B2SContinueNotify",
	B2SEnableZstdPreset:        "B2SEnableZstdPreset",
	B2SEnableZstdCustom:        "B2SEnableZstdCustom",
	B2SReceiveStream:           "B2SReceiveStream",
}

// String renders the symbolic constant name, used as the codec metrics'
// type label (see wire.CodecRecorder).
func (t S2BType) String() string {
	if name, ok := s2bTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// String renders the symbolic constant name.
func (t B2SType) String() string {
	if name, ok := b2sTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// S2BMessage is implemented by every Subscriber→Broadcaster message
// variant. s2bType returns the variant's wire type code.
type S2BMessage interface {
	s2bType() S2BType
}

// B2SMessage is implemented by every Broadcaster→Subscriber message
// variant.
type B2SMessage interface {
	b2sType() B2SType
}

// Header name constants, shared between minimal- and expanded-mode
// encode/decode so the two modes can never drift apart.
const (
	hdrSubscriberNonce  = "x-subscriber-nonce"
	hdrEnableZstd       = "x-enable-zstd"
	hdrEnableTraining   = "x-enable-training"
	hdrInitialDict      = "x-initial-dict"
	hdrBroadcasterNonce = "x-broadcaster-nonce"
	hdrAuthorization    = "x-authorization"
	hdrTopic            = "x-topic"
	hdrGlob             = "x-glob"
	hdrIdentifier       = "x-identifier"
	hdrPartID           = "x-part-id"
	hdrCompressorID     = "x-compressor-id"
	hdrVerifiedSHA512   = "x-verified-sha512"
	hdrDecompressedLen  = "x-decompressed-length"
	hdrSubscribers      = "x-subscribers"
	hdrCompressionLevel = "x-compression-level"
	hdrMinSize          = "x-min-size"
	hdrMaxSize          = "x-max-size"
)

const (
	nonceSize   = 32
	sha512Size  = 64
	maxIdentLen = 64
)
