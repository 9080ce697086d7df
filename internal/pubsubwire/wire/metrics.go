package wire

import "errors"

// CodecRecorder receives one count per ParseS2BFrameRecording or
// ParseB2SFrameRecording call. It mirrors pubsubauth.MetricsRecorder's
// choke-point pattern: the codec package stays metrics-agnostic, and a
// caller that wants counters passes one in instead of the codec reaching
// out to a global collector.
type CodecRecorder interface {
	IncCodecMessage(direction, messageType string)
	IncCodecError(direction, reason string)
}

// codecErrorReason classifies a Parse*Frame error into the CodecErrors
// metric's reason label.
func codecErrorReason(err error) string {
	switch {
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrUnsupportedType):
		return "unsupported_type"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "unknown"
	}
}

// ParseS2BFrameRecording is ParseS2BFrame with rec notified of the outcome:
// one IncCodecMessage on success, one IncCodecError on failure.
func ParseS2BFrameRecording(raw []byte, rec CodecRecorder) (S2BMessage, error) {
	msg, err := ParseS2BFrame(raw)
	if err != nil {
		rec.IncCodecError("s2b", codecErrorReason(err))
		return nil, err
	}
	rec.IncCodecMessage("s2b", msg.s2bType().String())
	return msg, nil
}

// ParseB2SFrameRecording is ParseB2SFrame's Broadcaster→Subscriber
// counterpart.
func ParseB2SFrameRecording(raw []byte, rec CodecRecorder) (B2SMessage, error) {
	msg, err := ParseB2SFrame(raw)
	if err != nil {
		rec.IncCodecError("b2s", codecErrorReason(err))
		return nil, err
	}
	rec.IncCodecMessage("b2s", msg.b2sType().String())
	return msg, nil
}
