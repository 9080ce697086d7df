package wire

import "testing"

// recordingCodec is a minimal CodecRecorder stand-in that records every
// call it receives.
type recordingCodec struct {
	messages []string
	errs     []string
}

func (r *recordingCodec) IncCodecMessage(direction, messageType string) {
	r.messages = append(r.messages, direction+":"+messageType)
}

func (r *recordingCodec) IncCodecError(direction, reason string) {
	r.errs = append(r.errs, direction+":"+reason)
}

func TestParseS2BFrameRecordingSuccess(t *testing.T) {
	t.Parallel()

	rec := &recordingCodec{}
	msg := &S2BSubscribeExactMsg{Topic: []byte("t")}
	raw := msg.Marshal(true)

	got, err := ParseS2BFrameRecording(raw, rec)
	if err != nil {
		t.Fatalf("ParseS2BFrameRecording: %v", err)
	}
	if _, ok := got.(*S2BSubscribeExactMsg); !ok {
		t.Fatalf("got %T, want *S2BSubscribeExactMsg", got)
	}
	if want := []string{"s2b:S2BSubscribeExact"}; len(rec.messages) != 1 || rec.messages[0] != want[0] {
		t.Fatalf("messages = %v, want %v", rec.messages, want)
	}
	if len(rec.errs) != 0 {
		t.Fatalf("errs = %v, want none", rec.errs)
	}
}

func TestParseS2BFrameRecordingError(t *testing.T) {
	t.Parallel()

	rec := &recordingCodec{}
	if _, err := ParseS2BFrameRecording([]byte{0x00}, rec); err == nil {
		t.Fatal("expected error for truncated frame")
	}
	if len(rec.messages) != 0 {
		t.Fatalf("messages = %v, want none", rec.messages)
	}
	if want := []string{"s2b:truncated"}; len(rec.errs) != 1 || rec.errs[0] != want[0] {
		t.Fatalf("errs = %v, want %v", rec.errs, want)
	}
}

func TestParseB2SFrameRecordingSuccess(t *testing.T) {
	t.Parallel()

	rec := &recordingCodec{}
	msg := &B2SConfirmSubscribeExactMsg{Topic: []byte("t")}
	raw := msg.Marshal(true)

	got, err := ParseB2SFrameRecording(raw, rec)
	if err != nil {
		t.Fatalf("ParseB2SFrameRecording: %v", err)
	}
	if _, ok := got.(*B2SConfirmSubscribeExactMsg); !ok {
		t.Fatalf("got %T, want *B2SConfirmSubscribeExactMsg", got)
	}
	if want := []string{"b2s:B2SConfirmSubscribeExact"}; len(rec.messages) != 1 || rec.messages[0] != want[0] {
		t.Fatalf("messages = %v, want %v", rec.messages, want)
	}
}
