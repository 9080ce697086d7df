package wire

import "fmt"

// S2BConfigureMsg opens a stateful session (spec §3 S2B_Configure).
type S2BConfigureMsg struct {
	SubscriberNonce [nonceSize]byte
	EnableZstd      bool
	EnableTraining  bool

	// InitialDict is optional; absent encodes and decodes as 0 (spec's
	// first Open Question resolves the expanded-header form the same way
	// as minimal: both treat the header as optional-default-0).
	InitialDict uint64
}

func (*S2BConfigureMsg) s2bType() S2BType { return S2BConfigure }

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func parseBoolByte(b []byte, field string) (bool, error) {
	if len(b) != 1 {
		return false, fmt.Errorf("%s: expected 1 byte, got %d: %w", field, len(b), ErrMalformed)
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%s: value %d not in {0,1}: %w", field, b[0], ErrMalformed)
	}
}

func parseNonce(b []byte, field string) ([nonceSize]byte, error) {
	var out [nonceSize]byte
	if len(b) != nonceSize {
		return out, fmt.Errorf("%s: expected %d bytes, got %d: %w", field, nonceSize, len(b), ErrMalformed)
	}
	copy(out[:], b)
	return out, nil
}

func parseS2BConfigure(flags Flags, r *reader) (*S2BConfigureMsg, error) {
	msg := &S2BConfigureMsg{}
	if flags.Minimal() {
		vals, err := readMinimalValues(r, 3)
		if err != nil {
			return nil, err
		}
		nonce, err := parseNonce(vals[0], hdrSubscriberNonce)
		if err != nil {
			return nil, err
		}
		msg.SubscriberNonce = nonce
		if msg.EnableZstd, err = parseBoolByte(vals[1], hdrEnableZstd); err != nil {
			return nil, err
		}
		if msg.EnableTraining, err = parseBoolByte(vals[2], hdrEnableTraining); err != nil {
			return nil, err
		}
		dict, present, err := readOptionalMinimalValue(r)
		if err != nil {
			return nil, err
		}
		if present {
			if len(dict) > 2 {
				return nil, fmt.Errorf("%s: %d bytes exceeds max 2: %w", hdrInitialDict, len(dict), ErrMalformed)
			}
			if msg.InitialDict, err = readMinimalUnsigned(dict); err != nil {
				return nil, err
			}
		}
		return msg, nil
	}

	pairs, err := parseExpandedHeaders(r)
	if err != nil {
		return nil, err
	}
	nonceBytes, err := requireHeader(pairs, hdrSubscriberNonce)
	if err != nil {
		return nil, err
	}
	if msg.SubscriberNonce, err = parseNonce(nonceBytes, hdrSubscriberNonce); err != nil {
		return nil, err
	}
	zstdBytes, err := requireHeader(pairs, hdrEnableZstd)
	if err != nil {
		return nil, err
	}
	if msg.EnableZstd, err = parseBoolByte(zstdBytes, hdrEnableZstd); err != nil {
		return nil, err
	}
	trainingBytes, err := requireHeader(pairs, hdrEnableTraining)
	if err != nil {
		return nil, err
	}
	if msg.EnableTraining, err = parseBoolByte(trainingBytes, hdrEnableTraining); err != nil {
		return nil, err
	}
	if dict, present, err := lookupHeader(pairs, hdrInitialDict); err != nil {
		return nil, err
	} else if present {
		if len(dict) > 2 {
			return nil, fmt.Errorf("%s: %d bytes exceeds max 2: %w", hdrInitialDict, len(dict), ErrMalformed)
		}
		if msg.InitialDict, err = readMinimalUnsigned(dict); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

// Marshal serializes msg, setting/clearing the MinimalHeaders flag bit per
// minimal.
func (msg *S2BConfigureMsg) Marshal(minimal bool) []byte {
	dict := minimalUnsigned(msg.InitialDict)
	var body []byte
	if minimal {
		body = writeMinimalHeaders([][]byte{
			msg.SubscriberNonce[:],
			{boolByte(msg.EnableZstd)},
			{boolByte(msg.EnableTraining)},
			dict,
		})
	} else {
		body = writeExpandedHeaders(
			[]string{hdrSubscriberNonce, hdrEnableZstd, hdrEnableTraining, hdrInitialDict},
			[][]byte{msg.SubscriberNonce[:], {boolByte(msg.EnableZstd)}, {boolByte(msg.EnableTraining)}, dict},
		)
	}
	return frame(minimal, uint16(S2BConfigure), body)
}

// B2SConfirmConfigureMsg acknowledges S2BConfigureMsg with the
// broadcaster's own nonce (spec §3 B2S_ConfirmConfigure).
type B2SConfirmConfigureMsg struct {
	BroadcasterNonce [nonceSize]byte
}

func (*B2SConfirmConfigureMsg) b2sType() B2SType { return B2SConfirmConfigure }

func parseB2SConfirmConfigure(flags Flags, r *reader) (*B2SConfirmConfigureMsg, error) {
	var raw []byte
	var err error
	if flags.Minimal() {
		vals, err := readMinimalValues(r, 1)
		if err != nil {
			return nil, err
		}
		raw = vals[0]
	} else {
		pairs, perr := parseExpandedHeaders(r)
		if perr != nil {
			return nil, perr
		}
		raw, err = requireHeader(pairs, hdrBroadcasterNonce)
		if err != nil {
			return nil, err
		}
	}
	nonce, err := parseNonce(raw, hdrBroadcasterNonce)
	if err != nil {
		return nil, err
	}
	return &B2SConfirmConfigureMsg{BroadcasterNonce: nonce}, nil
}

// Marshal serializes msg.
func (msg *B2SConfirmConfigureMsg) Marshal(minimal bool) []byte {
	var body []byte
	if minimal {
		body = writeMinimalHeaders([][]byte{msg.BroadcasterNonce[:]})
	} else {
		body = writeExpandedHeaders([]string{hdrBroadcasterNonce}, [][]byte{msg.BroadcasterNonce[:]})
	}
	return frame(minimal, uint16(B2SConfirmConfigure), body)
}
