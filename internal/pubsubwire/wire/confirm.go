package wire

// S2BConfirmReceiveMsg acknowledges a completed B2S_ReceiveStream/Notify
// delivery by Identifier.
type S2BConfirmReceiveMsg struct {
	Identifier []byte
}

func (*S2BConfirmReceiveMsg) s2bType() S2BType { return S2BConfirmReceive }

func parseS2BConfirmReceive(flags Flags, r *reader) (*S2BConfirmReceiveMsg, error) {
	id, err := parseSingleIdentifier(flags, r)
	if err != nil {
		return nil, err
	}
	return &S2BConfirmReceiveMsg{Identifier: id}, nil
}

// Marshal serializes msg.
func (msg *S2BConfirmReceiveMsg) Marshal(minimal bool) []byte {
	return frame(minimal, uint16(S2BConfirmReceive), marshalSingleIdentifier(minimal, msg.Identifier))
}

// B2SConfirmNotifyMsg acknowledges a completed S2B_Notify/NotifyStream,
// optionally reporting how many subscribers received it.
type B2SConfirmNotifyMsg struct {
	Identifier []byte

	// Subscribers is optional; absent (not sent) decodes as 0 (spec §6
	// discipline extended symmetrically from initial_dict, see
	// SPEC_FULL.md §3).
	Subscribers uint64
}

func (*B2SConfirmNotifyMsg) b2sType() B2SType { return B2SConfirmNotify }

func parseB2SConfirmNotify(flags Flags, r *reader) (*B2SConfirmNotifyMsg, error) {
	msg := &B2SConfirmNotifyMsg{}
	if flags.Minimal() {
		vals, err := readMinimalValues(r, 1)
		if err != nil {
			return nil, err
		}
		if err := validateIdentifier(vals[0]); err != nil {
			return nil, err
		}
		msg.Identifier = vals[0]
		if subs, present, serr := readOptionalMinimalValue(r); serr != nil {
			return nil, serr
		} else if present {
			n, err := readMinimalUnsigned(subs)
			if err != nil {
				return nil, err
			}
			msg.Subscribers = n
		}
		return msg, nil
	}

	pairs, err := parseExpandedHeaders(r)
	if err != nil {
		return nil, err
	}
	id, err := requireHeader(pairs, hdrIdentifier)
	if err != nil {
		return nil, err
	}
	if err := validateIdentifier(id); err != nil {
		return nil, err
	}
	msg.Identifier = id
	if subs, ok, lerr := lookupHeader(pairs, hdrSubscribers); lerr != nil {
		return nil, lerr
	} else if ok {
		n, err := readMinimalUnsigned(subs)
		if err != nil {
			return nil, err
		}
		msg.Subscribers = n
	}
	return msg, nil
}

// Marshal serializes msg.
func (msg *B2SConfirmNotifyMsg) Marshal(minimal bool) []byte {
	subs := minimalUnsigned(msg.Subscribers)
	var body []byte
	if minimal {
		body = writeMinimalHeaders([][]byte{msg.Identifier, subs})
	} else {
		body = writeExpandedHeaders([]string{hdrIdentifier, hdrSubscribers}, [][]byte{msg.Identifier, subs})
	}
	return frame(minimal, uint16(B2SConfirmNotify), body)
}

func parseSingleIdentifier(flags Flags, r *reader) ([]byte, error) {
	var id []byte
	var err error
	if flags.Minimal() {
		vals, verr := readMinimalValues(r, 1)
		if verr != nil {
			return nil, verr
		}
		id = vals[0]
	} else {
		pairs, perr := parseExpandedHeaders(r)
		if perr != nil {
			return nil, perr
		}
		if id, err = requireHeader(pairs, hdrIdentifier); err != nil {
			return nil, err
		}
	}
	if err := validateIdentifier(id); err != nil {
		return nil, err
	}
	return id, nil
}

func marshalSingleIdentifier(minimal bool, id []byte) []byte {
	if minimal {
		return writeMinimalHeaders([][]byte{id})
	}
	return writeExpandedHeaders([]string{hdrIdentifier}, [][]byte{id})
}
