package wire

import "fmt"

func parseIdentifierAndPartID(flags Flags, r *reader) ([]byte, uint64, error) {
	var identifier, partID []byte
	var err error
	if flags.Minimal() {
		vals, verr := readMinimalValues(r, 2)
		if verr != nil {
			return nil, 0, verr
		}
		identifier, partID = vals[0], vals[1]
	} else {
		pairs, perr := parseExpandedHeaders(r)
		if perr != nil {
			return nil, 0, perr
		}
		if identifier, err = requireHeader(pairs, hdrIdentifier); err != nil {
			return nil, 0, err
		}
		if partID, err = requireHeader(pairs, hdrPartID); err != nil {
			return nil, 0, err
		}
	}
	if err := validateIdentifier(identifier); err != nil {
		return nil, 0, err
	}
	if len(partID) > 8 {
		return nil, 0, fmt.Errorf("%s: %d bytes exceeds max 8: %w", hdrPartID, len(partID), ErrMalformed)
	}
	n, err := readMinimalUnsigned(partID)
	if err != nil {
		return nil, 0, err
	}
	return identifier, n, nil
}

func marshalIdentifierAndPartID(minimal bool, identifier []byte, partID uint64) []byte {
	encoded := minimalUnsigned(partID)
	if minimal {
		return writeMinimalHeaders([][]byte{identifier, encoded})
	}
	return writeExpandedHeaders([]string{hdrIdentifier, hdrPartID}, [][]byte{identifier, encoded})
}

// S2BContinueReceiveMsg acknowledges one part of an in-progress
// B2S_ReceiveStream, requesting the next part.
type S2BContinueReceiveMsg struct {
	Identifier []byte
	PartID     uint64
}

func (*S2BContinueReceiveMsg) s2bType() S2BType { return S2BContinueReceive }

func parseS2BContinueReceive(flags Flags, r *reader) (*S2BContinueReceiveMsg, error) {
	id, partID, err := parseIdentifierAndPartID(flags, r)
	if err != nil {
		return nil, err
	}
	return &S2BContinueReceiveMsg{Identifier: id, PartID: partID}, nil
}

// Marshal serializes msg.
func (msg *S2BContinueReceiveMsg) Marshal(minimal bool) []byte {
	return frame(minimal, uint16(S2BContinueReceive), marshalIdentifierAndPartID(minimal, msg.Identifier, msg.PartID))
}

// B2SContinueNotifyMsg grants permission to send the next part of an
// in-progress S2B_NotifyStream.
type B2SContinueNotifyMsg struct {
	Identifier []byte
	PartID     uint64
}

func (*B2SContinueNotifyMsg) b2sType() B2SType { return B2SContinueNotify }

func parseB2SContinueNotify(flags Flags, r *reader) (*B2SContinueNotifyMsg, error) {
	id, partID, err := parseIdentifierAndPartID(flags, r)
	if err != nil {
		return nil, err
	}
	return &B2SContinueNotifyMsg{Identifier: id, PartID: partID}, nil
}

// Marshal serializes msg.
func (msg *B2SContinueNotifyMsg) Marshal(minimal bool) []byte {
	return frame(minimal, uint16(B2SContinueNotify), marshalIdentifierAndPartID(minimal, msg.Identifier, msg.PartID))
}
