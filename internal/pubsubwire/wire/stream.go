package wire

import "fmt"

// streamFields is the shape shared by S2BNotifyStreamMsg and
// B2SReceiveStreamMsg: a logical notification split into a part_id=0 start
// frame carrying metadata and subsequent frames carrying only payload
// continuation (spec §3, §9 "Streaming messages"). The codec is
// memoryless across frames — it neither validates part_id ordering nor
// reassembles Payload across calls.
type streamFields struct {
	Identifier    []byte
	PartID        uint64
	Authorization string

	// CompressorID, DecompressedLength, and VerifiedSHA512 are meaningful
	// only when PartID == 0.
	CompressorID       uint64
	DecompressedLength uint64
	VerifiedSHA512     [sha512Size]byte

	// Payload is the trailing continuation payload, meaningful only when
	// PartID != 0.
	Payload []byte
}

func parseStreamFields(flags Flags, r *reader) (streamFields, error) {
	var f streamFields
	var identifier, partID, compressorID, decompLen, sha []byte
	var pairs []headerPair
	var err error

	if flags.Minimal() {
		vals, verr := readMinimalValues(r, 3)
		if verr != nil {
			return f, verr
		}
		identifier, partID, f.Authorization = vals[0], vals[1], string(vals[2])
	} else {
		pairs, err = parseExpandedHeaders(r)
		if err != nil {
			return f, err
		}
		if identifier, err = requireHeader(pairs, hdrIdentifier); err != nil {
			return f, err
		}
		if partID, err = requireHeader(pairs, hdrPartID); err != nil {
			return f, err
		}
		if v, ok, lerr := lookupHeader(pairs, hdrAuthorization); lerr != nil {
			return f, lerr
		} else if ok {
			f.Authorization = string(v)
		}
	}

	if err := validateIdentifier(identifier); err != nil {
		return f, err
	}
	f.Identifier = identifier
	if len(partID) > 8 {
		return f, fmt.Errorf("%s: %d bytes exceeds max 8: %w", hdrPartID, len(partID), ErrMalformed)
	}
	if f.PartID, err = readMinimalUnsigned(partID); err != nil {
		return f, err
	}

	// Start frames (part_id == 0) carry compressor_id/decompressed_length/
	// sha512 start metadata; continuation frames (part_id != 0) carry none
	// of it, only the trailing payload (spec §3: "When nonzero, carries
	// only payload continuation").
	if f.PartID == 0 {
		if flags.Minimal() {
			startVals, serr := readMinimalValues(r, 3)
			if serr != nil {
				return f, serr
			}
			compressorID, decompLen, sha = startVals[0], startVals[1], startVals[2]
		} else {
			if compressorID, err = requireHeader(pairs, hdrCompressorID); err != nil {
				return f, err
			}
			if decompLen, err = requireHeader(pairs, hdrDecompressedLen); err != nil {
				return f, err
			}
			if sha, err = requireHeader(pairs, hdrVerifiedSHA512); err != nil {
				return f, err
			}
		}
		if len(compressorID) > 8 {
			return f, fmt.Errorf("%s: %d bytes exceeds max 8: %w", hdrCompressorID, len(compressorID), ErrMalformed)
		}
		if f.CompressorID, err = readMinimalUnsigned(compressorID); err != nil {
			return f, err
		}
		if f.DecompressedLength, err = readMinimalUnsigned(decompLen); err != nil {
			return f, err
		}
		if f.VerifiedSHA512, err = parseSHA512(sha, hdrVerifiedSHA512); err != nil {
			return f, err
		}
	}
	f.Payload = r.rest()
	return f, nil
}

func (f streamFields) marshal(minimal bool) []byte {
	partID := minimalUnsigned(f.PartID)
	var body []byte
	if minimal {
		values := [][]byte{f.Identifier, partID, authValue(f.Authorization)}
		if f.PartID == 0 {
			values = append(values,
				minimalUnsigned(f.CompressorID),
				minimalUnsigned(f.DecompressedLength),
				f.VerifiedSHA512[:],
			)
		}
		body = writeMinimalHeaders(values)
	} else {
		names := []string{hdrIdentifier, hdrPartID}
		values := [][]byte{f.Identifier, partID}
		if f.Authorization != "" {
			names = append(names, hdrAuthorization)
			values = append(values, authValue(f.Authorization))
		}
		if f.PartID == 0 {
			names = append(names, hdrCompressorID, hdrDecompressedLen, hdrVerifiedSHA512)
			values = append(values,
				minimalUnsigned(f.CompressorID),
				minimalUnsigned(f.DecompressedLength),
				f.VerifiedSHA512[:],
			)
		}
		body = writeExpandedHeaders(names, values)
	}
	return append(body, f.Payload...)
}

// S2BNotifyStreamMsg is the streamed form of S2BNotifyMsg.
type S2BNotifyStreamMsg struct {
	streamFields
}

func (*S2BNotifyStreamMsg) s2bType() S2BType { return S2BNotifyStream }

func parseS2BNotifyStream(flags Flags, r *reader) (*S2BNotifyStreamMsg, error) {
	f, err := parseStreamFields(flags, r)
	if err != nil {
		return nil, err
	}
	return &S2BNotifyStreamMsg{streamFields: f}, nil
}

// Marshal serializes msg.
func (msg *S2BNotifyStreamMsg) Marshal(minimal bool) []byte {
	return frame(minimal, uint16(S2BNotifyStream), msg.streamFields.marshal(minimal))
}

// B2SReceiveStreamMsg is the streamed form delivered to subscribers.
type B2SReceiveStreamMsg struct {
	streamFields
}

func (*B2SReceiveStreamMsg) b2sType() B2SType { return B2SReceiveStream }

func parseB2SReceiveStream(flags Flags, r *reader) (*B2SReceiveStreamMsg, error) {
	f, err := parseStreamFields(flags, r)
	if err != nil {
		return nil, err
	}
	return &B2SReceiveStreamMsg{streamFields: f}, nil
}

// Marshal serializes msg.
func (msg *B2SReceiveStreamMsg) Marshal(minimal bool) []byte {
	return frame(minimal, uint16(B2SReceiveStream), msg.streamFields.marshal(minimal))
}
