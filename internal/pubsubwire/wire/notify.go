package wire

import "fmt"

// S2BNotifyMsg asks the broadcaster to fan a message out to subscribers of
// Topic. The two Python variants (uncompressed / compressed) are flattened
// into one struct discriminated by CompressorID, mirroring the way the
// teacher's ControlPacket carries an optional AuthSection behind a
// discriminant flag rather than a separate Go type per variant.
//
// DecompressedLength is meaningful only when CompressorID != 0.
type S2BNotifyMsg struct {
	Authorization  string
	Identifier     []byte
	Topic          []byte
	CompressorID   uint64
	VerifiedSHA512 [sha512Size]byte

	// DecompressedLength is meaningful iff CompressorID != 0.
	DecompressedLength uint64

	// Message is the trailing payload: uncompressed_message when
	// CompressorID == 0, compressed_message otherwise.
	Message []byte
}

func (*S2BNotifyMsg) s2bType() S2BType { return S2BNotify }

func validateIdentifier(id []byte) error {
	if len(id) > maxIdentLen {
		return fmt.Errorf("identifier: %d bytes exceeds max %d: %w", len(id), maxIdentLen, ErrMalformed)
	}
	return nil
}

func parseSHA512(b []byte, field string) ([sha512Size]byte, error) {
	var out [sha512Size]byte
	if len(b) != sha512Size {
		return out, fmt.Errorf("%s: expected %d bytes, got %d: %w", field, sha512Size, len(b), ErrMalformed)
	}
	copy(out[:], b)
	return out, nil
}

func parseS2BNotify(flags Flags, r *reader) (*S2BNotifyMsg, error) {
	msg := &S2BNotifyMsg{}
	var compressorID, identifier, topic, sha []byte
	var err error

	if flags.Minimal() {
		vals, err := readMinimalValues(r, 5)
		if err != nil {
			return nil, err
		}
		msg.Authorization = string(vals[0])
		identifier, topic, compressorID, sha = vals[1], vals[2], vals[3], vals[4]
		if dict, present, derr := readOptionalMinimalValue(r); derr != nil {
			return nil, derr
		} else if present {
			if msg.DecompressedLength, err = readMinimalUnsigned(dict); err != nil {
				return nil, err
			}
		}
	} else {
		pairs, perr := parseExpandedHeaders(r)
		if perr != nil {
			return nil, perr
		}
		if v, ok, lerr := lookupHeader(pairs, hdrAuthorization); lerr != nil {
			return nil, lerr
		} else if ok {
			msg.Authorization = string(v)
		}
		if identifier, err = requireHeader(pairs, hdrIdentifier); err != nil {
			return nil, err
		}
		if topic, err = requireHeader(pairs, hdrTopic); err != nil {
			return nil, err
		}
		if compressorID, err = requireHeader(pairs, hdrCompressorID); err != nil {
			return nil, err
		}
		if sha, err = requireHeader(pairs, hdrVerifiedSHA512); err != nil {
			return nil, err
		}
		if dict, ok, lerr := lookupHeader(pairs, hdrDecompressedLen); lerr != nil {
			return nil, lerr
		} else if ok {
			if msg.DecompressedLength, err = readMinimalUnsigned(dict); err != nil {
				return nil, err
			}
		}
	}

	if err := validateIdentifier(identifier); err != nil {
		return nil, err
	}
	msg.Identifier = identifier
	msg.Topic = topic
	if len(compressorID) > 8 {
		return nil, fmt.Errorf("%s: %d bytes exceeds max 8: %w", hdrCompressorID, len(compressorID), ErrMalformed)
	}
	if msg.CompressorID, err = readMinimalUnsigned(compressorID); err != nil {
		return nil, err
	}
	if msg.VerifiedSHA512, err = parseSHA512(sha, hdrVerifiedSHA512); err != nil {
		return nil, err
	}
	msg.Message = r.rest()
	return msg, nil
}

// Marshal serializes msg.
func (msg *S2BNotifyMsg) Marshal(minimal bool) []byte {
	compressorID := minimalUnsigned(msg.CompressorID)
	decompLen := minimalUnsigned(msg.DecompressedLength)
	var body []byte
	if minimal {
		body = writeMinimalHeaders([][]byte{
			authValue(msg.Authorization),
			msg.Identifier,
			msg.Topic,
			compressorID,
			msg.VerifiedSHA512[:],
			decompLen,
		})
	} else {
		names := []string{hdrIdentifier, hdrTopic, hdrCompressorID, hdrVerifiedSHA512, hdrDecompressedLen}
		values := [][]byte{msg.Identifier, msg.Topic, compressorID, msg.VerifiedSHA512[:], decompLen}
		if msg.Authorization != "" {
			names = append([]string{hdrAuthorization}, names...)
			values = append([][]byte{authValue(msg.Authorization)}, values...)
		}
		body = writeExpandedHeaders(names, values)
	}
	body = append(body, msg.Message...)
	return frame(minimal, uint16(S2BNotify), body)
}
