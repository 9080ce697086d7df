package wire

import "fmt"

// zstdPreset is the field set shared by B2SEnableZstdPresetMsg and
// B2SEnableZstdCustomMsg (spec §3).
type zstdPreset struct {
	Identifier       []byte
	CompressionLevel int16
	MinSize          uint64
	MaxSize          uint64
}

func parseZstdPreset(flags Flags, r *reader) (zstdPreset, error) {
	var p zstdPreset
	var identifier, level, minSize, maxSize []byte
	var err error

	if flags.Minimal() {
		vals, verr := readMinimalValues(r, 4)
		if verr != nil {
			return p, verr
		}
		identifier, level, minSize, maxSize = vals[0], vals[1], vals[2], vals[3]
	} else {
		pairs, perr := parseExpandedHeaders(r)
		if perr != nil {
			return p, perr
		}
		if identifier, err = requireHeader(pairs, hdrIdentifier); err != nil {
			return p, err
		}
		if level, err = requireHeader(pairs, hdrCompressionLevel); err != nil {
			return p, err
		}
		if minSize, err = requireHeader(pairs, hdrMinSize); err != nil {
			return p, err
		}
		if maxSize, err = requireHeader(pairs, hdrMaxSize); err != nil {
			return p, err
		}
	}

	if err := validateIdentifier(identifier); err != nil {
		return p, err
	}
	p.Identifier = identifier
	if len(level) != 2 {
		return p, fmt.Errorf("%s: expected 2 bytes, got %d: %w", hdrCompressionLevel, len(level), ErrMalformed)
	}
	p.CompressionLevel = int16(uint16(level[0])<<8 | uint16(level[1]))
	if len(minSize) > 4 {
		return p, fmt.Errorf("%s: %d bytes exceeds max 4: %w", hdrMinSize, len(minSize), ErrMalformed)
	}
	if p.MinSize, err = readMinimalUnsigned(minSize); err != nil {
		return p, err
	}
	if len(maxSize) > 8 {
		return p, fmt.Errorf("%s: %d bytes exceeds max 8: %w", hdrMaxSize, len(maxSize), ErrMalformed)
	}
	if p.MaxSize, err = readMinimalUnsigned(maxSize); err != nil {
		return p, err
	}
	return p, nil
}

func (p zstdPreset) marshal(minimal bool) []byte {
	level := writeI16BE(nil, p.CompressionLevel)
	minSize := minimalUnsigned(p.MinSize)
	maxSize := minimalUnsigned(p.MaxSize)
	if minimal {
		return writeMinimalHeaders([][]byte{p.Identifier, level, minSize, maxSize})
	}
	return writeExpandedHeaders(
		[]string{hdrIdentifier, hdrCompressionLevel, hdrMinSize, hdrMaxSize},
		[][]byte{p.Identifier, level, minSize, maxSize},
	)
}

// B2SEnableZstdPresetMsg instructs a subscriber to use a broadcaster-
// chosen preset zstd dictionary for future streams on Identifier.
type B2SEnableZstdPresetMsg struct {
	zstdPreset
}

func (*B2SEnableZstdPresetMsg) b2sType() B2SType { return B2SEnableZstdPreset }

func parseB2SEnableZstdPreset(flags Flags, r *reader) (*B2SEnableZstdPresetMsg, error) {
	p, err := parseZstdPreset(flags, r)
	if err != nil {
		return nil, err
	}
	return &B2SEnableZstdPresetMsg{zstdPreset: p}, nil
}

// Marshal serializes msg.
func (msg *B2SEnableZstdPresetMsg) Marshal(minimal bool) []byte {
	return frame(minimal, uint16(B2SEnableZstdPreset), msg.zstdPreset.marshal(minimal))
}

// B2SEnableZstdCustomMsg is B2SEnableZstdPresetMsg plus an opaque custom
// dictionary occupying the rest of the frame (spec §9's second Open
// Question: the dictionary is read as "all remaining bytes", so the
// caller must present a framed, length-bounded input source).
type B2SEnableZstdCustomMsg struct {
	zstdPreset
	Dictionary []byte
}

func (*B2SEnableZstdCustomMsg) b2sType() B2SType { return B2SEnableZstdCustom }

func parseB2SEnableZstdCustom(flags Flags, r *reader) (*B2SEnableZstdCustomMsg, error) {
	p, err := parseZstdPreset(flags, r)
	if err != nil {
		return nil, err
	}
	return &B2SEnableZstdCustomMsg{zstdPreset: p, Dictionary: r.rest()}, nil
}

// Marshal serializes msg.
func (msg *B2SEnableZstdCustomMsg) Marshal(minimal bool) []byte {
	body := msg.zstdPreset.marshal(minimal)
	body = append(body, msg.Dictionary...)
	return frame(minimal, uint16(B2SEnableZstdCustom), body)
}
