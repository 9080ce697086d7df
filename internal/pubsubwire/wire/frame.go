package wire

import "fmt"

// frame prepends the 2-byte flags and 2-byte type code to body, producing
// one complete transport frame (spec §3: "every framed message: [2-byte
// flags][2-byte type][headers...][payload bytes...]").
func frame(minimal bool, typeCode uint16, body []byte) []byte {
	var flags Flags
	if minimal {
		flags = MinimalHeaders
	}
	out := writeU16BE(nil, uint16(flags))
	out = writeU16BE(out, typeCode)
	return append(out, body...)
}

// splitFrame reads the 2-byte flags and 2-byte type prefix off raw and
// returns them along with a reader positioned at the headers that follow.
func splitFrame(raw []byte) (Flags, uint16, *reader, error) {
	r := newReader(raw)
	rawFlags, err := r.readU16()
	if err != nil {
		return 0, 0, nil, fmt.Errorf("frame flags: %w", err)
	}
	typeCode, err := r.readU16()
	if err != nil {
		return 0, 0, nil, fmt.Errorf("frame type: %w", err)
	}
	return Flags(rawFlags), typeCode, r, nil
}
