package wire

import "fmt"

// Flags is the 2-byte flag prefix of a framed message. Only bit 0 is
// defined; every other bit must be zero on read (spec §3).
type Flags uint16

// MinimalHeaders selects the positional header encoding over the named
// expanded encoding.
const MinimalHeaders Flags = 1 << 0

// Minimal reports whether the minimal-header encoding is selected.
func (f Flags) Minimal() bool {
	return f&MinimalHeaders != 0
}

// headerPair is one (name, value) entry from an expanded header block, kept
// in wire order.
type headerPair struct {
	name  string
	value []byte
}

// parseExpandedHeaders reads the `[count]{name,value}*count` block. Unknown
// names are simply left in pairs for the caller to ignore — this function
// never rejects a name it doesn't recognize, since it doesn't know the
// message's expected set (spec §4.2: "unknown names on read MUST be
// preserved-and-ignored").
func parseExpandedHeaders(r *reader) ([]headerPair, error) {
	count, err := r.readU16()
	if err != nil {
		return nil, fmt.Errorf("header count: %w", err)
	}
	pairs := make([]headerPair, 0, count)
	for i := 0; i < int(count); i++ {
		name, err := r.readLenPrefixed()
		if err != nil {
			return nil, fmt.Errorf("header %d name: %w", i, err)
		}
		for _, c := range name {
			if c > 0x7F {
				return nil, fmt.Errorf("header %d name not ASCII: %w", i, ErrMalformed)
			}
		}
		value, err := r.readLenPrefixed()
		if err != nil {
			return nil, fmt.Errorf("header %d (%s) value: %w", i, name, err)
		}
		pairs = append(pairs, headerPair{name: string(name), value: value})
	}
	return pairs, nil
}

// lookupHeader finds name within pairs. A name occurring more than once is
// a Malformed duplicate-known-header error (spec §4.2); a name absent
// entirely reports present=false so the caller can apply its own
// default/required policy.
func lookupHeader(pairs []headerPair, name string) (value []byte, present bool, err error) {
	for _, p := range pairs {
		if p.name != name {
			continue
		}
		if present {
			return nil, false, fmt.Errorf("duplicate header %q: %w", name, ErrMalformed)
		}
		value, present = p.value, true
	}
	return value, present, nil
}

// requireHeader is lookupHeader plus the mandatory-presence check shared by
// nearly every message's expanded-mode decode.
func requireHeader(pairs []headerPair, name string) ([]byte, error) {
	v, ok, err := lookupHeader(pairs, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("missing required header %q: %w", name, ErrMalformed)
	}
	return v, nil
}

// readMinimalValues reads count positional length-prefixed values in
// order, failing Truncated if the frame ends before any of them (spec
// §4.2: minimal-header parse has no count prefix, names are implicit by
// position).
func readMinimalValues(r *reader, count int) ([][]byte, error) {
	values := make([][]byte, count)
	for i := 0; i < count; i++ {
		v, err := r.readLenPrefixed()
		if err != nil {
			return nil, fmt.Errorf("minimal header position %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

// readOptionalMinimalValue reads one more positional value if the frame has
// any bytes left at all, otherwise reports ok=false so the caller can apply
// its documented default (spec §6: "(3 initial_dict — optional, default
// 0)"). A frame with some bytes left but not enough for a full length
// prefix + value is still Truncated, not "absent".
func readOptionalMinimalValue(r *reader) (value []byte, ok bool, err error) {
	if r.remaining() == 0 {
		return nil, false, nil
	}
	v, err := r.readLenPrefixed()
	if err != nil {
		return nil, false, fmt.Errorf("optional minimal header: %w", err)
	}
	return v, true, nil
}

// writeExpandedHeaders serializes the `[count]{name,value}*count` block.
// names/values must be parallel and every name must be ASCII and at most
// 65535 bytes — violations are a programmer error (spec §4.2), so this
// panics rather than returning an error.
func writeExpandedHeaders(names []string, values [][]byte) []byte {
	if len(names) != len(values) {
		panic("wire: header name/value slice length mismatch")
	}
	out := writeU16BE(nil, uint16(len(names)))
	for i, name := range names {
		if len(name) > maxU16 {
			panic("wire: header name exceeds u16 length")
		}
		for _, c := range []byte(name) {
			if c > 0x7F {
				panic("wire: header name not ASCII")
			}
		}
		out = writeLenPrefixed(out, []byte(name))
		out = writeLenPrefixed(out, values[i])
	}
	return out
}

// writeMinimalHeaders serializes the positional `{value}*K` block, values
// already in position order. Trailing nil entries are still written as
// zero-length values so minimal mode round-trips optional-but-present
// fields; callers wanting a genuinely-absent optional trailing field
// should simply omit it from values.
func writeMinimalHeaders(values [][]byte) []byte {
	var out []byte
	for _, v := range values {
		out = writeLenPrefixed(out, v)
	}
	return out
}
