package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Sentinel error kinds. Every parse failure wraps one of these three so a
// caller can classify a failure without string matching (spec §7).
var (
	// ErrTruncated means the input ended before a field could be read.
	ErrTruncated = errors.New("wire: truncated")

	// ErrMalformed means a field violated a width or value invariant.
	ErrMalformed = errors.New("wire: malformed")

	// ErrUnsupportedType means the type code has no registered parser.
	ErrUnsupportedType = errors.New("wire: unsupported type")
)

// maxU16 bounds every length prefix used by the codec (name-len, value-len,
// header count) to 65535, per spec §4.1.
const maxU16 = 0xFFFF

// reader is a cursor over an in-memory frame. It never copies; every
// returned []byte aliases buf.
type reader struct {
	buf []byte
	off int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

// take returns the next n bytes and advances the cursor, or ErrTruncated if
// fewer than n bytes remain.
func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, fmt.Errorf("need %d bytes, have %d: %w", n, r.remaining(), ErrTruncated)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// rest returns every byte left in the frame without advancing past the end;
// used for trailing payloads (spec §4.3: "reading any trailing payload").
func (r *reader) rest() []byte {
	b := r.buf[r.off:]
	r.off = len(r.buf)
	return b
}

func (r *reader) readU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) readI16() (int16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

// readLenPrefixed reads a u16 length followed by that many bytes — the
// shape used by every length-prefixed header value and canonical field.
func (r *reader) readLenPrefixed() ([]byte, error) {
	n, err := r.readU16()
	if err != nil {
		return nil, fmt.Errorf("length prefix: %w", err)
	}
	b, err := r.take(int(n))
	if err != nil {
		return nil, fmt.Errorf("length-prefixed value: %w", err)
	}
	return b, nil
}

// readFixed reads exactly n bytes, failing with ErrTruncated when fewer
// than n bytes remain.
func (r *reader) readFixed(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, fmt.Errorf("need %d fixed bytes, have %d: %w", n, r.remaining(), ErrTruncated)
	}
	return r.take(n)
}

// writeU16BE appends a big-endian uint16.
func writeU16BE(dst []byte, v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return append(dst, b[:]...)
}

// writeI16BE appends a big-endian int16.
func writeI16BE(dst []byte, v int16) []byte {
	return writeU16BE(dst, uint16(v))
}

// writeLenPrefixed appends a u16 length followed by value. It panics if
// len(value) exceeds maxU16: per spec §4.2 this is a programmer error, not
// a runtime condition callers can recover from.
func writeLenPrefixed(dst []byte, value []byte) []byte {
	if len(value) > maxU16 {
		panic(fmt.Sprintf("wire: value length %d exceeds u16 prefix", len(value)))
	}
	dst = writeU16BE(dst, uint16(len(value)))
	return append(dst, value...)
}

// minimalUnsigned encodes x as the minimum number of big-endian bytes whose
// high byte is nonzero, or a single zero byte when x is zero (spec §4.1).
func minimalUnsigned(x uint64) []byte {
	if x == 0 {
		return []byte{0}
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], x)
	i := 0
	for i < 7 && b[i] == 0 {
		i++
	}
	return b[i:]
}

// readMinimalUnsigned decodes the minimal-unsigned encoding read from buf,
// requiring the caller has already bounded it to the right number of bytes
// (e.g. via a length-prefixed read). A zero-length input is malformed.
func readMinimalUnsigned(buf []byte) (uint64, error) {
	if len(buf) == 0 {
		return 0, fmt.Errorf("empty minimal-unsigned field: %w", ErrMalformed)
	}
	if len(buf) > 8 {
		return 0, fmt.Errorf("minimal-unsigned field of %d bytes exceeds 8: %w", len(buf), ErrMalformed)
	}
	var v uint64
	for _, b := range buf {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// readMinimalUnsignedMax reads a length-prefixed minimal-unsigned field and
// rejects it with ErrMalformed if its encoded width exceeds maxBytes.
func (r *reader) readMinimalUnsignedMax(maxBytes int) (uint64, error) {
	b, err := r.readLenPrefixed()
	if err != nil {
		return 0, err
	}
	if len(b) > maxBytes {
		return 0, fmt.Errorf("minimal-unsigned field of %d bytes exceeds max %d: %w", len(b), maxBytes, ErrMalformed)
	}
	return readMinimalUnsigned(b)
}
