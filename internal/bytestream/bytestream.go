// Package bytestream implements the two byte-cursor abstractions every
// reader in this module is built from: big-endian fixed-width integer
// reads and the two variable-byte integer conventions used by the
// legacy on-disk formats. A single Reader type backs both the
// zero-copy slice case and the mmap-backed case — callers needing
// shared ownership of an mmap keep their own reference to the backing
// handle (see internal/mmapfile) alongside a Reader built from its
// bytes; the Reader itself never owns or unmaps anything.
package bytestream

import (
	"encoding/binary"

	"github.com/galagoread/galagoread/internal/errs"
)

// Reader is a bounded cursor over a contiguous byte slice. It never
// copies the slice; Advance returns sub-slices of the original buffer.
type Reader struct {
	buf    []byte
	cursor int
}

// New wraps buf in a Reader positioned at the start.
func New(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// NewAt wraps buf in a Reader positioned at offset.
func NewAt(buf []byte, offset int) *Reader {
	return &Reader{buf: buf, cursor: offset}
}

// Tell returns the current cursor position.
func (r *Reader) Tell() int {
	return r.cursor
}

// Len returns the total length of the underlying buffer.
func (r *Reader) Len() int {
	return len(r.buf)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.cursor
}

// EOF reports whether the cursor has reached the end of the buffer.
func (r *Reader) EOF() bool {
	return r.cursor >= len(r.buf)
}

// Seek repositions the cursor to an absolute offset.
func (r *Reader) Seek(offset int) {
	r.cursor = offset
}

// Advance returns the next n bytes and moves the cursor past them. It
// fails with a truncated error if fewer than n bytes remain.
func (r *Reader) Advance(n int) ([]byte, error) {
	if n < 0 || r.cursor+n > len(r.buf) {
		return nil, errs.NewTruncatedError(int64(r.cursor))
	}
	out := r.buf[r.cursor : r.cursor+n]
	r.cursor += n
	return out, nil
}

// U8 reads a single byte.
func (r *Reader) U8() (byte, error) {
	b, err := r.Advance(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU32 reads a big-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.Advance(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadU64 reads a big-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.Advance(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadVByte decodes a variable-byte integer using the high-bit-
// terminator convention used throughout the legacy Galago format:
// accumulate 7-bit groups little-endian; the byte whose high bit is
// set terminates the integer (and still contributes its low 7 bits).
func (r *Reader) ReadVByte() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.U8()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 != 0 {
			return result, nil
		}
		shift += 7
		if shift > 63 {
			return 0, errs.NewTruncatedError(int64(r.cursor))
		}
	}
}

// ReadVByteContinuation decodes a variable-byte integer using the
// high-bit-continuation convention used by the lemur/Indri family:
// accumulate 7-bit groups; a set high bit means "more follows".
func (r *Reader) ReadVByteContinuation() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.U8()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift > 63 {
			return 0, errs.NewTruncatedError(int64(r.cursor))
		}
	}
}

// WriteVByte encodes x using the high-bit-terminator convention and
// appends it to out, returning the extended slice.
func WriteVByte(x uint64, out []byte) []byte {
	for {
		b := byte(x & 0x7f)
		x >>= 7
		if x == 0 {
			return append(out, b|0x80)
		}
		out = append(out, b)
	}
}
