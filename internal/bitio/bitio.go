// Package bitio provides MSB-first bit stream reading and writing.
//
// The cast engine uses it to pack and unpack arrays whose element widths
// differ: source elements are written into one contiguous bit string with
// the first element in the most significant position, then the string is
// cut into elements of the target width.
package bitio

import "github.com/wippyai/bitmem/internal/endian"

// Writer appends bits to a growing byte slice, most significant bit first.
type Writer struct {
	buf []byte
	n   uint64
}

// NewWriter creates a writer with room for sizeHint bits.
func NewWriter(sizeHint uint64) *Writer {
	return &Writer{buf: make([]byte, 0, endian.ByteLen(sizeHint))}
}

// WriteBits appends the low width (<= 64) bits of v.
func (w *Writer) WriteBits(v uint64, width uint) {
	if width == 0 {
		return
	}
	need := endian.ByteLen(w.n + uint64(width))
	for uint64(len(w.buf)) < need {
		w.buf = append(w.buf, 0)
	}
	endian.WriteBits(w.buf, w.n, width, v&endian.Mask(width))
	w.n += uint64(width)
}

// WriteBool appends a single bit.
func (w *Writer) WriteBool(v bool) {
	var b uint64
	if v {
		b = 1
	}
	w.WriteBits(b, 1)
}

// Len returns the number of bits written.
func (w *Writer) Len() uint64 {
	return w.n
}

// Bytes returns the written bits. Bits past Len in the final byte are zero.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reader consumes bits from a byte slice, most significant bit first.
// Reads past the end of the stream yield zero bits.
type Reader struct {
	buf   []byte
	pos   uint64
	limit uint64
}

// NewReader reads the first limit bits of buf.
func NewReader(buf []byte, limit uint64) *Reader {
	if avail := uint64(len(buf)) * 8; limit > avail {
		limit = avail
	}
	return &Reader{buf: buf, limit: limit}
}

// ReadBits returns the next width (<= 64) bits right-aligned. Missing bits
// past the end of the stream are filled with zeros in the low positions.
func (r *Reader) ReadBits(width uint) uint64 {
	if width == 0 {
		return 0
	}
	remaining := r.Remaining()
	if uint64(width) <= remaining {
		v := endian.ReadBits(r.buf, r.pos, width)
		r.pos += uint64(width)
		return v
	}
	have := uint(remaining)
	var v uint64
	if have > 0 {
		v = endian.ReadBits(r.buf, r.pos, have)
	}
	r.pos = r.limit
	return v << (width - have)
}

// ReadBool returns the next bit.
func (r *Reader) ReadBool() bool {
	return r.ReadBits(1) != 0
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() uint64 {
	return r.limit - r.pos
}
