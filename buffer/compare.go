package buffer

import (
	"bytes"
	"cmp"

	"github.com/wippyai/bitmem/internal/endian"
)

// Compare orders buffers as unsigned big-endian bit strings. Over the shared
// length the first differing bit decides; if the shared bits match, the
// longer buffer is greater. It returns -1, 0 or +1.
func (b *Buffer) Compare(o *Buffer) int {
	a, c := b.st.data, o.st.data
	shared := min(b.bits, o.bits)

	words := shared >> 6
	for i := uint64(0); i < words; i++ {
		if r := cmp.Compare(endian.Uint64(a, i<<3), endian.Uint64(c, i<<3)); r != 0 {
			return r
		}
	}
	pos := words << 3
	end := shared >> 3
	if r := bytes.Compare(a[pos:end], c[pos:end]); r != 0 {
		return r
	}
	for bit := end << 3; bit < shared; bit++ {
		x, y := endian.Bit(a, bit), endian.Bit(c, bit)
		if x != y {
			if x {
				return 1
			}
			return -1
		}
	}
	return cmp.Compare(b.bits, o.bits)
}

// Equal reports whether both buffers have the same length and bits. Pad bits
// past the length are ignored.
func (b *Buffer) Equal(o *Buffer) bool {
	if o == nil || b.bits != o.bits {
		return false
	}
	full := b.bits >> 3
	if !bytes.Equal(b.st.data[:full], o.st.data[:full]) {
		return false
	}
	if b.bits&7 == 0 {
		return true
	}
	m := endian.TailMask(b.bits)
	return b.st.data[full]&m == o.st.data[full]&m
}

const (
	hashMul   = 0x100000001b3
	hashTrue  = 1231
	hashFalse = 1237
)

// Hash returns a content hash consistent with Equal. It folds 64-bit words,
// then whole bytes, then single bits.
func (b *Buffer) Hash() uint64 {
	data := b.st.data
	h := 0xcbf29ce484222325 ^ b.bits

	words := b.bits >> 6
	for i := uint64(0); i < words; i++ {
		h = (h ^ endian.Uint64(data, i<<3)) * hashMul
	}
	end := b.bits >> 3
	for i := words << 3; i < end; i++ {
		h = (h ^ uint64(data[i])) * hashMul
	}
	for bit := end << 3; bit < b.bits; bit++ {
		if endian.Bit(data, bit) {
			h = h*hashMul + hashTrue
		} else {
			h = h*hashMul + hashFalse
		}
	}
	return h
}
