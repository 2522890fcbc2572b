package buffer

import (
	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/internal/endian"
)

// CopyBits copies n bits starting at srcOff in b to dstOff in dst. dst may
// be b itself; overlapping ranges are copied as if through a temporary.
func (b *Buffer) CopyBits(srcOff uint64, dst *Buffer, dstOff, n uint64) error {
	if dst == nil {
		return errors.InvalidInput(errors.PhaseAccess, []string{"buffer", "CopyBits"}, "nil destination")
	}
	if !endian.CheckRange(srcOff, n, b.bits) {
		return errors.RangeOutOfBounds(errors.PhaseAccess, []string{"buffer", "CopyBits", "src"}, srcOff, n, b.bits)
	}
	if !endian.CheckRange(dstOff, n, dst.bits) {
		return errors.RangeOutOfBounds(errors.PhaseAccess, []string{"buffer", "CopyBits", "dst"}, dstOff, n, dst.bits)
	}
	if n == 0 || (dst == b && srcOff == dstOff) {
		return nil
	}
	src, out := b.st.data, dst.st.data
	backward := dst == b && dstOff > srcOff
	if srcOff&7 == dstOff&7 {
		copyAligned(src, srcOff, out, dstOff, n, backward)
		return nil
	}
	copyUnaligned(src, srcOff, out, dstOff, n, backward)
	return nil
}

// copyAligned handles offsets sharing a bit-within-byte position: a bitwise
// head and tail around a byte memmove.
func copyAligned(src []byte, srcOff uint64, dst []byte, dstOff, n uint64, backward bool) {
	head := (8 - srcOff&7) & 7
	if head > n {
		head = n
	}
	rest := n - head
	mid := rest >> 3
	tail := rest & 7

	copyHead := func() {
		copyUnaligned(src, srcOff, dst, dstOff, head, backward)
	}
	copyMid := func() {
		s, d := (srcOff+head)>>3, (dstOff+head)>>3
		copy(dst[d:d+mid], src[s:s+mid])
	}
	copyTail := func() {
		off := head + mid<<3
		copyUnaligned(src, srcOff+off, dst, dstOff+off, tail, backward)
	}
	if backward {
		copyTail()
		copyMid()
		copyHead()
		return
	}
	copyHead()
	copyMid()
	copyTail()
}

// copyUnaligned moves bits in 64-bit chunks through a register.
func copyUnaligned(src []byte, srcOff uint64, dst []byte, dstOff, n uint64, backward bool) {
	if !backward {
		for n > 0 {
			w := uint(min(n, 64))
			endian.WriteBits(dst, dstOff, w, endian.ReadBits(src, srcOff, w))
			srcOff += uint64(w)
			dstOff += uint64(w)
			n -= uint64(w)
		}
		return
	}
	for n > 0 {
		w := uint(min(n, 64))
		n -= uint64(w)
		endian.WriteBits(dst, dstOff+n, w, endian.ReadBits(src, srcOff+n, w))
	}
}
