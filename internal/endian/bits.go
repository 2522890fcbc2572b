package endian

// Bit returns bit i (MSB-first) of b.
func Bit(b []byte, i uint64) bool {
	return b[i>>3]&(0x80>>(i&7)) != 0
}

// SetBit sets bit i (MSB-first) of b to v.
func SetBit(b []byte, i uint64, v bool) {
	m := byte(0x80 >> (i & 7))
	if v {
		b[i>>3] |= m
	} else {
		b[i>>3] &^= m
	}
}

// ReadBits reads width (<= 64) bits starting at bit off, MSB-first, and
// returns them right-aligned.
func ReadBits(b []byte, off uint64, width uint) uint64 {
	var v uint64
	for width > 0 {
		idx := off >> 3
		shift := uint(off & 7)
		avail := 8 - shift
		take := avail
		if width < take {
			take = width
		}
		chunk := uint64(b[idx]>>(avail-take)) & Mask(take)
		v = v<<take | chunk
		off += uint64(take)
		width -= take
	}
	return v
}

// WriteBits writes the low width (<= 64) bits of v starting at bit off,
// MSB-first. Bits outside the range are left untouched.
func WriteBits(b []byte, off uint64, width uint, v uint64) {
	for width > 0 {
		idx := off >> 3
		shift := uint(off & 7)
		avail := 8 - shift
		take := avail
		if width < take {
			take = width
		}
		chunk := byte(v>>(width-take)) & byte(Mask(take))
		pos := avail - take
		m := byte(Mask(take)) << pos
		b[idx] = b[idx]&^m | chunk<<pos
		off += uint64(take)
		width -= take
	}
}
