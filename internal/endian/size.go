package endian

import "math"

const is64bit = uint64(^uint(0) >> 63)

// MaxBytes is the largest storage a buffer may allocate. On 64-bit platforms
// it stays below the runtime's maximum allocation size.
const MaxBytes = uint64((1<<47)*is64bit + math.MaxInt32*(1-is64bit))

// MaxBits is the largest bit length a buffer may have.
const MaxBits = MaxBytes * 8

// ByteLen returns ceil(bits/8) without overflowing.
func ByteLen(bits uint64) uint64 {
	n := bits >> 3
	if bits&7 != 0 {
		n++
	}
	return n
}

// CheckBits reports whether bits fits in an addressable allocation.
func CheckBits(bits uint64) bool {
	return bits <= MaxBits
}

// CheckRange reports whether [off, off+n) lies within [0, length).
func CheckRange(off, n, length uint64) bool {
	return off <= length && n <= length-off
}

// CheckIndex reports whether i < length.
func CheckIndex(i, length uint64) bool {
	return i < length
}

// Mask returns a value with the low width bits set.
func Mask(width uint) uint64 {
	if width >= 64 {
		return math.MaxUint64
	}
	return 1<<width - 1
}

// TailMask returns the mask of valid bits in the final storage byte of a
// buffer holding bits bits. A whole final byte yields 0xFF.
func TailMask(bits uint64) byte {
	r := bits & 7
	if r == 0 {
		return 0xFF
	}
	return byte(0xFF << (8 - r))
}
