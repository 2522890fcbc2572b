package endian

import "encoding/binary"

// Element accessors for byte-aligned kinds. off is a byte offset; the caller
// has already range-checked it.

func Uint16(b []byte, off uint64) uint16 {
	return binary.BigEndian.Uint16(b[off:])
}

func Uint32(b []byte, off uint64) uint32 {
	return binary.BigEndian.Uint32(b[off:])
}

func Uint64(b []byte, off uint64) uint64 {
	return binary.BigEndian.Uint64(b[off:])
}

func PutUint16(b []byte, off uint64, v uint16) {
	binary.BigEndian.PutUint16(b[off:], v)
}

func PutUint32(b []byte, off uint64, v uint32) {
	binary.BigEndian.PutUint32(b[off:], v)
}

func PutUint64(b []byte, off uint64, v uint64) {
	binary.BigEndian.PutUint64(b[off:], v)
}

// Uint reads a byteWidth-wide big-endian unsigned value at byte off.
func Uint(b []byte, off uint64, byteWidth uint) uint64 {
	switch byteWidth {
	case 1:
		return uint64(b[off])
	case 2:
		return uint64(Uint16(b, off))
	case 4:
		return uint64(Uint32(b, off))
	case 8:
		return Uint64(b, off)
	}
	panic("endian: unsupported width")
}

// PutUint writes the low byteWidth bytes of v big-endian at byte off.
func PutUint(b []byte, off uint64, byteWidth uint, v uint64) {
	switch byteWidth {
	case 1:
		b[off] = byte(v)
	case 2:
		PutUint16(b, off, uint16(v))
	case 4:
		PutUint32(b, off, uint32(v))
	case 8:
		PutUint64(b, off, v)
	default:
		panic("endian: unsupported width")
	}
}
