package buffer

import (
	"math"

	"github.com/wippyai/bitmem/internal/endian"
	"github.com/wippyai/bitmem/kind"
)

// elem maps one kind's Go type to and from its raw big-endian bit pattern.
type elem[T kind.Element] struct {
	kind  kind.Kind
	width uint
	dec   func(uint64) T
	enc   func(T) uint64
}

var (
	int8Elem = elem[int8]{kind.Int8, 8,
		func(r uint64) int8 { return int8(r) },
		func(v int8) uint64 { return uint64(uint8(v)) }}
	int16Elem = elem[int16]{kind.Int16, 16,
		func(r uint64) int16 { return int16(r) },
		func(v int16) uint64 { return uint64(uint16(v)) }}
	int32Elem = elem[int32]{kind.Int32, 32,
		func(r uint64) int32 { return int32(r) },
		func(v int32) uint64 { return uint64(uint32(v)) }}
	int64Elem = elem[int64]{kind.Int64, 64,
		func(r uint64) int64 { return int64(r) },
		func(v int64) uint64 { return uint64(v) }}
	float32Elem = elem[float32]{kind.Float32, 32,
		func(r uint64) float32 { return math.Float32frombits(uint32(r)) },
		func(v float32) uint64 { return uint64(math.Float32bits(v)) }}
	float64Elem = elem[float64]{kind.Float64, 64,
		math.Float64frombits,
		math.Float64bits}
	char16Elem = elem[uint16]{kind.Char16, 16,
		func(r uint64) uint16 { return uint16(r) },
		func(v uint16) uint64 { return uint64(v) }}
	boolElem = elem[bool]{kind.Bool1, 1,
		func(r uint64) bool { return r != 0 },
		func(v bool) uint64 {
			if v {
				return 1
			}
			return 0
		}}
)

// load returns the raw bits of element i. The caller has checked i.
func (e elem[T]) load(data []byte, i uint64) uint64 {
	if e.width == 1 {
		if endian.Bit(data, i) {
			return 1
		}
		return 0
	}
	return endian.Uint(data, i*uint64(e.width/8), e.width/8)
}

// store writes the raw bits of element i. The caller has checked i.
func (e elem[T]) store(data []byte, i uint64, raw uint64) {
	if e.width == 1 {
		endian.SetBit(data, i, raw != 0)
		return
	}
	endian.PutUint(data, i*uint64(e.width/8), e.width/8, raw)
}
