package cast

import (
	"math"
	"slices"

	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/internal/abi"
	"github.com/wippyai/bitmem/internal/bitio"
	"github.com/wippyai/bitmem/internal/endian"
	"github.com/wippyai/bitmem/kind"
)

// ValueBits reinterprets the bit pattern of a scalar as kind to. Only the
// low min(srcWidth, dstWidth) bits of the source survive.
func ValueBits(v any, to kind.Kind) (any, error) {
	if err := checkTarget(to, "ValueBits"); err != nil {
		return nil, err
	}
	from, ok := kind.Of(v)
	if !ok {
		return nil, errors.InvalidKind(errors.PhaseCast, []string{"cast", "ValueBits"}, abi.TypeName(v))
	}
	width := min(from.BitWidth(), to.BitWidth())
	return fromRaw(RawBits(v)&endian.Mask(width), to), nil
}

// ArrayBits reinterprets a kind slice as a slice of kind to by packing or
// unpacking its bits most significant first.
func ArrayBits(arr any, to kind.Kind) (any, error) {
	if err := checkTarget(to, "ArrayBits"); err != nil {
		return nil, err
	}
	from, ok := kind.OfSlice(arr)
	if !ok {
		return nil, errors.InvalidKind(errors.PhaseCast, []string{"cast", "ArrayBits"}, abi.TypeName(arr))
	}
	n, _ := kind.SliceLen(arr)

	if from == to {
		return cloneSlice(arr), nil
	}
	if from.BitWidth() == to.BitWidth() {
		i := 0
		out, _ := buildRaw(to, n, func() uint64 {
			r := rawAt(arr, i)
			i++
			return r
		})
		return out, nil
	}

	total, ok := abi.SafeMulU64(uint64(n), uint64(from.BitWidth()))
	if !ok {
		return nil, errors.AllocationTooLarge(errors.PhaseCast, math.MaxUint64, endian.MaxBits)
	}
	dstWidth := uint64(to.BitWidth())
	count := total / dstWidth
	if total%dstWidth != 0 {
		count++
	}
	if count > abi.MaxElements(to.ByteWidth()) {
		return nil, errors.New(errors.PhaseCast, errors.KindAllocationTooLarge).
			Path("cast", "ArrayBits").
			ElemKind(to.String()).
			Value(count).
			Detail("packing %d %s elements yields %d %s elements", n, from, count, to).
			Build()
	}

	w := bitio.NewWriter(total)
	srcWidth := from.BitWidth()
	for i := 0; i < n; i++ {
		w.WriteBits(rawAt(arr, i), srcWidth)
	}
	r := bitio.NewReader(w.Bytes(), w.Len())
	out, _ := buildRaw(to, int(count), func() uint64 {
		return r.ReadBits(to.BitWidth())
	})
	return out, nil
}

// ValueBitsAs is ValueBits with the target kind taken from T.
func ValueBitsAs[T kind.Element](v any) (T, error) {
	out, err := ValueBits(v, kind.For[T]())
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

// ArrayBitsAs is ArrayBits with the target kind taken from T.
func ArrayBitsAs[T kind.Element](arr any) ([]T, error) {
	out, err := ArrayBits(arr, kind.For[T]())
	if err != nil {
		return nil, err
	}
	return out.([]T), nil
}

// RawBits returns the bit pattern of a kind scalar right-aligned in a
// uint64. Signed integers are not sign-extended. Unknown types yield 0.
func RawBits(v any) uint64 {
	switch x := v.(type) {
	case int8:
		return uint64(uint8(x))
	case int16:
		return uint64(uint16(x))
	case int32:
		return uint64(uint32(x))
	case int64:
		return uint64(x)
	case float32:
		return uint64(math.Float32bits(x))
	case float64:
		return math.Float64bits(x)
	case uint16:
		return uint64(x)
	case bool:
		if x {
			return 1
		}
	}
	return 0
}

// FromRaw builds a scalar of kind k from the low BitWidth bits of raw.
func FromRaw(raw uint64, k kind.Kind) (any, bool) {
	if !k.Valid() {
		return nil, false
	}
	return fromRaw(raw, k), true
}

func fromRaw(raw uint64, k kind.Kind) any {
	switch k {
	case kind.Int8:
		return int8(uint8(raw))
	case kind.Int16:
		return int16(uint16(raw))
	case kind.Int32:
		return int32(uint32(raw))
	case kind.Int64:
		return int64(raw)
	case kind.Float32:
		return math.Float32frombits(uint32(raw))
	case kind.Float64:
		return math.Float64frombits(raw)
	case kind.Char16:
		return uint16(raw)
	case kind.Bool1:
		return raw&1 != 0
	}
	panic("cast: unreachable kind " + k.String())
}

func rawAt(arr any, i int) uint64 {
	switch s := arr.(type) {
	case []int8:
		return uint64(uint8(s[i]))
	case []int16:
		return uint64(uint16(s[i]))
	case []int32:
		return uint64(uint32(s[i]))
	case []int64:
		return uint64(s[i])
	case []float32:
		return uint64(math.Float32bits(s[i]))
	case []float64:
		return math.Float64bits(s[i])
	case []uint16:
		return uint64(s[i])
	case []bool:
		if s[i] {
			return 1
		}
		return 0
	}
	panic("cast: not a kind slice")
}

// buildRaw allocates n elements of kind k, filling each from next().
func buildRaw(k kind.Kind, n int, next func() uint64) (any, bool) {
	switch k {
	case kind.Int8:
		return fill(n, func() int8 { return int8(uint8(next())) }), true
	case kind.Int16:
		return fill(n, func() int16 { return int16(uint16(next())) }), true
	case kind.Int32:
		return fill(n, func() int32 { return int32(uint32(next())) }), true
	case kind.Int64:
		return fill(n, func() int64 { return int64(next()) }), true
	case kind.Float32:
		return fill(n, func() float32 { return math.Float32frombits(uint32(next())) }), true
	case kind.Float64:
		return fill(n, func() float64 { return math.Float64frombits(next()) }), true
	case kind.Char16:
		return fill(n, func() uint16 { return uint16(next()) }), true
	case kind.Bool1:
		return fill(n, func() bool { return next()&1 != 0 }), true
	}
	return nil, false
}

func fill[T any](n int, next func() T) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = next()
	}
	return out
}

func cloneSlice(arr any) any {
	switch s := arr.(type) {
	case []int8:
		return slices.Clone(s)
	case []int16:
		return slices.Clone(s)
	case []int32:
		return slices.Clone(s)
	case []int64:
		return slices.Clone(s)
	case []float32:
		return slices.Clone(s)
	case []float64:
		return slices.Clone(s)
	case []uint16:
		return slices.Clone(s)
	case []bool:
		return slices.Clone(s)
	}
	return nil
}
