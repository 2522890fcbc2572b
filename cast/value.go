package cast

import (
	"math"

	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/internal/abi"
	"github.com/wippyai/bitmem/kind"
)

type integer interface {
	int8 | int16 | int32 | int64 | uint16
}

type float interface {
	float32 | float64
}

// Value converts a scalar to kind to, preserving its numeric meaning.
func Value(v any, to kind.Kind) (any, error) {
	if err := checkTarget(to, "Value"); err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case int8:
		return intTo(x, to), nil
	case int16:
		return intTo(x, to), nil
	case int32:
		return intTo(x, to), nil
	case int64:
		return intTo(x, to), nil
	case uint16:
		return intTo(x, to), nil
	case float32:
		return floatTo(x, to), nil
	case float64:
		return floatTo(x, to), nil
	case bool:
		return intTo(boolToInt8(x), to), nil
	}
	return nil, errors.InvalidKind(errors.PhaseCast, []string{"cast", "Value"}, abi.TypeName(v))
}

// Array converts every element of a kind slice to kind to. The result is a
// new slice of the same length; same-kind casts copy.
func Array(arr any, to kind.Kind) (any, error) {
	if err := checkTarget(to, "Array"); err != nil {
		return nil, err
	}
	switch s := arr.(type) {
	case []int8:
		return intsTo(s, to), nil
	case []int16:
		return intsTo(s, to), nil
	case []int32:
		return intsTo(s, to), nil
	case []int64:
		return intsTo(s, to), nil
	case []uint16:
		return intsTo(s, to), nil
	case []float32:
		return floatsTo(s, to), nil
	case []float64:
		return floatsTo(s, to), nil
	case []bool:
		return intsTo(mapSlice(s, boolToInt8), to), nil
	}
	return nil, errors.InvalidKind(errors.PhaseCast, []string{"cast", "Array"}, abi.TypeName(arr))
}

// ValueAs is Value with the target kind taken from T.
func ValueAs[T kind.Element](v any) (T, error) {
	out, err := Value(v, kind.For[T]())
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

// ArrayAs is Array with the target kind taken from T.
func ArrayAs[T kind.Element](arr any) ([]T, error) {
	out, err := Array(arr, kind.For[T]())
	if err != nil {
		return nil, err
	}
	return out.([]T), nil
}

func checkTarget(to kind.Kind, op string) error {
	if to.Valid() {
		return nil
	}
	return errors.New(errors.PhaseCast, errors.KindInvalidKind).
		Path("cast", op).
		ElemKind(to.String()).
		Detail("target is not a primitive kind").
		Build()
}

func intTo[S integer](v S, to kind.Kind) any {
	switch to {
	case kind.Int8:
		return int8(v)
	case kind.Int16:
		return int16(v)
	case kind.Int32:
		return int32(v)
	case kind.Int64:
		return int64(v)
	case kind.Float32:
		return float32(v)
	case kind.Float64:
		return float64(v)
	case kind.Char16:
		return uint16(v)
	case kind.Bool1:
		return v != 0
	}
	panic("cast: unreachable kind " + to.String())
}

func floatTo[S float](v S, to kind.Kind) any {
	f := float64(v)
	switch to {
	case kind.Int8:
		return int8(floatToInt32(f))
	case kind.Int16:
		return int16(floatToInt32(f))
	case kind.Int32:
		return floatToInt32(f)
	case kind.Int64:
		return floatToInt64(f)
	case kind.Float32:
		return float32(v)
	case kind.Float64:
		return f
	case kind.Char16:
		return uint16(floatToInt32(f))
	case kind.Bool1:
		return v != 0
	}
	panic("cast: unreachable kind " + to.String())
}

func intsTo[S integer](src []S, to kind.Kind) any {
	switch to {
	case kind.Int8:
		return mapSlice(src, func(v S) int8 { return int8(v) })
	case kind.Int16:
		return mapSlice(src, func(v S) int16 { return int16(v) })
	case kind.Int32:
		return mapSlice(src, func(v S) int32 { return int32(v) })
	case kind.Int64:
		return mapSlice(src, func(v S) int64 { return int64(v) })
	case kind.Float32:
		return mapSlice(src, func(v S) float32 { return float32(v) })
	case kind.Float64:
		return mapSlice(src, func(v S) float64 { return float64(v) })
	case kind.Char16:
		return mapSlice(src, func(v S) uint16 { return uint16(v) })
	case kind.Bool1:
		return mapSlice(src, func(v S) bool { return v != 0 })
	}
	panic("cast: unreachable kind " + to.String())
}

func floatsTo[S float](src []S, to kind.Kind) any {
	switch to {
	case kind.Int8:
		return mapSlice(src, func(v S) int8 { return int8(floatToInt32(float64(v))) })
	case kind.Int16:
		return mapSlice(src, func(v S) int16 { return int16(floatToInt32(float64(v))) })
	case kind.Int32:
		return mapSlice(src, func(v S) int32 { return floatToInt32(float64(v)) })
	case kind.Int64:
		return mapSlice(src, func(v S) int64 { return floatToInt64(float64(v)) })
	case kind.Float32:
		return mapSlice(src, func(v S) float32 { return float32(v) })
	case kind.Float64:
		return mapSlice(src, func(v S) float64 { return float64(v) })
	case kind.Char16:
		return mapSlice(src, func(v S) uint16 { return uint16(floatToInt32(float64(v))) })
	case kind.Bool1:
		return mapSlice(src, func(v S) bool { return v != 0 })
	}
	panic("cast: unreachable kind " + to.String())
}

func mapSlice[S, T any](src []S, f func(S) T) []T {
	out := make([]T, len(src))
	for i, v := range src {
		out[i] = f(v)
	}
	return out
}

func boolToInt8(b bool) int8 {
	if b {
		return 1
	}
	return 0
}

// floatToInt32 truncates toward zero, saturating out-of-range values.
func floatToInt32(f float64) int32 {
	switch {
	case f != f:
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int32(f)
}

// floatToInt64 truncates toward zero, saturating out-of-range values.
func floatToInt64(f float64) int64 {
	switch {
	case f != f:
		return 0
	case f >= 1<<63:
		return math.MaxInt64
	case f <= -(1 << 63):
		return math.MinInt64
	}
	return int64(f)
}

func mismatch(op string, v any, want kind.Kind) error {
	return errors.KindMismatch(errors.PhaseCast, []string{"cast", op}, abi.TypeName(v), want.String())
}
