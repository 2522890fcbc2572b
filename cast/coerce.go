package cast

import (
	"math"

	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/kind"
)

// Exact converts v to kind to like Value, but fails with an overflow error
// when the result does not convert back to the same value. NaN survives
// only float to float conversions.
func Exact(v any, to kind.Kind) (any, error) {
	out, err := Value(v, to)
	if err != nil {
		return nil, err
	}
	from, _ := kind.Of(v)
	if from == to {
		return out, nil
	}
	if to == kind.Bool1 {
		// bool only carries zero/one
		if !isZeroOrOne(v) {
			return nil, overflow(v, to)
		}
		return out, nil
	}
	if from.IsInteger() && to.IsFloat() {
		// float to int saturates, so the top of the range must be rejected here
		f, _ := Value(out, kind.Float64)
		if f.(float64) >= math.Ldexp(1, int(from.BitWidth())-1) {
			return nil, overflow(v, to)
		}
	}
	back, err := Value(out, from)
	if err != nil {
		return nil, err
	}
	if !sameValue(v, back) || negative(v) != negative(out) {
		return nil, overflow(v, to)
	}
	return out, nil
}

// ExactAs is Exact with the target kind taken from T.
func ExactAs[T kind.Element](v any) (T, error) {
	out, err := Exact(v, kind.For[T]())
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

func overflow(v any, to kind.Kind) error {
	return errors.Overflow(errors.PhaseCast, []string{"cast", "Exact"}, v, to.String())
}

func isZeroOrOne(v any) bool {
	switch x := v.(type) {
	case bool:
		return true
	case float32:
		return x == 0 || x == 1
	case float64:
		return x == 0 || x == 1
	}
	raw := RawBits(v)
	return raw == 0 || raw == 1
}

func sameValue(a, b any) bool {
	switch x := a.(type) {
	case float32:
		y := b.(float32)
		if math.IsNaN(float64(x)) {
			return math.IsNaN(float64(y))
		}
		return x == y
	case float64:
		y := b.(float64)
		if math.IsNaN(x) {
			return math.IsNaN(y)
		}
		return x == y
	}
	return a == b
}


func negative(v any) bool {
	switch x := v.(type) {
	case int8:
		return x < 0
	case int16:
		return x < 0
	case int32:
		return x < 0
	case int64:
		return x < 0
	case float32:
		return x < 0
	case float64:
		return x < 0
	}
	return false
}
