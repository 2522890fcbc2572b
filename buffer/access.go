package buffer

import (
	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/internal/abi"
	"github.com/wippyai/bitmem/internal/endian"
	"github.com/wippyai/bitmem/kind"
)

func get[T kind.Element](b *Buffer, e elem[T], i uint64) (T, error) {
	n := b.bits / uint64(e.width)
	if !endian.CheckIndex(i, n) {
		var zero T
		return zero, errors.OutOfBounds(errors.PhaseAccess, []string{"buffer", e.kind.String()}, i, n)
	}
	return e.dec(e.load(b.st.data, i)), nil
}

func set[T kind.Element](b *Buffer, e elem[T], i uint64, v T) error {
	n := b.bits / uint64(e.width)
	if !endian.CheckIndex(i, n) {
		return errors.OutOfBounds(errors.PhaseAccess, []string{"buffer", e.kind.String()}, i, n)
	}
	e.store(b.st.data, i, e.enc(v))
	return nil
}

func (b *Buffer) Int8(i uint64) (int8, error)       { return get(b, int8Elem, i) }
func (b *Buffer) Int16(i uint64) (int16, error)     { return get(b, int16Elem, i) }
func (b *Buffer) Int32(i uint64) (int32, error)     { return get(b, int32Elem, i) }
func (b *Buffer) Int64(i uint64) (int64, error)     { return get(b, int64Elem, i) }
func (b *Buffer) Float32(i uint64) (float32, error) { return get(b, float32Elem, i) }
func (b *Buffer) Float64(i uint64) (float64, error) { return get(b, float64Elem, i) }

// Char16 returns the 16-bit code unit at i.
func (b *Buffer) Char16(i uint64) (uint16, error) { return get(b, char16Elem, i) }

// Bool returns bit i.
func (b *Buffer) Bool(i uint64) (bool, error) { return get(b, boolElem, i) }

func (b *Buffer) SetInt8(i uint64, v int8) error       { return set(b, int8Elem, i, v) }
func (b *Buffer) SetInt16(i uint64, v int16) error     { return set(b, int16Elem, i, v) }
func (b *Buffer) SetInt32(i uint64, v int32) error     { return set(b, int32Elem, i, v) }
func (b *Buffer) SetInt64(i uint64, v int64) error     { return set(b, int64Elem, i, v) }
func (b *Buffer) SetFloat32(i uint64, v float32) error { return set(b, float32Elem, i, v) }
func (b *Buffer) SetFloat64(i uint64, v float64) error { return set(b, float64Elem, i, v) }
func (b *Buffer) SetChar16(i uint64, v uint16) error   { return set(b, char16Elem, i, v) }
func (b *Buffer) SetBool(i uint64, v bool) error       { return set(b, boolElem, i, v) }

// Get reads element i viewed as kind k. The result has k's Go type.
func (b *Buffer) Get(k kind.Kind, i uint64) (any, error) {
	switch k {
	case kind.Int8:
		return b.Int8(i)
	case kind.Int16:
		return b.Int16(i)
	case kind.Int32:
		return b.Int32(i)
	case kind.Int64:
		return b.Int64(i)
	case kind.Float32:
		return b.Float32(i)
	case kind.Float64:
		return b.Float64(i)
	case kind.Char16:
		return b.Char16(i)
	case kind.Bool1:
		return b.Bool(i)
	}
	return nil, badKind("Get", k)
}

// Set writes element i viewed as kind k. v must have k's Go type.
func (b *Buffer) Set(k kind.Kind, i uint64, v any) error {
	switch k {
	case kind.Int8:
		if x, ok := v.(int8); ok {
			return b.SetInt8(i, x)
		}
	case kind.Int16:
		if x, ok := v.(int16); ok {
			return b.SetInt16(i, x)
		}
	case kind.Int32:
		if x, ok := v.(int32); ok {
			return b.SetInt32(i, x)
		}
	case kind.Int64:
		if x, ok := v.(int64); ok {
			return b.SetInt64(i, x)
		}
	case kind.Float32:
		if x, ok := v.(float32); ok {
			return b.SetFloat32(i, x)
		}
	case kind.Float64:
		if x, ok := v.(float64); ok {
			return b.SetFloat64(i, x)
		}
	case kind.Char16:
		if x, ok := v.(uint16); ok {
			return b.SetChar16(i, x)
		}
	case kind.Bool1:
		if x, ok := v.(bool); ok {
			return b.SetBool(i, x)
		}
	default:
		return badKind("Set", k)
	}
	return mismatch("Set", v, k)
}

func badKind(op string, k kind.Kind) error {
	return errors.New(errors.PhaseAccess, errors.KindInvalidKind).
		Path("buffer", op).
		ElemKind(k.String()).
		Detail("not a primitive kind").
		Build()
}

func mismatch(op string, v any, want kind.Kind) error {
	return errors.KindMismatch(errors.PhaseAccess, []string{"buffer", op}, abi.TypeName(v), want.String())
}
