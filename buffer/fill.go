package buffer

import (
	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/internal/endian"
	"github.com/wippyai/bitmem/kind"
)

func fill[T kind.Element](b *Buffer, e elem[T], off, n uint64, v T) error {
	length := b.bits / uint64(e.width)
	if !endian.CheckRange(off, n, length) {
		return errors.RangeOutOfBounds(errors.PhaseAccess, []string{"buffer", "Fill", e.kind.String()}, off, n, length)
	}
	raw := e.enc(v)
	w := uint64(e.width)
	switch raw {
	case 0:
		setBits(b.st.data, off*w, n*w, false)
		return nil
	case endian.Mask(e.width):
		setBits(b.st.data, off*w, n*w, true)
		return nil
	}
	for i := off; i < off+n; i++ {
		e.store(b.st.data, i, raw)
	}
	return nil
}

// setBits sets bits [off, off+n) of data to all zeros or all ones, using a
// memset over the whole bytes of the range.
func setBits(data []byte, off, n uint64, one bool) {
	if n == 0 {
		return
	}
	var pattern byte
	if one {
		pattern = 0xFF
	}
	end := off + n
	// head bits up to the first byte boundary
	for off < end && off&7 != 0 {
		endian.SetBit(data, off, one)
		off++
	}
	first, last := off>>3, end>>3
	if first < last {
		span := data[first:last]
		if one {
			for i := range span {
				span[i] = pattern
			}
		} else {
			clear(span)
		}
		off = last << 3
	}
	for ; off < end; off++ {
		endian.SetBit(data, off, one)
	}
}

func (b *Buffer) FillInt8(off, n uint64, v int8) error       { return fill(b, int8Elem, off, n, v) }
func (b *Buffer) FillInt16(off, n uint64, v int16) error     { return fill(b, int16Elem, off, n, v) }
func (b *Buffer) FillInt32(off, n uint64, v int32) error     { return fill(b, int32Elem, off, n, v) }
func (b *Buffer) FillInt64(off, n uint64, v int64) error     { return fill(b, int64Elem, off, n, v) }
func (b *Buffer) FillFloat32(off, n uint64, v float32) error { return fill(b, float32Elem, off, n, v) }
func (b *Buffer) FillFloat64(off, n uint64, v float64) error { return fill(b, float64Elem, off, n, v) }
func (b *Buffer) FillChar16(off, n uint64, v uint16) error   { return fill(b, char16Elem, off, n, v) }
func (b *Buffer) FillBool(off, n uint64, v bool) error       { return fill(b, boolElem, off, n, v) }

// Fill sets elements [off, off+n) of kind k to v, which must have k's Go
// type.
func (b *Buffer) Fill(k kind.Kind, off, n uint64, v any) error {
	switch k {
	case kind.Int8:
		if x, ok := v.(int8); ok {
			return b.FillInt8(off, n, x)
		}
	case kind.Int16:
		if x, ok := v.(int16); ok {
			return b.FillInt16(off, n, x)
		}
	case kind.Int32:
		if x, ok := v.(int32); ok {
			return b.FillInt32(off, n, x)
		}
	case kind.Int64:
		if x, ok := v.(int64); ok {
			return b.FillInt64(off, n, x)
		}
	case kind.Float32:
		if x, ok := v.(float32); ok {
			return b.FillFloat32(off, n, x)
		}
	case kind.Float64:
		if x, ok := v.(float64); ok {
			return b.FillFloat64(off, n, x)
		}
	case kind.Char16:
		if x, ok := v.(uint16); ok {
			return b.FillChar16(off, n, x)
		}
	case kind.Bool1:
		if x, ok := v.(bool); ok {
			return b.FillBool(off, n, x)
		}
	default:
		return badKind("Fill", k)
	}
	return mismatch("Fill", v, k)
}
