package buffer

import (
	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/internal/abi"
	"github.com/wippyai/bitmem/internal/endian"
	"github.com/wippyai/bitmem/kind"
)

// checkBulk validates both sides of a bulk transfer before any element moves.
func (b *Buffer) checkBulk(op string, k kind.Kind, index uint64, sliceLen, off, n int) error {
	if off < 0 || n < 0 || off > sliceLen || n > sliceLen-off {
		return errors.New(errors.PhaseAccess, errors.KindOutOfBounds).
			Path("buffer", op, "slice").
			ElemKind(k.String()).
			Value(off).
			Detail("range [%d, %d+%d) out of bounds (slice length %d)", off, off, n, sliceLen).
			Build()
	}
	length := b.bits / uint64(k.BitWidth())
	if !endian.CheckRange(index, uint64(n), length) {
		return errors.RangeOutOfBounds(errors.PhaseAccess, []string{"buffer", op, k.String()}, index, uint64(n), length)
	}
	return nil
}

func read[T kind.Element](b *Buffer, e elem[T], index uint64, dst []T, off, n int) error {
	if err := b.checkBulk("Read", e.kind, index, len(dst), off, n); err != nil {
		return err
	}
	data := b.st.data
	for j := range n {
		dst[off+j] = e.dec(e.load(data, index+uint64(j)))
	}
	return nil
}

func write[T kind.Element](b *Buffer, e elem[T], index uint64, src []T, off, n int) error {
	if err := b.checkBulk("Write", e.kind, index, len(src), off, n); err != nil {
		return err
	}
	data := b.st.data
	for j := range n {
		e.store(data, index+uint64(j), e.enc(src[off+j]))
	}
	return nil
}

// ReadInt8 copies n elements starting at index into dst[off:].
func (b *Buffer) ReadInt8(index uint64, dst []int8, off, n int) error {
	return read(b, int8Elem, index, dst, off, n)
}

func (b *Buffer) ReadInt16(index uint64, dst []int16, off, n int) error {
	return read(b, int16Elem, index, dst, off, n)
}

func (b *Buffer) ReadInt32(index uint64, dst []int32, off, n int) error {
	return read(b, int32Elem, index, dst, off, n)
}

func (b *Buffer) ReadInt64(index uint64, dst []int64, off, n int) error {
	return read(b, int64Elem, index, dst, off, n)
}

func (b *Buffer) ReadFloat32(index uint64, dst []float32, off, n int) error {
	return read(b, float32Elem, index, dst, off, n)
}

func (b *Buffer) ReadFloat64(index uint64, dst []float64, off, n int) error {
	return read(b, float64Elem, index, dst, off, n)
}

func (b *Buffer) ReadChar16(index uint64, dst []uint16, off, n int) error {
	return read(b, char16Elem, index, dst, off, n)
}

func (b *Buffer) ReadBool(index uint64, dst []bool, off, n int) error {
	return read(b, boolElem, index, dst, off, n)
}

// WriteInt8 copies n elements from src[off:] into the buffer starting at
// index.
func (b *Buffer) WriteInt8(index uint64, src []int8, off, n int) error {
	return write(b, int8Elem, index, src, off, n)
}

func (b *Buffer) WriteInt16(index uint64, src []int16, off, n int) error {
	return write(b, int16Elem, index, src, off, n)
}

func (b *Buffer) WriteInt32(index uint64, src []int32, off, n int) error {
	return write(b, int32Elem, index, src, off, n)
}

func (b *Buffer) WriteInt64(index uint64, src []int64, off, n int) error {
	return write(b, int64Elem, index, src, off, n)
}

func (b *Buffer) WriteFloat32(index uint64, src []float32, off, n int) error {
	return write(b, float32Elem, index, src, off, n)
}

func (b *Buffer) WriteFloat64(index uint64, src []float64, off, n int) error {
	return write(b, float64Elem, index, src, off, n)
}

func (b *Buffer) WriteChar16(index uint64, src []uint16, off, n int) error {
	return write(b, char16Elem, index, src, off, n)
}

func (b *Buffer) WriteBool(index uint64, src []bool, off, n int) error {
	return write(b, boolElem, index, src, off, n)
}

// Read copies n elements of kind k starting at index into dst[off:]. dst
// must be a slice of k's Go type.
func (b *Buffer) Read(k kind.Kind, index uint64, dst any, off, n int) error {
	if !k.Valid() {
		return badKind("Read", k)
	}
	if sk, ok := kind.OfSlice(dst); !ok || sk != k {
		return mismatch("Read", dst, k)
	}
	switch s := dst.(type) {
	case []int8:
		return b.ReadInt8(index, s, off, n)
	case []int16:
		return b.ReadInt16(index, s, off, n)
	case []int32:
		return b.ReadInt32(index, s, off, n)
	case []int64:
		return b.ReadInt64(index, s, off, n)
	case []float32:
		return b.ReadFloat32(index, s, off, n)
	case []float64:
		return b.ReadFloat64(index, s, off, n)
	case []uint16:
		return b.ReadChar16(index, s, off, n)
	case []bool:
		return b.ReadBool(index, s, off, n)
	}
	return mismatch("Read", dst, k)
}

// Write copies n elements of kind k from src[off:] into the buffer starting
// at index. src must be a slice of k's Go type.
func (b *Buffer) Write(k kind.Kind, index uint64, src any, off, n int) error {
	if !k.Valid() {
		return badKind("Write", k)
	}
	if sk, ok := kind.OfSlice(src); !ok || sk != k {
		return mismatch("Write", src, k)
	}
	switch s := src.(type) {
	case []int8:
		return b.WriteInt8(index, s, off, n)
	case []int16:
		return b.WriteInt16(index, s, off, n)
	case []int32:
		return b.WriteInt32(index, s, off, n)
	case []int64:
		return b.WriteInt64(index, s, off, n)
	case []float32:
		return b.WriteFloat32(index, s, off, n)
	case []float64:
		return b.WriteFloat64(index, s, off, n)
	case []uint16:
		return b.WriteChar16(index, s, off, n)
	case []bool:
		return b.WriteBool(index, s, off, n)
	}
	return mismatch("Write", src, k)
}

// View returns every element of kind k as a new slice of k's Go type.
func (b *Buffer) View(k kind.Kind) (any, error) {
	if !k.Valid() {
		return nil, badKind("View", k)
	}
	n, ok := abi.IntLen(b.Len(k))
	if !ok {
		return nil, errors.AllocationTooLarge(errors.PhaseAccess, b.bits, MaxBits)
	}
	out, _ := kind.MakeSlice(k, n)
	if err := b.Read(k, 0, out, 0, n); err != nil {
		return nil, err
	}
	return out, nil
}
