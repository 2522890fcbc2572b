package buffer

import (
	"encoding/hex"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/internal/abi"
	"github.com/wippyai/bitmem/internal/endian"
	"github.com/wippyai/bitmem/kind"
)

// MaxBits is the largest bit length a buffer may hold.
const MaxBits = endian.MaxBits

// Buffer is a bit-addressable region of memory viewable as any kind.
//
// Element i of kind K occupies bits [i*w, (i+1)*w) where w is K's bit width.
// Bit j lives in byte j/8 at position 7-j%8 and multi-byte elements are
// stored big-endian. A Buffer is not safe for concurrent use. The zero
// Buffer is only valid as an UnmarshalBinary target; use New otherwise.
type Buffer struct {
	st      *storage
	bits    uint64
	cleanup runtime.Cleanup
}

// storage is held behind a pointer so the cleanup can release it without
// keeping the Buffer reachable.
type storage struct {
	data  []byte
	alloc Allocator
}

func release(st *storage) {
	if st.data != nil {
		Logger().Debug("releasing unreachable buffer", zap.Int("bytes", len(st.data)))
		st.alloc.Free(st.data)
		st.data = nil
	}
}

func runtimeCleanup(b *Buffer) runtime.Cleanup {
	return runtime.AddCleanup(b, release, b.st)
}

// Option configures New.
type Option func(*options)

type options struct {
	alloc Allocator
}

// WithAllocator sets the allocator providing the buffer's storage.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.alloc = a
		}
	}
}

// New allocates a zeroed buffer of the given bit length.
func New(bits uint64, opts ...Option) (*Buffer, error) {
	o := options{alloc: DefaultAllocator}
	for _, opt := range opts {
		opt(&o)
	}
	size, err := byteSize(bits)
	if err != nil {
		return nil, err
	}
	data, err := o.alloc.Alloc(size)
	if err != nil {
		return nil, errors.New(errors.PhaseAlloc, errors.KindAllocationTooLarge).
			Value(bits).
			Cause(err).
			Detail("allocator failed for %d bytes", size).
			Build()
	}
	b := &Buffer{st: &storage{data: data, alloc: o.alloc}, bits: bits}
	b.cleanup = runtimeCleanup(b)
	Logger().Debug("allocated buffer", zap.Uint64("bits", bits), zap.Int("bytes", size))
	return b, nil
}

// MustNew is like New but panics on error.
func MustNew(bits uint64, opts ...Option) *Buffer {
	b, err := New(bits, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// FromBytes allocates a buffer of the given bit length holding a copy of
// data. data must hold exactly ceil(bits/8) bytes.
func FromBytes(data []byte, bits uint64, opts ...Option) (*Buffer, error) {
	if uint64(len(data)) != endian.ByteLen(bits) {
		return nil, errors.New(errors.PhaseAlloc, errors.KindInvalidInput).
			Path("buffer", "FromBytes").
			Value(len(data)).
			Detail("%d bits need %d bytes, got %d", bits, endian.ByteLen(bits), len(data)).
			Build()
	}
	b, err := New(bits, opts...)
	if err != nil {
		return nil, err
	}
	copy(b.st.data, data)
	return b, nil
}

func byteSize(bits uint64) (int, error) {
	if !endian.CheckBits(bits) {
		return 0, errors.AllocationTooLarge(errors.PhaseAlloc, bits, MaxBits)
	}
	size, ok := abi.IntLen(endian.ByteLen(bits))
	if !ok {
		return 0, errors.AllocationTooLarge(errors.PhaseAlloc, bits, MaxBits)
	}
	return size, nil
}

// Bits returns the buffer's length in bits. It is 0 after Free.
func (b *Buffer) Bits() uint64 {
	return b.bits
}

// Len returns the number of whole k elements the buffer holds.
func (b *Buffer) Len(k kind.Kind) uint64 {
	if !k.Valid() {
		return 0
	}
	return b.bits / uint64(k.BitWidth())
}

func (b *Buffer) ByteLen() uint64   { return b.bits / 8 }
func (b *Buffer) ShortLen() uint64  { return b.bits / 16 }
func (b *Buffer) IntLen() uint64    { return b.bits / 32 }
func (b *Buffer) LongLen() uint64   { return b.bits / 64 }
func (b *Buffer) FloatLen() uint64  { return b.bits / 32 }
func (b *Buffer) DoubleLen() uint64 { return b.bits / 64 }
func (b *Buffer) CharLen() uint64   { return b.bits / 16 }
func (b *Buffer) BoolLen() uint64   { return b.bits }

// Allocator returns the allocator backing the buffer.
func (b *Buffer) Allocator() Allocator {
	return b.st.alloc
}

// Rebase changes the bit length. Storage is reallocated only when the byte
// length changes. Bits below min(old, new) are preserved and bits beyond the
// old length read as zero.
func (b *Buffer) Rebase(bits uint64) error {
	size, err := byteSize(bits)
	if err != nil {
		return err
	}
	old := b.bits
	if size != len(b.st.data) {
		data, err := b.st.alloc.Realloc(b.st.data, size)
		if err != nil {
			return errors.New(errors.PhaseAlloc, errors.KindAllocationTooLarge).
				Value(bits).
				Cause(err).
				Detail("reallocating %d to %d bytes", len(b.st.data), size).
				Build()
		}
		if b.st.data == nil && data != nil {
			// revived after Free
			b.cleanup.Stop()
			b.cleanup = runtimeCleanup(b)
		}
		b.st.data = data
		Logger().Debug("rebased buffer",
			zap.Uint64("from_bits", old),
			zap.Uint64("to_bits", bits),
			zap.Int("bytes", size))
	}
	b.bits = bits
	if bits > old {
		zeroFrom(b.st.data, old)
	}
	return nil
}

// zeroFrom clears every bit of data at or after bit off.
func zeroFrom(data []byte, off uint64) {
	i := off >> 3
	if i >= uint64(len(data)) {
		return
	}
	if r := off & 7; r != 0 {
		data[i] &= byte(0xFF << (8 - r))
		i++
	}
	clear(data[i:])
}

// Clear zeroes the whole storage, including the pad bits of the last byte.
func (b *Buffer) Clear() {
	clear(b.st.data)
}

// Free releases the storage. It is safe to call more than once; afterwards
// the buffer has zero length.
func (b *Buffer) Free() {
	if b.st.data == nil {
		b.bits = 0
		return
	}
	b.cleanup.Stop()
	Logger().Debug("freed buffer", zap.Uint64("bits", b.bits))
	b.st.alloc.Free(b.st.data)
	b.st.data = nil
	b.bits = 0
}

// Clone returns an independent copy using the same allocator.
func (b *Buffer) Clone() (*Buffer, error) {
	c, err := New(b.bits, WithAllocator(b.st.alloc))
	if err != nil {
		return nil, err
	}
	copy(c.st.data, b.st.data)
	return c, nil
}

// Bytes returns a copy of the storage bytes.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.st.data))
	copy(out, b.st.data)
	return out
}

// String renders the bit length and storage in hex.
func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(%d bits: %s)", b.bits, hex.EncodeToString(b.st.data))
}
