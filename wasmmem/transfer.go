package wasmmem

import (
	"math"
	"slices"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/bitmem/buffer"
	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/internal/abi"
	"github.com/wippyai/bitmem/internal/endian"
	"github.com/wippyai/bitmem/kind"
)

// Transfer moves buffers between the host and one guest memory.
type Transfer struct {
	mem   Memory
	alloc buffer.Allocator
	log   *zap.Logger
}

// Option configures a Transfer.
type Option func(*Transfer)

// WithAllocator sets the allocator for buffers created by Load and LoadList.
func WithAllocator(a buffer.Allocator) Option {
	return func(t *Transfer) { t.alloc = a }
}

// WithLogger sets the transfer's logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Transfer) {
		if l != nil {
			t.log = l
		}
	}
}

// New creates a Transfer over mem.
func New(mem Memory, opts ...Option) *Transfer {
	t := &Transfer{mem: mem, log: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Transfer) bufferOpts() []buffer.Option {
	if t.alloc == nil {
		return nil
	}
	return []buffer.Option{buffer.WithAllocator(t.alloc)}
}

// checkSpan verifies [offset, offset+n) lies within guest memory.
func (t *Transfer) checkSpan(op string, offset uint32, n uint64) error {
	size := uint64(t.mem.Size())
	if !endian.CheckRange(uint64(offset), n, size) {
		return errors.RangeOutOfBounds(errors.PhaseWasm, []string{"wasmmem", op}, uint64(offset), n, size)
	}
	return nil
}

// Store writes b's storage bytes verbatim at offset.
func (t *Transfer) Store(offset uint32, b *buffer.Buffer) error {
	data := b.Bytes()
	if err := t.checkSpan("Store", offset, uint64(len(data))); err != nil {
		return err
	}
	if err := t.mem.Write(offset, data); err != nil {
		return errors.Wrap(errors.PhaseWasm, errors.KindOutOfBounds, err, "store")
	}
	t.log.Debug("stored buffer", zap.Uint32("offset", offset), zap.Uint64("bits", b.Bits()))
	return nil
}

// Load reads ceil(bits/8) bytes at offset into a new buffer.
func (t *Transfer) Load(offset uint32, bits uint64) (*buffer.Buffer, error) {
	if !endian.CheckBits(bits) {
		return nil, errors.AllocationTooLarge(errors.PhaseWasm, bits, buffer.MaxBits)
	}
	n := endian.ByteLen(bits)
	if n > math.MaxUint32 {
		return nil, errors.RangeOutOfBounds(errors.PhaseWasm, []string{"wasmmem", "Load"}, uint64(offset), n, uint64(t.mem.Size()))
	}
	if err := t.checkSpan("Load", offset, n); err != nil {
		return nil, err
	}
	data, err := t.mem.Read(offset, uint32(n))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseWasm, errors.KindOutOfBounds, err, "load")
	}
	return buffer.FromBytes(data, bits, t.bufferOpts()...)
}

// StoreList writes every element of b viewed as k at offset using the
// canonical ABI list element layout: little-endian values, one byte per
// bool. offset must be aligned to the element size. It returns the number
// of elements written.
func (t *Transfer) StoreList(offset uint32, b *buffer.Buffer, k kind.Kind) (uint32, error) {
	if !k.Valid() {
		return 0, errors.New(errors.PhaseWasm, errors.KindInvalidKind).
			Path("wasmmem", "StoreList").
			ElemKind(k.String()).
			Build()
	}
	size := ElemSize(k)
	if offset%size != 0 {
		return 0, errors.InvalidInput(errors.PhaseWasm, []string{"wasmmem", "StoreList"}, "offset not aligned to element size")
	}
	count := b.Len(k)
	total, ok := abi.SafeMulU64(count, uint64(size))
	if !ok || count > uint64(^uint32(0)) {
		return 0, errors.AllocationTooLarge(errors.PhaseWasm, b.Bits(), uint64(^uint32(0))*8)
	}
	if err := t.checkSpan("StoreList", offset, total); err != nil {
		return 0, err
	}

	var out []byte
	if k == kind.Bool1 {
		bools := make([]bool, count)
		if err := b.ReadBool(0, bools, 0, len(bools)); err != nil {
			return 0, err
		}
		out = make([]byte, count)
		for i, v := range bools {
			if v {
				out[i] = 1
			}
		}
	} else {
		out = b.Bytes()[:total]
		swapElements(out, int(size))
	}
	if err := t.mem.Write(offset, out); err != nil {
		return 0, errors.Wrap(errors.PhaseWasm, errors.KindOutOfBounds, err, "store list")
	}
	t.log.Debug("stored list",
		zap.Uint32("offset", offset),
		zap.Stringer("kind", k),
		zap.Uint64("count", count))
	return uint32(count), nil
}

// LoadList reads count canonical ABI elements of WIT type elem at offset
// into a new buffer of count*bitWidth bits.
func (t *Transfer) LoadList(offset, count uint32, elem wit.Type) (*buffer.Buffer, kind.Kind, error) {
	k, ok := KindOf(elem)
	if !ok {
		return nil, 0, errors.New(errors.PhaseWasm, errors.KindInvalidKind).
			Path("wasmmem", "LoadList").
			GoType(abi.TypeName(elem)).
			Detail("WIT type has no kind").
			Build()
	}
	size := ElemSize(k)
	if offset%size != 0 {
		return nil, 0, errors.InvalidInput(errors.PhaseWasm, []string{"wasmmem", "LoadList"}, "offset not aligned to element size")
	}
	total := uint64(count) * uint64(size)
	if err := t.checkSpan("LoadList", offset, total); err != nil {
		return nil, 0, err
	}
	data, err := t.mem.Read(offset, uint32(total))
	if err != nil {
		return nil, 0, errors.Wrap(errors.PhaseWasm, errors.KindOutOfBounds, err, "load list")
	}
	bits := uint64(count) * uint64(k.BitWidth())

	if k == kind.Bool1 {
		b, err := buffer.New(bits, t.bufferOpts()...)
		if err != nil {
			return nil, 0, err
		}
		bools := make([]bool, count)
		for i, v := range data {
			bools[i] = v != 0
		}
		if err := b.WriteBool(0, bools, 0, len(bools)); err != nil {
			b.Free()
			return nil, 0, err
		}
		return b, k, nil
	}
	swapElements(data, int(size))
	b, err := buffer.FromBytes(data, bits, t.bufferOpts()...)
	if err != nil {
		return nil, 0, err
	}
	return b, k, nil
}

// swapElements reverses the bytes of every size-byte element in place,
// converting between big- and little-endian.
func swapElements(data []byte, size int) {
	if size == 1 {
		return
	}
	for i := 0; i+size <= len(data); i += size {
		slices.Reverse(data[i : i+size])
	}
}
