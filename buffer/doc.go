// Package buffer implements a bit-addressable memory region that can be
// viewed as any of the eight primitive kinds at once.
//
// A Buffer owns one allocation of ceil(bits/8) bytes. Every typed view is
// derived from the bit length: a buffer of 100 bits holds 12 int8 elements,
// 6 int16 elements, 3 int32 elements, 1 int64 element and 100 bools, all
// aliasing the same bytes.
//
// # Layout
//
// Bits are numbered most significant first: bit j lives in byte j/8 at
// position 7-j%8. Multi-byte elements are stored big-endian, so comparing
// two buffers bytewise orders them the same way as comparing their bits.
//
//	b, _ := buffer.New(32)
//	b.WriteInt8(0, []int8{0x3F, -0x80, 0, 0}, 0, 4)
//	f, _ := b.Float32(0) // 1.0
//
// # Lifetime
//
// Storage comes from an Allocator. HeapAllocator uses the Go heap;
// MmapAllocator maps anonymous memory outside it. Free releases storage
// deterministically and may be called repeatedly. A cleanup registered with
// the runtime frees storage of unreachable buffers that were never freed,
// but callers should not rely on it.
//
// New storage, and storage exposed by growing a buffer with Rebase, is
// zeroed.
//
// # Errors
//
// Every operation validates its indices before touching memory, so a
// rejected call never leaves a partial write. Errors are *errors.Error
// values and match errors.ErrOutOfBounds, errors.ErrInvalidKind,
// errors.ErrAllocationTooLarge or errors.ErrIOFailure with errors.Is.
//
// # Serialization
//
// WriteTo, ReadFrom, Decode and the encoding.Binary(Un)Marshaler methods use
// the raw format: the bit length as a big-endian uint64 followed by the
// storage bytes. The codec package adds framing, compression and a digest
// on top.
package buffer
