// Package bitmem provides a bit-addressable memory buffer that can be viewed
// as any of eight primitive element kinds, plus a cast engine for converting
// between them.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	bitmem/              Root package (documentation only)
//	├── kind/            Element kind enumeration and widths
//	├── buffer/          Bit-length buffer with typed views, bulk copy, compare
//	├── cast/            Value and bit-reinterpreting casts between kinds
//	├── codec/           Framed, compressed and digested persistence; CBOR snapshots
//	├── registry/        Handle table of live buffers with borrow tracking
//	├── wasmmem/         Moving buffers in and out of WebAssembly linear memory
//	├── config/          YAML/JSONC configuration for the tools
//	├── errors/          Structured error types for debugging
//	└── cmd/bitview/     CLI and interactive inspector
//
// # Quick Start
//
// Allocate a buffer and view the same bits through different kinds:
//
//	b, err := buffer.New(32)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Free()
//
//	b.WriteInt8(0, []int8{0x3F, -0x80, 0, 0}, 0, 4)
//	f, _ := b.Float32(0) // 1.0
//
// Reinterpret or convert whole arrays:
//
//	words, _ := cast.ArrayBits([]bool{true, false, true}, kind.Int8) // []int8{-0x60}
//	wide, _ := cast.Array([]int8{-1, 2}, kind.Int32)                  // []int32{-1, 2}
//
// # Element Layout
//
// Multi-byte elements are stored big-endian at index*width bits. Booleans are
// single bits, most significant bit first within each byte. A view of kind k
// exposes floor(bits/width) whole elements; trailing bits are reachable only
// through narrower views.
//
// # Thread Safety
//
// Buffer has no internal locking and must be used by a single goroutine, or
// access must be synchronized. registry.Table is safe for concurrent use; it
// guards its handle table, not buffer contents.
//
// # Memory Model
//
// Storage comes from a buffer.Allocator (heap by default, anonymous mmap on
// Unix). New and grown storage is zeroed. Free releases storage immediately;
// buffers that are dropped without Free are released by a runtime cleanup.
package bitmem
