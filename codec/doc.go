// Package codec stores buffers in a self-describing, integrity-checked
// container.
//
// A frame is laid out as (integers big-endian):
//
//	magic "BITM" | version u8 | compression u8 | bits u64 |
//	payload_len u64 | payload | blake3 digest [32]
//
// The payload is the buffer's storage, optionally compressed with LZ4
// blocks or zstd. Data that does not shrink is stored uncompressed, so the
// compression byte records what was actually applied. The digest covers the
// bit length and the storage with pad bits cleared, which makes it a
// content identifier: equal buffers have equal digests.
//
// Snapshot is an alternative CBOR encoding for embedding a buffer in other
// documents, along with the kind it is meant to be viewed as.
package codec
