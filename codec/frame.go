package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/bitmem/buffer"
	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/internal/abi"
	"github.com/wippyai/bitmem/internal/endian"
)

// Magic opens every frame.
const Magic = "BITM"

// Version is the frame format version written by Encode.
const Version = 1

const headerSize = len(Magic) + 1 + 1 + 8 + 8

// Options control Encode.
type Options struct {
	Compression Compression
}

// DefaultMaxBits is the decode limit used when DecodeOptions.MaxBits is
// zero: 1 GiB of storage.
const DefaultMaxBits = uint64(abi.MaxAlloc) * 8

// DecodeOptions control Decode.
type DecodeOptions struct {
	// MaxBits rejects frames declaring more bits. Zero means DefaultMaxBits;
	// larger frames need an explicit limit.
	MaxBits uint64
	// Allocator provides storage for the decoded buffer. Nil means the
	// buffer package default.
	Allocator buffer.Allocator
}

// Encode writes b to w as one frame.
func Encode(w io.Writer, b *buffer.Buffer, opts Options) error {
	if !opts.Compression.Valid() {
		return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Path("codec", "Encode").
			Value(uint8(opts.Compression)).
			Detail("unknown compression %s", opts.Compression).
			Build()
	}
	data := b.Bytes()
	payload, applied, err := compress(data, opts.Compression)
	if err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindIOFailure, err, "compressing payload")
	}
	digest := sum(b.Bits(), data)

	var hdr [headerSize]byte
	copy(hdr[:], Magic)
	hdr[4] = Version
	hdr[5] = byte(applied)
	binary.BigEndian.PutUint64(hdr[6:], b.Bits())
	binary.BigEndian.PutUint64(hdr[14:], uint64(len(payload)))

	for _, part := range [][]byte{hdr[:], payload, digest[:]} {
		if _, err := w.Write(part); err != nil {
			return errors.IOFailure(errors.PhaseEncode, err, "writing frame")
		}
	}
	Logger().Debug("encoded frame",
		zap.Uint64("bits", b.Bits()),
		zap.Stringer("compression", applied),
		zap.Int("payload", len(payload)))
	return nil
}

// Marshal returns b encoded as one frame.
func Marshal(b *buffer.Buffer, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, b, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads one frame from r and verifies its digest.
func Decode(r io.Reader, opts DecodeOptions) (*buffer.Buffer, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, errors.IOFailure(errors.PhaseDecode, err, "reading frame header")
	}
	if string(hdr[:4]) != Magic {
		return nil, malformed("bad magic %q", hdr[:4])
	}
	if hdr[4] != Version {
		return nil, malformed("unsupported version %d", hdr[4])
	}
	c := Compression(hdr[5])
	if !c.Valid() {
		return nil, malformed("unknown compression %d", hdr[5])
	}
	bits := binary.BigEndian.Uint64(hdr[6:])
	payloadLen := binary.BigEndian.Uint64(hdr[14:])

	limit := opts.MaxBits
	switch {
	case limit == 0:
		limit = DefaultMaxBits
	case limit > buffer.MaxBits:
		limit = buffer.MaxBits
	}
	if bits > limit {
		return nil, errors.AllocationTooLarge(errors.PhaseDecode, bits, limit)
	}
	size := endian.ByteLen(bits)
	switch {
	case c == CompressionNone && payloadLen != size:
		return nil, malformed("uncompressed payload is %d bytes, want %d", payloadLen, size)
	case c != CompressionNone && payloadLen >= size:
		return nil, malformed("compressed payload of %d bytes is not smaller than %d", payloadLen, size)
	}
	payload, err := readPayload(r, payloadLen)
	if err != nil {
		return nil, errors.IOFailure(errors.PhaseDecode, err, "reading payload")
	}
	var want Digest
	if _, err := io.ReadFull(r, want[:]); err != nil {
		return nil, errors.IOFailure(errors.PhaseDecode, err, "reading digest")
	}

	data, err := decompress(payload, c, int(size))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindIOFailure, err, "decompressing payload")
	}
	if got := sum(bits, data); got != want {
		return nil, errors.New(errors.PhaseDecode, errors.KindIOFailure).
			Path("codec", "Decode").
			Detail("digest mismatch: frame %s, content %s", want, got).
			Build()
	}

	var bufOpts []buffer.Option
	if opts.Allocator != nil {
		bufOpts = append(bufOpts, buffer.WithAllocator(opts.Allocator))
	}
	return buffer.FromBytes(data, bits, bufOpts...)
}

// readPayload reads exactly n bytes, growing the destination only as bytes
// arrive so a lying length cannot force a large allocation.
func readPayload(r io.Reader, n uint64) ([]byte, error) {
	var buf bytes.Buffer
	got, err := io.CopyN(&buf, r, int64(n))
	if err != nil {
		return nil, fmt.Errorf("got %d of %d bytes: %w", got, n, err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a single frame held in data.
func Unmarshal(data []byte, opts DecodeOptions) (*buffer.Buffer, error) {
	return Decode(bytes.NewReader(data), opts)
}

// IsFrame reports whether data starts with the frame magic.
func IsFrame(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Magic))
}

func malformed(format string, args ...any) error {
	return errors.New(errors.PhaseDecode, errors.KindIOFailure).
		Path("codec", "Decode").
		Detail(format, args...).
		Build()
}
