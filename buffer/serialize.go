package buffer

import (
	"bytes"
	"encoding/binary"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/internal/endian"
)

// HeaderSize is the length of the raw format's bit count prefix.
const HeaderSize = 8

// WriteTo writes the raw format: the bit length as a big-endian uint64
// followed by ceil(bits/8) storage bytes.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	var hdr [HeaderSize]byte
	binary.BigEndian.PutUint64(hdr[:], b.bits)
	n, err := w.Write(hdr[:])
	total := int64(n)
	if err != nil {
		return total, errors.IOFailure(errors.PhaseEncode, err, "writing header")
	}
	n, err = w.Write(b.st.data)
	total += int64(n)
	if err != nil {
		return total, errors.IOFailure(errors.PhaseEncode, err, "writing storage")
	}
	return total, nil
}

// ReadFrom replaces the buffer's contents with a raw-format stream. On error
// the buffer is left unchanged.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	bits, data, n, err := readRaw(r, b.st.alloc)
	if err != nil {
		return n, err
	}
	if b.st.data == nil && data != nil {
		b.cleanup.Stop()
		b.cleanup = runtimeCleanup(b)
	}
	b.st.alloc.Free(b.st.data)
	b.st.data = data
	b.bits = bits
	return n, nil
}

// Decode reads a raw-format stream into a new buffer.
func Decode(r io.Reader, opts ...Option) (*Buffer, error) {
	o := options{alloc: DefaultAllocator}
	for _, opt := range opts {
		opt(&o)
	}
	bits, data, _, err := readRaw(r, o.alloc)
	if err != nil {
		return nil, err
	}
	return adopt(data, bits, o.alloc), nil
}

// readChunk bounds each allocation step while reading storage, so a header
// declaring more bytes than the stream holds fails after at most about twice
// the bytes actually received.
const readChunk = 1 << 20

func readRaw(r io.Reader, alloc Allocator) (uint64, []byte, int64, error) {
	var hdr [HeaderSize]byte
	n, err := io.ReadFull(r, hdr[:])
	total := int64(n)
	if err != nil {
		return 0, nil, total, errors.IOFailure(errors.PhaseDecode, err, "reading header")
	}
	bits := binary.BigEndian.Uint64(hdr[:])
	size, err := byteSize(bits)
	if err != nil {
		return 0, nil, total, err
	}

	data, err := alloc.Alloc(min(size, readChunk))
	if err != nil {
		return 0, nil, total, allocFailed(bits, err)
	}
	filled := 0
	for filled < size {
		if filled == len(data) {
			grown, err := alloc.Realloc(data, min(size, 2*len(data)))
			if err != nil {
				alloc.Free(data)
				return 0, nil, total, allocFailed(bits, err)
			}
			data = grown
		}
		n, err = io.ReadFull(r, data[filled:])
		filled += n
		total += int64(n)
		if err != nil {
			alloc.Free(data)
			return 0, nil, total, errors.New(errors.PhaseDecode, errors.KindIOFailure).
				Value(bits).
				Cause(err).
				Detail("storage truncated: want %d bytes, got %d", size, filled).
				Build()
		}
	}
	return bits, data, total, nil
}

func allocFailed(bits uint64, err error) error {
	return errors.New(errors.PhaseDecode, errors.KindAllocationTooLarge).
		Value(bits).
		Cause(err).
		Build()
}

// MarshalBinary returns the raw format.
func (b *Buffer) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(b.st.data))
	if _, err := b.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary replaces the buffer's contents from the raw format. data
// must hold exactly one encoded buffer.
func (b *Buffer) UnmarshalBinary(data []byte) error {
	if len(data) >= HeaderSize {
		bits := binary.BigEndian.Uint64(data)
		if endian.CheckBits(bits) && uint64(len(data)-HeaderSize) > endian.ByteLen(bits) {
			return errors.New(errors.PhaseDecode, errors.KindIOFailure).
				Value(bits).
				Detail("%d trailing bytes", uint64(len(data)-HeaderSize)-endian.ByteLen(bits)).
				Build()
		}
	}
	if b.st == nil {
		b.st = &storage{alloc: DefaultAllocator}
	}
	_, err := b.ReadFrom(bytes.NewReader(data))
	return err
}

// adopt wraps storage already obtained from alloc.
func adopt(data []byte, bits uint64, alloc Allocator) *Buffer {
	b := &Buffer{st: &storage{data: data, alloc: alloc}, bits: bits}
	b.cleanup = runtimeCleanup(b)
	Logger().Debug("decoded buffer", zap.Uint64("bits", bits))
	return b
}
