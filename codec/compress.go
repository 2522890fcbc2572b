package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how a frame's payload is compressed. Values are
// stored in the frame header.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Valid reports whether c is a known compression.
func (c Compression) Valid() bool {
	return c <= CompressionZstd
}

// ParseCompression resolves a compression name.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	}
	return 0, fmt.Errorf("unknown compression %q", name)
}

// The encoder is safe for concurrent use and reused across calls.
var zstdEncoder *zstd.Encoder

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("codec: zstd encoder initialization failed: " + err.Error())
	}
}

// compress returns the payload and the compression actually applied.
func compress(data []byte, c Compression) ([]byte, Compression, error) {
	switch c {
	case CompressionNone:
		return data, CompressionNone, nil
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("lz4 compress: %w", err)
		}
		// 0 means incompressible
		if n == 0 || n >= len(data) {
			return data, CompressionNone, nil
		}
		return dst[:n], CompressionLZ4, nil
	case CompressionZstd:
		out := zstdEncoder.EncodeAll(data, nil)
		if len(out) >= len(data) {
			return data, CompressionNone, nil
		}
		return out, CompressionZstd, nil
	}
	return nil, 0, fmt.Errorf("unsupported compression %s", c)
}

// maxLZ4Ratio bounds how far an lz4 block can expand: each extra length
// byte in a sequence adds at most 255 output bytes.
const maxLZ4Ratio = 255

// decompress expands payload to exactly size bytes. Output is only
// allocated in proportion to what the payload can actually produce.
func decompress(payload []byte, c Compression, size int) ([]byte, error) {
	switch c {
	case CompressionNone:
		if len(payload) != size {
			return nil, fmt.Errorf("payload is %d bytes, want %d", len(payload), size)
		}
		return payload, nil
	case CompressionLZ4:
		if uint64(size)/maxLZ4Ratio > uint64(len(payload)) {
			return nil, fmt.Errorf("lz4 decompress: %d payload bytes cannot expand to %d", len(payload), size)
		}
		dst := make([]byte, size)
		n, err := lz4.UncompressBlock(payload, dst)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if n != size {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, want %d", n, size)
		}
		return dst, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(bytes.NewReader(payload), zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		defer dec.Close()
		var out bytes.Buffer
		// one byte past size detects overlong content
		n, err := io.CopyN(&out, dec, int64(size)+1)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if n != int64(size) {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, want %d", n, size)
		}
		return out.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported compression %s", c)
}
