package codec

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/wippyai/bitmem/buffer"
	"github.com/wippyai/bitmem/internal/endian"
)

// DigestSize is the length of a BLAKE3 digest.
const DigestSize = 32

// Digest identifies buffer content.
type Digest [DigestSize]byte

// Sum returns the digest of b: BLAKE3 over the bit length and the storage
// with pad bits cleared.
func Sum(b *buffer.Buffer) Digest {
	return sum(b.Bits(), b.Bytes())
}

func sum(bits uint64, data []byte) Digest {
	h := blake3.New()
	var hdr [8]byte
	binary.BigEndian.PutUint64(hdr[:], bits)
	_, _ = h.Write(hdr[:])
	if n := len(data); n > 0 && bits&7 != 0 {
		_, _ = h.Write(data[:n-1])
		_, _ = h.Write([]byte{data[n-1] & endian.TailMask(bits)})
	} else {
		_, _ = h.Write(data)
	}
	var d Digest
	h.Sum(d[:0])
	return d
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest decodes a hex digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	raw, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("parse digest: %w", err)
	}
	if len(raw) != DigestSize {
		return d, fmt.Errorf("parse digest: %d bytes, want %d", len(raw), DigestSize)
	}
	copy(d[:], raw)
	return d, nil
}
