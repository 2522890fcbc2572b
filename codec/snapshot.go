package codec

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/bitmem/buffer"
	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/internal/endian"
	"github.com/wippyai/bitmem/kind"
)

// Snapshot is the CBOR form of a buffer. Kind names the view the producer
// intended and is informational; the bits are the same under any kind.
type Snapshot struct {
	Bits   uint64 `cbor:"1,keyasint"`
	Data   []byte `cbor:"2,keyasint"`
	Kind   string `cbor:"3,keyasint,omitempty"`
	Digest []byte `cbor:"4,keyasint"`
}

// Core deterministic encoding: the same snapshot always yields the same
// bytes.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// NewSnapshot captures b viewed as k.
func NewSnapshot(b *buffer.Buffer, k kind.Kind) (Snapshot, error) {
	if !k.Valid() {
		return Snapshot{}, errors.New(errors.PhaseEncode, errors.KindInvalidKind).
			Path("codec", "Snapshot").
			ElemKind(k.String()).
			Build()
	}
	data := b.Bytes()
	d := sum(b.Bits(), data)
	return Snapshot{Bits: b.Bits(), Data: data, Kind: k.String(), Digest: d[:]}, nil
}

// Buffer rebuilds the buffer and the intended kind, verifying the digest.
// A missing kind defaults to Int8.
func (s Snapshot) Buffer(opts ...buffer.Option) (*buffer.Buffer, kind.Kind, error) {
	k := kind.Int8
	if s.Kind != "" {
		var err error
		if k, err = kind.Parse(s.Kind); err != nil {
			return nil, 0, errors.New(errors.PhaseDecode, errors.KindInvalidKind).
				Path("codec", "Snapshot").
				Cause(err).
				Build()
		}
	}
	if !endian.CheckBits(s.Bits) || uint64(len(s.Data)) != endian.ByteLen(s.Bits) {
		return nil, 0, malformed("snapshot holds %d bytes for %d bits", len(s.Data), s.Bits)
	}
	if got := sum(s.Bits, s.Data); len(s.Digest) != DigestSize || [DigestSize]byte(s.Digest) != got {
		return nil, 0, malformed("snapshot digest mismatch")
	}
	b, err := buffer.FromBytes(s.Data, s.Bits, opts...)
	if err != nil {
		return nil, 0, err
	}
	return b, k, nil
}

// MarshalSnapshot encodes b viewed as k to CBOR.
func MarshalSnapshot(b *buffer.Buffer, k kind.Kind) ([]byte, error) {
	s, err := NewSnapshot(b, k)
	if err != nil {
		return nil, err
	}
	out, err := encMode.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindIOFailure, err, "cbor marshal")
	}
	return out, nil
}

// UnmarshalSnapshot decodes a CBOR snapshot.
func UnmarshalSnapshot(data []byte, opts ...buffer.Option) (*buffer.Buffer, kind.Kind, error) {
	var s Snapshot
	if err := decMode.Unmarshal(data, &s); err != nil {
		return nil, 0, errors.Wrap(errors.PhaseDecode, errors.KindIOFailure, err, "cbor unmarshal")
	}
	return s.Buffer(opts...)
}
