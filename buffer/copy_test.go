package buffer

import (
	"bytes"
	stderrors "errors"
	"math/rand/v2"
	"testing"

	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/internal/endian"
)

// copyBitsNaive is the reference: snapshot the source, then copy bit by bit.
func copyBitsNaive(src []byte, srcOff uint64, dst []byte, dstOff, n uint64) {
	snap := bytes.Clone(src)
	for i := uint64(0); i < n; i++ {
		endian.SetBit(dst, dstOff+i, endian.Bit(snap, srcOff+i))
	}
}

func randomBuffer(t *testing.T, r *rand.Rand, bits uint64) *Buffer {
	t.Helper()
	data := make([]byte, endian.ByteLen(bits))
	for i := range data {
		data[i] = byte(r.Uint32())
	}
	return fromBytes(t, data, bits)
}

func TestCopyBits(t *testing.T) {
	tests := []struct {
		name   string
		srcOff uint64
		dstOff uint64
		n      uint64
	}{
		{"aligned bytes", 8, 16, 64},
		{"same remainder", 3, 19, 100},
		{"same remainder short", 5, 13, 2},
		{"unaligned", 1, 6, 150},
		{"unaligned short", 7, 0, 9},
		{"whole", 0, 0, 256},
		{"empty", 10, 20, 0},
	}
	r := rand.New(rand.NewPCG(1, 2))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := randomBuffer(t, r, 256)
			dst := randomBuffer(t, r, 256)
			want := dst.Bytes()
			copyBitsNaive(src.Bytes(), tt.srcOff, want, tt.dstOff, tt.n)
			if err := src.CopyBits(tt.srcOff, dst, tt.dstOff, tt.n); err != nil {
				t.Fatal(err)
			}
			if got := dst.Bytes(); !bytes.Equal(got, want) {
				t.Errorf("CopyBits() = % x, want % x", got, want)
			}
		})
	}
}

func TestCopyBitsOverlap(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for trial := 0; trial < 200; trial++ {
		b := randomBuffer(t, r, 300)
		n := r.Uint64N(200)
		srcOff := r.Uint64N(300 - n + 1)
		dstOff := r.Uint64N(300 - n + 1)
		if trial%2 == 0 {
			// force a shared remainder to exercise the byte path
			dstOff = dstOff&^7 | srcOff&7
			if dstOff+n > 300 {
				dstOff -= 8
			}
		}
		want := b.Bytes()
		copyBitsNaive(want, srcOff, want, dstOff, n)
		if err := b.CopyBits(srcOff, b, dstOff, n); err != nil {
			t.Fatal(err)
		}
		if got := b.Bytes(); !bytes.Equal(got, want) {
			t.Fatalf("CopyBits(%d, self, %d, %d) = % x, want % x", srcOff, dstOff, n, got, want)
		}
	}
}

func TestCopyBitsBounds(t *testing.T) {
	src := mustBuffer(t, 64)
	dst := mustBuffer(t, 32)
	_ = src.FillInt8(0, 8, -1)
	tests := []struct {
		name           string
		srcOff, dstOff uint64
		n              uint64
	}{
		{"src overflow", 60, 0, 8},
		{"dst overflow", 0, 30, 4},
		{"dst offset past end", 0, 33, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := src.CopyBits(tt.srcOff, dst, tt.dstOff, tt.n)
			if !stderrors.Is(err, errors.ErrOutOfBounds) {
				t.Errorf("CopyBits() error = %v, want out of bounds", err)
			}
		})
	}
	if !bytes.Equal(dst.Bytes(), make([]byte, 4)) {
		t.Error("rejected copy mutated the destination")
	}
	if err := src.CopyBits(0, nil, 0, 1); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("CopyBits(nil) error = %v", err)
	}
}
