package buffer

import (
	"bytes"
	stderrors "errors"
	"math"
	"testing"

	"github.com/wippyai/bitmem/cast"
	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/kind"
)

func mustBuffer(t *testing.T, bits uint64) *Buffer {
	t.Helper()
	b, err := New(bits)
	if err != nil {
		t.Fatalf("New(%d) error = %v", bits, err)
	}
	t.Cleanup(b.Free)
	return b
}

func fromBytes(t *testing.T, data []byte, bits uint64) *Buffer {
	t.Helper()
	b, err := FromBytes(data, bits)
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	t.Cleanup(b.Free)
	return b
}

func TestNew(t *testing.T) {
	b := mustBuffer(t, 100)
	tests := []struct {
		name string
		got  uint64
		want uint64
	}{
		{"Bits", b.Bits(), 100},
		{"ByteLen", b.ByteLen(), 12},
		{"ShortLen", b.ShortLen(), 6},
		{"IntLen", b.IntLen(), 3},
		{"LongLen", b.LongLen(), 1},
		{"FloatLen", b.FloatLen(), 3},
		{"DoubleLen", b.DoubleLen(), 1},
		{"CharLen", b.CharLen(), 6},
		{"BoolLen", b.BoolLen(), 100},
		{"Len(Int16)", b.Len(kind.Int16), 6},
		{"Len(invalid)", b.Len(kind.Kind(99)), 0},
		{"storage", uint64(len(b.Bytes())), 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
			}
		})
	}
	if !bytes.Equal(b.Bytes(), make([]byte, 13)) {
		t.Error("new buffer is not zeroed")
	}
}

func TestNewTooLarge(t *testing.T) {
	_, err := New(MaxBits + 1)
	if !stderrors.Is(err, errors.ErrAllocationTooLarge) {
		t.Fatalf("New(MaxBits+1) error = %v, want allocation too large", err)
	}
	_, err = New(math.MaxUint64)
	if !stderrors.Is(err, errors.ErrAllocationTooLarge) {
		t.Fatalf("New(MaxUint64) error = %v, want allocation too large", err)
	}
}

func TestNewEmpty(t *testing.T) {
	b := mustBuffer(t, 0)
	if b.Bits() != 0 || len(b.Bytes()) != 0 {
		t.Errorf("empty buffer = %v", b)
	}
	if _, err := b.Bool(0); !stderrors.Is(err, errors.ErrOutOfBounds) {
		t.Errorf("Bool(0) error = %v, want out of bounds", err)
	}
}

func TestFromBytesLength(t *testing.T) {
	_, err := FromBytes([]byte{1, 2}, 20)
	if !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("FromBytes() error = %v, want invalid input", err)
	}
}

func TestFloatScenario(t *testing.T) {
	b := mustBuffer(t, 32)
	if err := b.WriteInt8(0, []int8{0x3F, -0x80, 0, 0}, 0, 4); err != nil {
		t.Fatal(err)
	}
	f, err := b.Float32(0)
	if err != nil || f != 1.0 {
		t.Errorf("Float32(0) = %v, %v, want 1.0", f, err)
	}
	got := make([]int8, 4)
	if err := b.ReadInt8(0, got, 0, 4); err != nil {
		t.Fatal(err)
	}
	want := []int8{0x3F, -0x80, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
	packed, err := cast.ArrayBitsAs[int32](got)
	if err != nil || len(packed) != 1 || packed[0] != 0x3F800000 {
		t.Errorf("ArrayBitsAs[int32]() = %#x, %v", packed, err)
	}
}

func TestBigEndianLayout(t *testing.T) {
	tests := []struct {
		name string
		set  func(b *Buffer) error
		want []byte
	}{
		{"int16", func(b *Buffer) error { return b.SetInt16(1, 0x0102) }, []byte{0, 0, 1, 2, 0, 0, 0, 0}},
		{"int32", func(b *Buffer) error { return b.SetInt32(0, 0x01020304) }, []byte{1, 2, 3, 4, 0, 0, 0, 0}},
		{"int64", func(b *Buffer) error { return b.SetInt64(0, -2) }, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE}},
		{"float64", func(b *Buffer) error { return b.SetFloat64(0, 1) }, []byte{0x3F, 0xF0, 0, 0, 0, 0, 0, 0}},
		{"char", func(b *Buffer) error { return b.SetChar16(3, 'A') }, []byte{0, 0, 0, 0, 0, 0, 0, 'A'}},
		{"bool msb first", func(b *Buffer) error { return b.SetBool(0, true) }, []byte{0x80, 0, 0, 0, 0, 0, 0, 0}},
		{"bool 9", func(b *Buffer) error { return b.SetBool(9, true) }, []byte{0, 0x40, 0, 0, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBuffer(t, 64)
			if err := tt.set(b); err != nil {
				t.Fatal(err)
			}
			if got := b.Bytes(); !bytes.Equal(got, tt.want) {
				t.Errorf("Bytes() = % x, want % x", got, tt.want)
			}
		})
	}
}

func TestSetGetAllKinds(t *testing.T) {
	values := map[kind.Kind][]any{
		kind.Int8:    {int8(0), int8(-128), int8(127)},
		kind.Int16:   {int16(-1), int16(math.MaxInt16)},
		kind.Int32:   {int32(math.MinInt32), int32(42)},
		kind.Int64:   {int64(math.MinInt64), int64(math.MaxInt64)},
		kind.Float32: {float32(-0.5), float32(math.Inf(1))},
		kind.Float64: {math.Pi, math.SmallestNonzeroFloat64},
		kind.Char16:  {uint16(0), uint16(0xFFFF)},
		kind.Bool1:   {true, false},
	}
	for _, k := range kind.All() {
		t.Run(k.String(), func(t *testing.T) {
			b := mustBuffer(t, 200)
			n := b.Len(k)
			for _, v := range values[k] {
				for _, i := range []uint64{0, n / 2, n - 1} {
					if err := b.Set(k, i, v); err != nil {
						t.Fatalf("Set(%d, %v) error = %v", i, v, err)
					}
					got, err := b.Get(k, i)
					if err != nil {
						t.Fatalf("Get(%d) error = %v", i, err)
					}
					if got != v {
						t.Errorf("Get(%d) = %v, want %v", i, got, v)
					}
				}
			}
			if _, err := b.Get(k, n); !stderrors.Is(err, errors.ErrOutOfBounds) {
				t.Errorf("Get(%d) error = %v, want out of bounds", n, err)
			}
			if err := b.Set(k, n, values[k][0]); !stderrors.Is(err, errors.ErrOutOfBounds) {
				t.Errorf("Set(%d) error = %v, want out of bounds", n, err)
			}
		})
	}
}

func TestSetNaNPreservesBits(t *testing.T) {
	b := mustBuffer(t, 64)
	nan := math.Float64frombits(0x7FF8_0000_0000_00AB)
	if err := b.SetFloat64(0, nan); err != nil {
		t.Fatal(err)
	}
	got, _ := b.Float64(0)
	if math.Float64bits(got) != 0x7FF8_0000_0000_00AB {
		t.Errorf("Float64(0) bits = %#x", math.Float64bits(got))
	}
}

func TestSetWrongType(t *testing.T) {
	b := mustBuffer(t, 64)
	tests := []struct {
		name string
		k    kind.Kind
		v    any
	}{
		{"int for int32", kind.Int32, 1},
		{"uint8 for int8", kind.Int8, uint8(1)},
		{"int32 for char", kind.Char16, int32('a')},
		{"invalid kind", kind.Kind(8), int8(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := b.Set(tt.k, 0, tt.v); !stderrors.Is(err, errors.ErrInvalidKind) {
				t.Errorf("Set() error = %v, want invalid kind", err)
			}
			if err := b.Fill(tt.k, 0, 1, tt.v); !stderrors.Is(err, errors.ErrInvalidKind) {
				t.Errorf("Fill() error = %v, want invalid kind", err)
			}
		})
	}
	if _, err := b.Get(kind.Kind(8), 0); !stderrors.Is(err, errors.ErrInvalidKind) {
		t.Errorf("Get() error = %v, want invalid kind", err)
	}
}

func TestBulkRoundTrip(t *testing.T) {
	b := mustBuffer(t, 256)
	src := []int16{-1, 2, -3, 4, -5}
	if err := b.WriteInt16(3, src, 1, 4); err != nil {
		t.Fatal(err)
	}
	dst := make([]int16, 6)
	if err := b.ReadInt16(3, dst, 2, 4); err != nil {
		t.Fatal(err)
	}
	want := []int16{0, 0, 2, -3, 4, -5}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}

	bools := []bool{true, true, false, true}
	if err := b.Write(kind.Bool1, 5, bools, 0, 4); err != nil {
		t.Fatal(err)
	}
	gotBools := make([]bool, 4)
	if err := b.Read(kind.Bool1, 5, gotBools, 0, 4); err != nil {
		t.Fatal(err)
	}
	for i := range bools {
		if gotBools[i] != bools[i] {
			t.Errorf("bool %d = %v, want %v", i, gotBools[i], bools[i])
		}
	}
}

func TestBulkBounds(t *testing.T) {
	b := mustBuffer(t, 64)
	before := b.Bytes()
	tests := []struct {
		name  string
		index uint64
		src   []int16
		off   int
		n     int
	}{
		{"buffer overflow", 2, []int16{1, 2, 3}, 0, 3},
		{"index past end", 5, []int16{1}, 0, 1},
		{"slice overflow", 0, []int16{1, 2}, 1, 2},
		{"negative off", 0, []int16{1}, -1, 1},
		{"negative n", 0, []int16{1}, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := b.WriteInt16(tt.index, tt.src, tt.off, tt.n); !stderrors.Is(err, errors.ErrOutOfBounds) {
				t.Errorf("WriteInt16() error = %v, want out of bounds", err)
			}
			dst := make([]int16, len(tt.src))
			if err := b.ReadInt16(tt.index, dst, tt.off, tt.n); !stderrors.Is(err, errors.ErrOutOfBounds) {
				t.Errorf("ReadInt16() error = %v, want out of bounds", err)
			}
		})
	}
	if !bytes.Equal(b.Bytes(), before) {
		t.Error("rejected write mutated the buffer")
	}
	if err := b.Read(kind.Int32, 0, []int16{0}, 0, 1); !stderrors.Is(err, errors.ErrInvalidKind) {
		t.Errorf("Read() kind mismatch error = %v", err)
	}
}

func TestView(t *testing.T) {
	b := fromBytes(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05}, 40)
	v, err := b.View(kind.Int16)
	if err != nil {
		t.Fatal(err)
	}
	got := v.([]int16)
	if len(got) != 2 || got[0] != 0x0102 || got[1] != 0x0304 {
		t.Errorf("View(Int16) = %#x", got)
	}
}

func TestFill(t *testing.T) {
	tests := []struct {
		name string
		bits uint64
		fill func(b *Buffer) error
		want []byte
	}{
		{"zero int32", 64, func(b *Buffer) error { return b.FillInt32(0, 2, 0) }, []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		{"ones int16", 64, func(b *Buffer) error { return b.FillInt16(1, 2, -1) }, []byte{0, 0, 0xFF, 0xFF, 0xFF, 0xFF, 0, 0}},
		{"pattern int8", 32, func(b *Buffer) error { return b.FillInt8(1, 2, 0x5A) }, []byte{0, 0x5A, 0x5A, 0}},
		{"float", 64, func(b *Buffer) error { return b.FillFloat32(0, 2, 1) }, []byte{0x3F, 0x80, 0, 0, 0x3F, 0x80, 0, 0}},
		{"char ones", 32, func(b *Buffer) error { return b.FillChar16(0, 1, 0xFFFF) }, []byte{0xFF, 0xFF, 0, 0}},
		{"bools unaligned", 24, func(b *Buffer) error { return b.FillBool(3, 15, true) }, []byte{0x1F, 0xFF, 0xC0}},
		{"bools within byte", 8, func(b *Buffer) error { return b.FillBool(2, 3, true) }, []byte{0x38}},
		{"generic", 16, func(b *Buffer) error { return b.Fill(kind.Int8, 0, 2, int8(7)) }, []byte{7, 7}},
		{"empty range", 16, func(b *Buffer) error { return b.FillInt16(1, 0, -1) }, []byte{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBuffer(t, tt.bits)
			if err := tt.fill(b); err != nil {
				t.Fatal(err)
			}
			if got := b.Bytes(); !bytes.Equal(got, tt.want) {
				t.Errorf("Bytes() = % x, want % x", got, tt.want)
			}
		})
	}
}

func TestFillClearsWithinOnes(t *testing.T) {
	b := fromBytes(t, []byte{0xFF, 0xFF, 0xFF}, 24)
	if err := b.FillBool(5, 12, false); err != nil {
		t.Fatal(err)
	}
	if got, want := b.Bytes(), []byte{0xF8, 0x00, 0x7F}; !bytes.Equal(got, want) {
		t.Errorf("Bytes() = % x, want % x", got, want)
	}
}

func TestFillBounds(t *testing.T) {
	b := mustBuffer(t, 64)
	if err := b.FillInt32(1, 2, 5); !stderrors.Is(err, errors.ErrOutOfBounds) {
		t.Errorf("FillInt32() error = %v, want out of bounds", err)
	}
	if !bytes.Equal(b.Bytes(), make([]byte, 8)) {
		t.Error("rejected fill mutated the buffer")
	}
}

func TestRebase(t *testing.T) {
	b := fromBytes(t, []byte{0xAB, 0xCD, 0xEF}, 20)
	if err := b.Rebase(100); err != nil {
		t.Fatal(err)
	}
	if b.Bits() != 100 || len(b.Bytes()) != 13 {
		t.Fatalf("after grow: bits=%d bytes=%d", b.Bits(), len(b.Bytes()))
	}
	want := append([]byte{0xAB, 0xCD, 0xE0}, make([]byte, 10)...)
	if got := b.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("grown Bytes() = % x, want % x", got, want)
	}
	if err := b.Rebase(20); err != nil {
		t.Fatal(err)
	}
	if got := b.Bytes(); !bytes.Equal(got, []byte{0xAB, 0xCD, 0xE0}) {
		t.Errorf("shrunk Bytes() = % x", got)
	}
	if err := b.Rebase(MaxBits + 1); !stderrors.Is(err, errors.ErrAllocationTooLarge) {
		t.Errorf("Rebase(MaxBits+1) error = %v", err)
	}
	if b.Bits() != 20 {
		t.Errorf("failed rebase changed Bits() to %d", b.Bits())
	}
}

func TestRebaseSameByteLength(t *testing.T) {
	b := fromBytes(t, []byte{0xFF, 0xFF}, 16)
	if err := b.Rebase(10); err != nil {
		t.Fatal(err)
	}
	if err := b.Rebase(12); err != nil {
		t.Fatal(err)
	}
	if got := b.Bytes(); !bytes.Equal(got, []byte{0xFF, 0xC0}) {
		t.Errorf("Bytes() = % x, want ff c0", got)
	}
}

func TestClear(t *testing.T) {
	b := fromBytes(t, []byte{0xFF, 0xFF}, 12)
	b.Clear()
	if got := b.Bytes(); !bytes.Equal(got, []byte{0, 0}) {
		t.Errorf("Bytes() = % x, want 00 00", got)
	}
}

func TestFree(t *testing.T) {
	b, err := New(64)
	if err != nil {
		t.Fatal(err)
	}
	b.Free()
	b.Free()
	if b.Bits() != 0 {
		t.Errorf("Bits() after Free = %d", b.Bits())
	}
	if _, err := b.Int8(0); !stderrors.Is(err, errors.ErrOutOfBounds) {
		t.Errorf("Int8(0) after Free error = %v", err)
	}
	if err := b.Rebase(8); err != nil {
		t.Fatalf("Rebase after Free error = %v", err)
	}
	if err := b.SetInt8(0, 3); err != nil {
		t.Errorf("SetInt8 after revive error = %v", err)
	}
	b.Free()
}

func TestClone(t *testing.T) {
	b := fromBytes(t, []byte{1, 2, 3}, 24)
	c, err := b.Clone()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Free()
	if !c.Equal(b) {
		t.Fatal("clone differs from source")
	}
	_ = c.SetInt8(0, 9)
	if v, _ := b.Int8(0); v != 1 {
		t.Error("clone shares storage with source")
	}
}

func TestString(t *testing.T) {
	b := fromBytes(t, []byte{0xDE, 0xAD}, 16)
	if got, want := b.String(), "Buffer(16 bits: dead)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func BenchmarkSetGetInt32(b *testing.B) {
	buf := MustNew(1 << 16)
	defer buf.Free()
	n := buf.IntLen()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx := uint64(i) % n
		_ = buf.SetInt32(idx, int32(i))
		_, _ = buf.Int32(idx)
	}
}

func BenchmarkFillBoolOnes(b *testing.B) {
	buf := MustNew(1 << 16)
	defer buf.Free()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = buf.FillBool(3, 1<<16-7, true)
	}
}
