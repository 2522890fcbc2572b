package kind

import (
	"slices"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		want string
		kind Kind
	}{
		{"int8", Int8},
		{"int16", Int16},
		{"int32", Int32},
		{"int64", Int64},
		{"float32", Float32},
		{"float64", Float64},
		{"char16", Char16},
		{"bool", Bool1},
		{"unknown(255)", Kind(255)},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.kind.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestKindWidths(t *testing.T) {
	tests := []struct {
		kind  Kind
		bits  uint
		bytes uint
	}{
		{Int8, 8, 1},
		{Int16, 16, 2},
		{Int32, 32, 4},
		{Int64, 64, 8},
		{Float32, 32, 4},
		{Float64, 64, 8},
		{Char16, 16, 2},
		{Bool1, 1, 1},
		{Kind(9), 0, 0},
	}
	for _, tc := range tests {
		if got := tc.kind.BitWidth(); got != tc.bits {
			t.Errorf("%s.BitWidth() = %d, want %d", tc.kind, got, tc.bits)
		}
		if got := tc.kind.ByteWidth(); got != tc.bytes {
			t.Errorf("%s.ByteWidth() = %d, want %d", tc.kind, got, tc.bytes)
		}
	}
}

func TestAllCanonicalOrder(t *testing.T) {
	all := All()
	if len(all) != Count {
		t.Fatalf("len(All()) = %d, want %d", len(all), Count)
	}
	if !slices.IsSortedFunc(all, func(a, b Kind) int { return int(a) - int(b) }) {
		t.Error("All() is not in canonical order")
	}
	all[0] = Bool1
	if All()[0] != Int8 {
		t.Error("All() must return a fresh slice")
	}
	if !Int8.Less(Bool1) || Bool1.Less(Int8) {
		t.Error("Less disagrees with canonical order")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"int8", Int8},
		{"byte", Int8},
		{"Short", Int16},
		{" int ", Int32},
		{"long", Int64},
		{"f32", Float32},
		{"double", Float64},
		{"char", Char16},
		{"char16", Char16},
		{"boolean", Bool1},
		{"bool", Bool1},
	}
	for _, tc := range tests {
		got, err := Parse(tc.in)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
	if _, err := Parse("uint8"); err == nil {
		t.Error("Parse(uint8) should fail")
	}
}

func TestOf(t *testing.T) {
	tests := []struct {
		value  any
		want   Kind
		wantOK bool
	}{
		{int8(1), Int8, true},
		{int16(1), Int16, true},
		{int32(1), Int32, true},
		{int64(1), Int64, true},
		{float32(1), Float32, true},
		{float64(1), Float64, true},
		{uint16('a'), Char16, true},
		{true, Bool1, true},
		{uint8(1), 0, false},
		{1, 0, false},
		{"x", 0, false},
		{nil, 0, false},
	}
	for _, tc := range tests {
		got, ok := Of(tc.value)
		if ok != tc.wantOK || (ok && got != tc.want) {
			t.Errorf("Of(%T) = %s, %v; want %s, %v", tc.value, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestOfSliceAndMakeSlice(t *testing.T) {
	for _, k := range All() {
		s, ok := MakeSlice(k, 3)
		if !ok {
			t.Fatalf("MakeSlice(%s) failed", k)
		}
		got, ok := OfSlice(s)
		if !ok || got != k {
			t.Errorf("OfSlice(MakeSlice(%s)) = %s, %v", k, got, ok)
		}
		if n, _ := SliceLen(s); n != 3 {
			t.Errorf("SliceLen = %d, want 3", n)
		}
	}
	if _, ok := OfSlice([]byte{1}); ok {
		t.Error("[]byte must not be a kind slice")
	}
	if _, ok := MakeSlice(Kind(42), 1); ok {
		t.Error("MakeSlice of invalid kind should fail")
	}
}

func TestFor(t *testing.T) {
	if For[float32]() != Float32 {
		t.Error("For[float32]() != Float32")
	}
	if For[uint16]() != Char16 {
		t.Error("For[uint16]() != Char16")
	}
	if For[bool]() != Bool1 {
		t.Error("For[bool]() != Bool1")
	}
}
