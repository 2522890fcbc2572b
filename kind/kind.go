package kind

import (
	"fmt"
	"strings"
)

type Kind uint8

const (
	Int8 Kind = iota
	Int16
	Int32
	Int64
	Float32
	Float64
	Char16
	Bool1
)

// Count is the number of kinds.
const Count = 8

// Element is the set of Go types that carry a kind.
type Element interface {
	int8 | int16 | int32 | int64 | float32 | float64 | uint16 | bool
}

var kindNames = [...]string{
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Float32: "float32",
	Float64: "float64",
	Char16:  "char16",
	Bool1:   "bool",
}

var bitWidths = [...]uint{
	Int8:    8,
	Int16:   16,
	Int32:   32,
	Int64:   64,
	Float32: 32,
	Float64: 64,
	Char16:  16,
	Bool1:   1,
}

var goTypes = [...]string{
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Float32: "float32",
	Float64: "float64",
	Char16:  "uint16",
	Bool1:   "bool",
}

var aliases = map[string]Kind{
	"byte":    Int8,
	"i8":      Int8,
	"s8":      Int8,
	"short":   Int16,
	"i16":     Int16,
	"s16":     Int16,
	"int":     Int32,
	"i32":     Int32,
	"s32":     Int32,
	"long":    Int64,
	"i64":     Int64,
	"s64":     Int64,
	"float":   Float32,
	"f32":     Float32,
	"double":  Float64,
	"f64":     Float64,
	"char":    Char16,
	"u16":     Char16,
	"boolean": Bool1,
	"bool1":   Bool1,
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("unknown(%d)", uint8(k))
}

func (k Kind) Valid() bool {
	return k < Count
}

// BitWidth returns the element width in bits, or 0 for an invalid kind.
func (k Kind) BitWidth() uint {
	if !k.Valid() {
		return 0
	}
	return bitWidths[k]
}

// ByteWidth returns ceil(BitWidth/8).
func (k Kind) ByteWidth() uint {
	return (k.BitWidth() + 7) / 8
}

// GoType returns the name of the Go element type.
func (k Kind) GoType() string {
	if !k.Valid() {
		return "invalid"
	}
	return goTypes[k]
}

// IsInteger reports whether k is a signed integer kind.
func (k Kind) IsInteger() bool {
	return k <= Int64
}

func (k Kind) IsFloat() bool {
	return k == Float32 || k == Float64
}

// Less orders kinds canonically.
func (k Kind) Less(o Kind) bool {
	return k < o
}

// All returns every kind in canonical order.
func All() []Kind {
	return []Kind{Int8, Int16, Int32, Int64, Float32, Float64, Char16, Bool1}
}

// Parse resolves a kind from its display name or a common alias.
func Parse(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for k, s := range kindNames {
		if s == n {
			return Kind(k), nil
		}
	}
	if k, ok := aliases[n]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown kind %q", name)
}

// Of reports the kind of a scalar value.
func Of(v any) (Kind, bool) {
	switch v.(type) {
	case int8:
		return Int8, true
	case int16:
		return Int16, true
	case int32:
		return Int32, true
	case int64:
		return Int64, true
	case float32:
		return Float32, true
	case float64:
		return Float64, true
	case uint16:
		return Char16, true
	case bool:
		return Bool1, true
	}
	return 0, false
}

// OfSlice reports the element kind of a slice value.
func OfSlice(v any) (Kind, bool) {
	switch v.(type) {
	case []int8:
		return Int8, true
	case []int16:
		return Int16, true
	case []int32:
		return Int32, true
	case []int64:
		return Int64, true
	case []float32:
		return Float32, true
	case []float64:
		return Float64, true
	case []uint16:
		return Char16, true
	case []bool:
		return Bool1, true
	}
	return 0, false
}

// For returns the kind of the element type T.
func For[T Element]() Kind {
	var zero T
	k, _ := Of(zero)
	return k
}

// MakeSlice allocates a zeroed slice of k's Go element type.
func MakeSlice(k Kind, n int) (any, bool) {
	switch k {
	case Int8:
		return make([]int8, n), true
	case Int16:
		return make([]int16, n), true
	case Int32:
		return make([]int32, n), true
	case Int64:
		return make([]int64, n), true
	case Float32:
		return make([]float32, n), true
	case Float64:
		return make([]float64, n), true
	case Char16:
		return make([]uint16, n), true
	case Bool1:
		return make([]bool, n), true
	}
	return nil, false
}

// SliceLen returns the length of a kind-tagged slice.
func SliceLen(v any) (int, bool) {
	switch s := v.(type) {
	case []int8:
		return len(s), true
	case []int16:
		return len(s), true
	case []int32:
		return len(s), true
	case []int64:
		return len(s), true
	case []float32:
		return len(s), true
	case []float64:
		return len(s), true
	case []uint16:
		return len(s), true
	case []bool:
		return len(s), true
	}
	return 0, false
}
