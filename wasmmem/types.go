package wasmmem

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/bitmem/kind"
)

// KindOf maps a WIT primitive type to the kind with the same canonical ABI
// element. u16 maps to Char16 because a char16 is a UTF-16 code unit; WIT's
// own char is a 32-bit scalar value and has no kind.
func KindOf(t wit.Type) (kind.Kind, bool) {
	switch t.(type) {
	case wit.S8:
		return kind.Int8, true
	case wit.S16:
		return kind.Int16, true
	case wit.S32:
		return kind.Int32, true
	case wit.S64:
		return kind.Int64, true
	case wit.F32:
		return kind.Float32, true
	case wit.F64:
		return kind.Float64, true
	case wit.U16:
		return kind.Char16, true
	case wit.Bool:
		return kind.Bool1, true
	}
	return 0, false
}

// WITType returns the WIT type for k, or nil for an invalid kind.
func WITType(k kind.Kind) wit.Type {
	switch k {
	case kind.Int8:
		return wit.S8{}
	case kind.Int16:
		return wit.S16{}
	case kind.Int32:
		return wit.S32{}
	case kind.Int64:
		return wit.S64{}
	case kind.Float32:
		return wit.F32{}
	case kind.Float64:
		return wit.F64{}
	case kind.Char16:
		return wit.U16{}
	case kind.Bool1:
		return wit.Bool{}
	}
	return nil
}

// ElemSize returns the canonical ABI size of one k element in guest memory.
// It is also the required alignment.
func ElemSize(k kind.Kind) uint32 {
	return uint32(k.ByteWidth())
}
