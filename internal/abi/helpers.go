// Package abi holds small arithmetic and naming helpers shared across
// bitmem packages.
package abi

import (
	"math"
	"reflect"

	"github.com/wippyai/bitmem/internal/endian"
)

// MaxAlloc is the default cap on storage decoded from untrusted input.
const MaxAlloc = 1 << 30 // 1 GB

func SafeMulU64(a, b uint64) (uint64, bool) {
	if b != 0 && a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}

func SafeAddU64(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

// TypeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func TypeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}

// MaxElements returns the largest slice length of elements byteWidth bytes
// wide that stays within the allocation limit.
func MaxElements(byteWidth uint) uint64 {
	if byteWidth == 0 {
		return 0
	}
	n := endian.MaxBytes / uint64(byteWidth)
	if n > math.MaxInt {
		n = math.MaxInt
	}
	return n
}

// IntLen converts a length to int, reporting false when it does not fit.
func IntLen(n uint64) (int, bool) {
	if n > math.MaxInt {
		return 0, false
	}
	return int(n), true
}
