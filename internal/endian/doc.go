// Package endian holds the bounds and byte-order helpers shared by the
// buffer and cast packages.
//
// All multi-byte values are big-endian and all bit positions are MSB-first:
// bit i of a byte slice lives in byte i/8 at position 7-i%8. Keeping these
// conventions in one place means the read path, the write path, comparison
// and hashing cannot drift apart.
//
// # Size Limits
//
//	MaxBytes   largest allocation a buffer may request
//	MaxBits    MaxBytes * 8
//
// Callers check ranges with CheckRange before touching memory; the helpers
// themselves rely on Go slice bounds checks and never use unsafe pointers.
//
// This package is internal to bitmem.
package endian
