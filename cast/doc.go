// Package cast converts values and arrays between the eight primitive kinds.
//
// Two families of conversion exist for every ordered pair of kinds:
//
//   - Value casts preserve numeric meaning (int8 5 becomes float64 5.0).
//   - Bit casts preserve the raw bit pattern (float32 1.0 becomes int32
//     0x3F800000).
//
// # Value Casts
//
// Integers truncate on narrowing and sign-extend on widening. Floats convert
// to integers by truncating toward zero and saturating at the int32/int64
// range, with NaN becoming 0; int8, int16 and char16 targets narrow from the
// int32 result. Char16 converts by its unsigned ordinal. Bool reads any
// nonzero value as true and writes true as 1.
//
// Exact performs the same conversion but fails with an overflow error when
// the result does not convert back to the original value.
//
// # Bit Casts
//
// Scalars keep the low min(srcWidth, dstWidth) bits of the source pattern.
// Arrays are packed: the source elements are concatenated most significant
// first into one bit string, which is then cut into target-width elements,
// again most significant first:
//
//	[]bool{true, false, true}  →  []int8{0b10100000}
//	[]int8{0x3F, -0x80, 0, 0}  →  []int32{0x3F800000}
//
// When the bit counts do not divide evenly the result holds one extra
// element whose unused low bits are zero.
//
// # Errors
//
// A source whose Go type is not one of the kind element types fails with
// errors.KindInvalidKind. A packing result too large to allocate fails with
// errors.KindAllocationTooLarge.
package cast
