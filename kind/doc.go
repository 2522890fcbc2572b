// Package kind defines the eight primitive element kinds a buffer can be
// viewed through.
//
// Each Kind is a fixed descriptor with a bit width, a byte width and a Go
// element type:
//
//	Kind      Bits  Bytes  Go type
//	────────────────────────────────
//	Int8       8     1     int8
//	Int16     16     2     int16
//	Int32     32     4     int32
//	Int64     64     8     int64
//	Float32   32     4     float32
//	Float64   64     8     float64
//	Char16    16     2     uint16
//	Bool1      1     1     bool
//
// The constants are declared in canonical order. That order is only used
// for deterministic sorting; it carries no numeric meaning.
//
// Values and slices are tagged at runtime by their Go type with Of and
// OfSlice. Types outside the table (uint8, int, string, ...) are not kinds.
package kind
