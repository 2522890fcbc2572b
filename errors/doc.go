// Package errors provides structured error types for the bitmem library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries context: the operation path, the Go type and element
// kind involved, the offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCast, errors.KindInvalidKind).
//		Path("cast", "ArrayBits").
//		GoType("[]uint8").
//		Detail("source is not a primitive kind array").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseAccess, path, 10, 5)
//	err := errors.AllocationTooLarge(errors.PhaseAlloc, bits, max)
//
// All errors implement the standard error interface and support errors.Is/As.
// The package-level sentinels (ErrOutOfBounds, ErrInvalidKind, ...) match any
// Error of the same Kind regardless of phase:
//
//	if errors.Is(err, errors.ErrOutOfBounds) { ... }
package errors
