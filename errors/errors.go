package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseAlloc  Phase = "alloc"  // allocation and resize
	PhaseAccess Phase = "access" // indexed, bulk and range access
	PhaseCast   Phase = "cast"   // value and bit casts
	PhaseEncode Phase = "encode" // buffer to bytes
	PhaseDecode Phase = "decode" // bytes to buffer
	PhaseWasm   Phase = "wasm"   // guest linear memory transfer
	PhaseConfig Phase = "config" // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfBounds        Kind = "out_of_bounds"
	KindInvalidKind        Kind = "invalid_kind"
	KindAllocationTooLarge Kind = "allocation_too_large"
	KindIOFailure          Kind = "io_failure"
	KindOverflow           Kind = "overflow"
	KindInvalidInput       Kind = "invalid_input"
)

// Sentinels for errors.Is checks that only care about the category.
var (
	ErrOutOfBounds        = &Error{Kind: KindOutOfBounds}
	ErrInvalidKind        = &Error{Kind: KindInvalidKind}
	ErrAllocationTooLarge = &Error{Kind: KindAllocationTooLarge}
	ErrIOFailure          = &Error{Kind: KindIOFailure}
	ErrOverflow           = &Error{Kind: KindOverflow}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
)

// Error is the structured error type used throughout the library
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	ElemKind string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.ElemKind != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.ElemKind != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", kind ")
			b.WriteString(e.ElemKind)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("kind ")
			b.WriteString(e.ElemKind)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.ElemKind != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the operation path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// ElemKind sets the primitive element kind name
func (b *Builder) ElemKind(k string) *Builder {
	b.err.ElemKind = k
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OutOfBounds creates an out of bounds error for a single index
func OutOfBounds(phase Phase, path []string, index, length uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// RangeOutOfBounds creates an out of bounds error for a range [off, off+n)
func RangeOutOfBounds(phase Phase, path []string, off, n, length uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("range [%d, %d+%d) out of bounds (length %d)", off, off, n, length),
		Value:  off,
	}
}

// InvalidKind creates an error for a value whose runtime type is not one of
// the primitive kinds
func InvalidKind(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidKind,
		Path:   path,
		GoType: goType,
		Detail: "not a primitive kind",
	}
}

// KindMismatch creates an invalid kind error where a specific kind was expected
func KindMismatch(phase Phase, path []string, goType, want string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidKind,
		Path:     path,
		GoType:   goType,
		ElemKind: want,
		Detail:   "value does not match kind",
	}
}

// AllocationTooLarge creates an error for a size that cannot be addressed
func AllocationTooLarge(phase Phase, requested, limit uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocationTooLarge,
		Detail: fmt.Sprintf("%d bits exceeds addressable limit of %d bits", requested, limit),
		Value:  requested,
	}
}

// IOFailure wraps a read or write failure
func IOFailure(phase Phase, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIOFailure,
		Detail: detail,
		Cause:  cause,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindOverflow,
		Path:     path,
		ElemKind: target,
		Detail:   fmt.Sprintf("value %v is not representable in %s", value, target),
		Value:    value,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
