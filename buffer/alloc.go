package buffer

// Allocator provides the raw storage behind a Buffer.
//
// Alloc returns size zeroed bytes. Realloc returns a slice of size bytes
// whose prefix matches old up to min(len(old), size); the caller must stop
// using old afterwards. Free releases a slice returned by Alloc or Realloc.
// A zero size yields a nil slice.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Realloc(old []byte, size int) ([]byte, error)
	Free(b []byte)
}

// HeapAllocator allocates from the Go heap. Free is a no-op; the collector
// reclaims the memory once the buffer drops it.
type HeapAllocator struct{}

var _ Allocator = HeapAllocator{}

func (HeapAllocator) Alloc(size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	return make([]byte, size), nil
}

func (HeapAllocator) Realloc(old []byte, size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	if size <= cap(old) {
		out := old[:size]
		if size > len(old) {
			clear(out[len(old):])
		}
		return out, nil
	}
	out := make([]byte, size)
	copy(out, old)
	return out, nil
}

func (HeapAllocator) Free([]byte) {}

// DefaultAllocator is used by New when no allocator option is given.
var DefaultAllocator Allocator = HeapAllocator{}

// AllocatorByName resolves "heap" or "mmap".
func AllocatorByName(name string) (Allocator, bool) {
	switch name {
	case "", "heap":
		return HeapAllocator{}, true
	case "mmap":
		return MmapAllocator{}, true
	}
	return nil, false
}
