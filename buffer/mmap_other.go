//go:build !unix

package buffer

// MmapAllocator falls back to the Go heap on platforms without mmap.
type MmapAllocator struct {
	HeapAllocator
}

var _ Allocator = MmapAllocator{}
