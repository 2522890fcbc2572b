//go:build unix

package buffer

import (
	"golang.org/x/sys/unix"
)

// MmapAllocator backs buffers with anonymous private mappings. Storage lives
// outside the Go heap, so buffers using it must be freed explicitly or be
// reclaimed by the cleanup registered in New.
type MmapAllocator struct{}

var _ Allocator = MmapAllocator{}

func (MmapAllocator) Alloc(size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func (a MmapAllocator) Realloc(old []byte, size int) ([]byte, error) {
	if size == len(old) {
		return old, nil
	}
	out, err := a.Alloc(size)
	if err != nil {
		return nil, err
	}
	copy(out, old)
	a.Free(old)
	return out, nil
}

func (MmapAllocator) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	if err := unix.Munmap(b); err != nil {
		Logger().Sugar().Warnf("munmap %d bytes: %v", len(b), err)
	}
}
