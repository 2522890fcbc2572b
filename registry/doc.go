// Package registry keeps track of live buffers by handle.
//
// Buffers are released explicitly, so a program juggling many of them needs
// somewhere to own them. A Table hands out small integer handles, records
// which kind each buffer is meant to be viewed as, and frees the buffer
// when its handle is removed or the table is closed:
//
//	t := registry.NewTable()
//	h, _ := t.Allocate(1024, kind.Float32)
//	b, _ := t.Borrow(h)
//	b.SetFloat32(0, 1.5)
//	t.Return(h)
//	t.Remove(h) // frees the buffer
//
// Handles are recycled after removal. Handle 0 is never issued.
//
// # Borrows
//
// Borrow marks a buffer as in use; Remove refuses to free it until every
// borrow has been returned. Close ignores borrows.
//
// # Observers
//
// Observers receive created, borrowed, returned, retagged and dropped
// events after the table state has changed.
package registry
