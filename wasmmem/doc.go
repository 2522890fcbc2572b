// Package wasmmem moves buffers in and out of WebAssembly linear memory.
//
// Store and Load copy a buffer's storage bytes unchanged, preserving the
// big-endian element layout. StoreList and LoadList instead translate to
// the Component Model canonical ABI layout of list<T>, where every element
// is little-endian and a bool occupies a whole byte, so guest code can read
// the data as a native array:
//
//	mod, _ := runtime.Instantiate(ctx, wasmBytes)
//	t := wasmmem.New(wasmmem.WrapMemory(mod.Memory()))
//	n, _ := t.StoreList(ptr, buf, kind.Float32)
//	back, k, _ := t.LoadList(ptr, n, wit.F32{})
//
// KindOf and WITType convert between kinds and WIT primitive types.
package wasmmem
