package cast

import "github.com/wippyai/bitmem/kind"

// Descriptor binds the cast engine to one source kind. Its methods check
// that their argument is actually tagged with that kind before casting.
type Descriptor struct {
	Kind kind.Kind
}

var descriptors = func() [kind.Count]Descriptor {
	var d [kind.Count]Descriptor
	for _, k := range kind.All() {
		d[k] = Descriptor{Kind: k}
	}
	return d
}()

// For returns the descriptor of k. Invalid kinds yield false.
func For(k kind.Kind) (Descriptor, bool) {
	if !k.Valid() {
		return Descriptor{}, false
	}
	return descriptors[k], true
}

// Descriptors returns every descriptor in canonical kind order.
func Descriptors() []Descriptor {
	return append([]Descriptor(nil), descriptors[:]...)
}

func (d Descriptor) String() string {
	return d.Kind.String()
}

func (d Descriptor) CastValue(v any, to kind.Kind) (any, error) {
	if err := d.checkValue(v, "CastValue"); err != nil {
		return nil, err
	}
	return Value(v, to)
}

func (d Descriptor) CastArray(arr any, to kind.Kind) (any, error) {
	if err := d.checkArray(arr, "CastArray"); err != nil {
		return nil, err
	}
	return Array(arr, to)
}

func (d Descriptor) CastValueBits(v any, to kind.Kind) (any, error) {
	if err := d.checkValue(v, "CastValueBits"); err != nil {
		return nil, err
	}
	return ValueBits(v, to)
}

func (d Descriptor) CastArrayBits(arr any, to kind.Kind) (any, error) {
	if err := d.checkArray(arr, "CastArrayBits"); err != nil {
		return nil, err
	}
	return ArrayBits(arr, to)
}

func (d Descriptor) checkValue(v any, op string) error {
	if k, ok := kind.Of(v); ok && k == d.Kind {
		return nil
	}
	return mismatch(op, v, d.Kind)
}

func (d Descriptor) checkArray(arr any, op string) error {
	if k, ok := kind.OfSlice(arr); ok && k == d.Kind {
		return nil
	}
	return mismatch(op, arr, d.Kind)
}
