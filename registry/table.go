package registry

import (
	stderrors "errors"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/bitmem/buffer"
	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/kind"
)

var (
	ErrClosed            = stderrors.New("registry closed")
	ErrOutstandingBorrow = stderrors.New("cannot remove buffer with outstanding borrows")
	ErrInvalidHandle     = stderrors.New("invalid handle")
)

type entry struct {
	buf     *buffer.Buffer
	kind    kind.Kind
	borrows uint32
	valid   bool
}

// Table owns a set of buffers addressed by handle. Removing a handle frees
// its buffer. The table is safe for concurrent use; the buffers it holds
// are not, so callers coordinate access through Borrow.
type Table struct {
	entries   []entry
	freeList  []Handle
	observers []Observer
	log       *zap.Logger
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the table's logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Table) {
		if l != nil {
			t.log = l
		}
	}
}

// NewTable creates an empty table.
func NewTable(opts ...Option) *Table {
	t := &Table{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Insert takes ownership of b, tagging it with the kind it is viewed as.
func (t *Table) Insert(b *buffer.Buffer, k kind.Kind) (Handle, error) {
	if b == nil {
		return 0, errors.InvalidInput(errors.PhaseAlloc, []string{"registry", "Insert"}, "nil buffer")
	}
	if !k.Valid() {
		return 0, errors.New(errors.PhaseAlloc, errors.KindInvalidKind).
			Path("registry", "Insert").
			ElemKind(k.String()).
			Build()
	}

	bits := b.Bits()
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, ErrClosed
	}
	e := entry{buf: b, kind: k, valid: true}
	var h Handle
	if n := len(t.freeList); n > 0 {
		h = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[h-1] = e
	} else {
		t.entries = append(t.entries, e)
		h = Handle(len(t.entries))
	}
	t.mu.Unlock()

	t.log.Debug("buffer registered", zap.Uint32("handle", uint32(h)), zap.Uint64("bits", bits), zap.Stringer("kind", k))
	t.notify(Event{Type: EventCreated, Handle: h, Buffer: b, Bits: bits, Kind: k})
	return h, nil
}

// Allocate creates a buffer of the given length and registers it.
func (t *Table) Allocate(bits uint64, k kind.Kind, opts ...buffer.Option) (Handle, error) {
	b, err := buffer.New(bits, opts...)
	if err != nil {
		return 0, err
	}
	h, err := t.Insert(b, k)
	if err != nil {
		b.Free()
		return 0, err
	}
	return h, nil
}

// lookup returns the live entry for h. The caller holds mu.
func (t *Table) lookup(h Handle) (*entry, bool) {
	if h == 0 || int(h) > len(t.entries) {
		return nil, false
	}
	e := &t.entries[h-1]
	if !e.valid {
		return nil, false
	}
	return e, true
}

// Get returns the buffer and its kind tag.
func (t *Table) Get(h Handle) (*buffer.Buffer, kind.Kind, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.lookup(h)
	if !ok {
		return nil, 0, false
	}
	return e.buf, e.kind, true
}

// GetTyped returns the buffer only if it is tagged with k.
func (t *Table) GetTyped(h Handle, k kind.Kind) (*buffer.Buffer, bool) {
	b, actual, ok := t.Get(h)
	if !ok || actual != k {
		return nil, false
	}
	return b, true
}

// Retag changes the kind a buffer is viewed as.
func (t *Table) Retag(h Handle, k kind.Kind) error {
	if !k.Valid() {
		return errors.New(errors.PhaseAccess, errors.KindInvalidKind).
			Path("registry", "Retag").
			ElemKind(k.String()).
			Build()
	}
	t.mu.Lock()
	e, ok := t.lookup(h)
	if !ok {
		t.mu.Unlock()
		return ErrInvalidHandle
	}
	e.kind = k
	b, bits := e.buf, e.buf.Bits()
	t.mu.Unlock()

	t.notify(Event{Type: EventRetagged, Handle: h, Buffer: b, Bits: bits, Kind: k})
	return nil
}

// Borrow marks the buffer as in use. A borrowed buffer cannot be removed
// until every borrow is returned.
func (t *Table) Borrow(h Handle) (*buffer.Buffer, error) {
	t.mu.Lock()
	e, ok := t.lookup(h)
	if !ok {
		t.mu.Unlock()
		return nil, ErrInvalidHandle
	}
	e.borrows++
	b, k, bits := e.buf, e.kind, e.buf.Bits()
	t.mu.Unlock()

	t.notify(Event{Type: EventBorrowed, Handle: h, Buffer: b, Bits: bits, Kind: k})
	return b, nil
}

// Return releases one borrow taken with Borrow.
func (t *Table) Return(h Handle) error {
	t.mu.Lock()
	e, ok := t.lookup(h)
	if !ok || e.borrows == 0 {
		t.mu.Unlock()
		return ErrInvalidHandle
	}
	e.borrows--
	b, k, bits := e.buf, e.kind, e.buf.Bits()
	t.mu.Unlock()

	t.notify(Event{Type: EventBorrowReturned, Handle: h, Buffer: b, Bits: bits, Kind: k})
	return nil
}

// Remove unregisters h and frees its buffer.
func (t *Table) Remove(h Handle) error {
	t.mu.Lock()
	e, ok := t.lookup(h)
	if !ok {
		t.mu.Unlock()
		return ErrInvalidHandle
	}
	if e.borrows > 0 {
		t.mu.Unlock()
		return ErrOutstandingBorrow
	}
	b, k := e.buf, e.kind
	*e = entry{}
	t.freeList = append(t.freeList, h)
	t.mu.Unlock()

	bits := b.Bits()
	b.Free()
	t.log.Debug("buffer released", zap.Uint32("handle", uint32(h)), zap.Uint64("bits", bits))
	t.notify(Event{Type: EventDropped, Handle: h, Bits: bits, Kind: k})
	return nil
}

// Len returns the number of registered buffers.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, e := range t.entries {
		if e.valid {
			n++
		}
	}
	return n
}

// Each calls fn for every registered buffer in handle order until fn
// returns false. fn runs without the table lock held.
func (t *Table) Each(fn func(Handle, *buffer.Buffer, kind.Kind) bool) {
	type item struct {
		h Handle
		b *buffer.Buffer
		k kind.Kind
	}
	t.mu.RLock()
	items := make([]item, 0, len(t.entries))
	for i, e := range t.entries {
		if e.valid {
			items = append(items, item{Handle(i + 1), e.buf, e.kind})
		}
	}
	t.mu.RUnlock()

	for _, it := range items {
		if !fn(it.h, it.b, it.k) {
			return
		}
	}
}

// Clear removes every buffer that is not borrowed.
func (t *Table) Clear() {
	var handles []Handle
	t.Each(func(h Handle, _ *buffer.Buffer, _ kind.Kind) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		_ = t.Remove(h)
	}
}

// Close frees every buffer, borrowed or not, and rejects further inserts.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	entries := t.entries
	t.entries = nil
	t.freeList = nil
	t.mu.Unlock()

	for i, e := range entries {
		if !e.valid {
			continue
		}
		bits := e.buf.Bits()
		e.buf.Free()
		t.notify(Event{Type: EventDropped, Handle: Handle(i + 1), Bits: bits, Kind: e.kind})
	}
	return nil
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	observers := append([]Observer(nil), t.observers...)
	t.obsMu.RUnlock()
	for _, o := range observers {
		o.OnBufferEvent(e)
	}
}
