package registry

import (
	"github.com/wippyai/bitmem/buffer"
	"github.com/wippyai/bitmem/kind"
)

// Handle is an opaque reference to a buffer in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// EventType identifies a buffer lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
	EventBorrowed
	EventBorrowReturned
	EventRetagged
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	case EventBorrowed:
		return "borrowed"
	case EventBorrowReturned:
		return "borrow_returned"
	case EventRetagged:
		return "retagged"
	}
	return "unknown"
}

// Event describes a lifecycle change. Buffer is nil for dropped buffers,
// which have already been freed when observers run.
type Event struct {
	Buffer *buffer.Buffer
	Handle Handle
	Bits   uint64
	Kind   kind.Kind
	Type   EventType
}

// Observer receives lifecycle notifications. Observers run with no table
// lock held and may call back into the table. Observers are compared with
// == by Unsubscribe, so use pointer types.
type Observer interface {
	OnBufferEvent(Event)
}
