package registry

import "github.com/wippyai/rawsock/socket"

// Handle is an opaque reference to a socket in a Registry.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Event types for socket lifecycle notifications.
type EventType uint8

const (
	EventInserted EventType = iota
	EventDropped
	EventClosed
	EventTaken
	EventBorrowed
	EventReturned
)

func (t EventType) String() string {
	switch t {
	case EventInserted:
		return "inserted"
	case EventDropped:
		return "dropped"
	case EventClosed:
		return "closed"
	case EventTaken:
		return "taken"
	case EventBorrowed:
		return "borrowed"
	case EventReturned:
		return "returned"
	default:
		return "unknown"
	}
}

// Event represents a socket lifecycle event.
type Event struct {
	Socket *socket.Socket
	Handle Handle
	Type   EventType
}

// Observer receives notifications about socket lifecycle events.
type Observer interface {
	OnSocketEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
// Function values are not comparable, so an ObserverFunc cannot be
// unsubscribed; wrap it in a pointer type if that is needed.
type ObserverFunc func(Event)

func (f ObserverFunc) OnSocketEvent(e Event) { f(e) }
