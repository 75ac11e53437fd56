package registry

import (
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/wippyai/rawsock/errors"
	"github.com/wippyai/rawsock/poll"
	"github.com/wippyai/rawsock/socket"
)

// Registry owns a set of sockets addressed by integer handles.
// Thread-safe.
type Registry struct {
	backend   *backend
	observers []Observer
	obsMu     sync.RWMutex
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		backend: newBackend(),
	}
}

// Insert transfers ownership of s to the registry.
func (r *Registry) Insert(s *socket.Socket) (Handle, error) {
	if s == nil {
		return 0, errors.InvalidInput(errors.OpRegistry, "nil socket")
	}

	h, err := r.backend.create(s)
	if err != nil {
		return 0, err
	}

	r.notify(Event{Type: EventInserted, Handle: h, Socket: s})
	return h, nil
}

// Get returns the socket for h without borrowing it. The socket must not be
// used after the handle is dropped; prefer Borrow for longer uses.
func (r *Registry) Get(h Handle) (*socket.Socket, bool) {
	return r.backend.get(h)
}

// Borrow returns the socket for h and pins the handle until Return.
// A borrowed handle cannot be dropped, closed or taken.
func (r *Registry) Borrow(h Handle) (*socket.Socket, bool) {
	s, ok := r.backend.borrow(h)
	if ok {
		r.notify(Event{Type: EventBorrowed, Handle: h, Socket: s})
	}
	return s, ok
}

// Return releases one borrow of h.
func (r *Registry) Return(h Handle) bool {
	if !r.backend.returnBorrow(h) {
		return false
	}
	r.notify(Event{Type: EventReturned, Handle: h})
	return true
}

// Take removes h and gives ownership of its socket back to the caller.
func (r *Registry) Take(h Handle) (*socket.Socket, error) {
	s, err := r.backend.remove(h)
	if err != nil {
		return nil, err
	}
	r.notify(Event{Type: EventTaken, Handle: h, Socket: s})
	return s, nil
}

// Drop removes h and destroys its socket, discarding cleanup errors.
func (r *Registry) Drop(h Handle) error {
	s, err := r.backend.remove(h)
	if err != nil {
		return err
	}
	s.Drop()
	r.notify(Event{Type: EventDropped, Handle: h, Socket: s})
	return nil
}

// CloseHandle removes h and closes its socket, returning the close error.
func (r *Registry) CloseHandle(h Handle) error {
	s, err := r.backend.remove(h)
	if err != nil {
		return err
	}
	err = s.Close()
	r.notify(Event{Type: EventClosed, Handle: h, Socket: s})
	return err
}

// Len returns the number of registered sockets.
func (r *Registry) Len() int {
	return r.backend.len()
}

// Each calls fn for every registered socket in handle order until fn
// returns false. fn must not modify the registry.
func (r *Registry) Each(fn func(Handle, *socket.Socket) bool) {
	r.backend.each(fn)
}

// Subscribe adds an observer for lifecycle events.
func (r *Registry) Subscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, o)
}

// Unsubscribe removes an observer.
func (r *Registry) Unsubscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

// Select polls the sockets behind the given handles. The handles are
// borrowed for the duration of the call. Indices in the result refer to
// positions in the corresponding input slice.
func (r *Registry) Select(read, write, except []Handle, timeout time.Duration) (poll.Result, error) {
	var borrowed []Handle
	defer func() {
		for _, h := range borrowed {
			r.backend.returnBorrow(h)
		}
	}()

	var sets [3][]*socket.Socket
	for i, handles := range [3][]Handle{read, write, except} {
		for _, h := range handles {
			s, ok := r.backend.borrow(h)
			if !ok {
				return poll.Result{}, unknownHandle(h)
			}
			borrowed = append(borrowed, h)
			sets[i] = append(sets[i], s)
		}
	}

	return poll.Wait(sets[0], sets[1], sets[2], timeout)
}

// Close closes every registered socket and refuses further inserts. Close
// errors are combined.
func (r *Registry) Close() error {
	var err error
	for _, s := range r.backend.drain() {
		err = multierr.Append(err, s.Close())
	}
	return err
}

func (r *Registry) notify(e Event) {
	r.obsMu.RLock()
	defer r.obsMu.RUnlock()
	for _, o := range r.observers {
		o.OnSocketEvent(e)
	}
}
