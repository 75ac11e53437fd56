package registry

import (
	"sync"

	"github.com/wippyai/rawsock/errors"
	"github.com/wippyai/rawsock/socket"
)

// backend is the handle storage: a slot slice indexed by handle-1 with a
// free list for reuse and per-slot borrow counts.
type backend struct {
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	sock        *socket.Socket
	borrowCount uint32
	valid       bool
}

func newBackend() *backend {
	return &backend{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

func (b *backend) create(s *socket.Socket) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errors.Closed(errors.OpRegistry)
	}

	e := entry{sock: s, valid: true}

	if len(b.freeList) > 0 {
		handle := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		b.entries[handle-1] = e
		return handle, nil
	}

	b.entries = append(b.entries, e)
	return Handle(len(b.entries)), nil
}

// slot returns the live entry for handle. Callers hold b.mu.
func (b *backend) slot(handle Handle) *entry {
	if handle == 0 || int(handle-1) >= len(b.entries) {
		return nil
	}
	e := &b.entries[handle-1]
	if !e.valid {
		return nil
	}
	return e
}

func (b *backend) get(handle Handle) (*socket.Socket, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.slot(handle)
	if e == nil {
		return nil, false
	}
	return e.sock, true
}

// remove frees the slot and returns its socket. It fails while borrows are
// outstanding.
func (b *backend) remove(handle Handle) (*socket.Socket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.slot(handle)
	if e == nil {
		return nil, unknownHandle(handle)
	}
	if e.borrowCount > 0 {
		return nil, errors.Busy(errors.OpRegistry, "handle has outstanding borrows")
	}

	s := e.sock
	*e = entry{}
	b.freeList = append(b.freeList, handle)
	return s, nil
}

func (b *backend) borrow(handle Handle) (*socket.Socket, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.slot(handle)
	if e == nil {
		return nil, false
	}
	e.borrowCount++
	return e.sock, true
}

func (b *backend) returnBorrow(handle Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.slot(handle)
	if e == nil || e.borrowCount == 0 {
		return false
	}
	e.borrowCount--
	return true
}

// drain marks the backend closed and hands back every live socket.
func (b *backend) drain() []*socket.Socket {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	var out []*socket.Socket
	for _, e := range b.entries {
		if e.valid {
			out = append(out, e.sock)
		}
	}
	b.entries = nil
	b.freeList = nil
	return out
}

func (b *backend) len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, e := range b.entries {
		if e.valid {
			count++
		}
	}
	return count
}

func (b *backend) each(fn func(Handle, *socket.Socket) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, e := range b.entries {
		if e.valid {
			if !fn(Handle(i+1), e.sock) {
				break
			}
		}
	}
}

func unknownHandle(h Handle) error {
	return errors.New(errors.OpRegistry, errors.KindInvalidInput).
		Detail("unknown handle %d", h).
		Build()
}
