// Package registry provides an owning table of sockets addressed by integer
// handles.
//
// Handles are small non-zero integers; freed slots are reused. A Registry owns
// the sockets inserted into it until they are taken back, dropped or closed:
//
//	reg := registry.New()
//	defer reg.Close()
//
//	h, err := reg.Insert(s)
//
//	// Temporary access pins the handle
//	s, ok := reg.Borrow(h)
//	defer reg.Return(h)
//
//	// Ownership back to the caller
//	s, err = reg.Take(h)
//
// Drop, CloseHandle and Take fail with a busy error while a handle is
// borrowed.
//
// # Polling
//
// Select borrows a set of handles for exactly one poll.Wait call:
//
//	res, err := reg.Select([]registry.Handle{a, b}, nil, nil, time.Second)
//
// # Observers
//
// Observers receive lifecycle events synchronously, after the registry
// state has changed:
//
//	reg.Subscribe(registry.ObserverFunc(func(e registry.Event) {
//	    log.Printf("socket %d %s", e.Handle, e.Type)
//	}))
package registry
