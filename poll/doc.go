// Package poll waits for readiness on sets of sockets with the native select
// call.
//
// Each set holds at most MaxSetSize sockets. Empty sets are passed to the
// platform as null pointers. At least one set must be non-empty; Windows
// rejects a call with three empty sets while Linux just sleeps for the timeout.
//
//	n, err := poll.Select([]*socket.Socket{s}, nil, nil, 100*time.Millisecond)
//
// Wait additionally reports which entries became ready:
//
//	res, err := poll.Wait(readers, writers, nil, poll.Infinite)
//	for _, i := range res.Read {
//	    handle(readers[i])
//	}
//
// The sockets are borrowed for the duration of the call only.
package poll
