package poll

import (
	"runtime"
	"time"

	"github.com/wippyai/rawsock/errors"
	"github.com/wippyai/rawsock/internal/native"
	"github.com/wippyai/rawsock/socket"
)

// MaxSetSize is the capacity of each descriptor set.
const MaxSetSize = native.FdSetCapacity

// Infinite blocks until a socket is ready.
const Infinite time.Duration = -1

// Result reports a completed wait.
type Result struct {
	// N is the total number of ready descriptors as counted by the platform.
	N int

	// Read, Write and Except hold the indices of the ready entries of the
	// corresponding input sets.
	Read   []int
	Write  []int
	Except []int
}

// Select waits until at least one socket is ready for reading, writing or has
// an exceptional condition, or until timeout elapses. It returns the number of
// ready descriptors, 0 on timeout. A negative timeout blocks indefinitely.
func Select(read, write, except []*socket.Socket, timeout time.Duration) (int, error) {
	res, err := wait(read, write, except, timeout, false)
	return res.N, err
}

// Wait is Select that also reports which entries are ready.
func Wait(read, write, except []*socket.Socket, timeout time.Duration) (Result, error) {
	return wait(read, write, except, timeout, true)
}

func wait(read, write, except []*socket.Socket, timeout time.Duration, collect bool) (Result, error) {
	groups := [3][]*socket.Socket{read, write, except}

	var sets [3]native.FdSet
	for i, group := range groups {
		if err := fill(&sets[i], group); err != nil {
			return Result{}, err
		}
	}

	n, err := native.Select(&sets[0], &sets[1], &sets[2], timeout)
	runtime.KeepAlive(groups)
	if err != nil {
		return Result{}, native.OSError(errors.OpSelect, err)
	}

	res := Result{N: n}
	if !collect || n == 0 {
		return res, nil
	}
	res.Read = ready(&sets[0], read)
	res.Write = ready(&sets[1], write)
	res.Except = ready(&sets[2], except)
	return res, nil
}

func fill(set *native.FdSet, group []*socket.Socket) error {
	if len(group) > MaxSetSize {
		return errors.Capacity(errors.OpSelect, len(group), MaxSetSize)
	}
	for _, s := range group {
		if s == nil {
			return errors.InvalidInput(errors.OpSelect, "nil socket in set")
		}
		d := s.Raw()
		if d == socket.InvalidDescriptor {
			return errors.Closed(errors.OpSelect)
		}
		if !set.Add(d) {
			return errors.New(errors.OpSelect, errors.KindCapacity).
				Detail("descriptor %v cannot be represented in a descriptor set", d).
				Build()
		}
	}
	return nil
}

func ready(set *native.FdSet, group []*socket.Socket) []int {
	var idx []int
	for i, s := range group {
		if set.Has(s.Raw()) {
			idx = append(idx, i)
		}
	}
	return idx
}
