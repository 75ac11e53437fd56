//go:build linux

package native

import (
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// fdSetBits is the kernel FD_SETSIZE: descriptors at or above it cannot be
// represented in an fd_set.
const fdSetBits = int(unsafe.Sizeof(unix.FdSet{})) * 8

// FdSet is a readiness set of at most FdSetCapacity descriptors.
type FdSet struct {
	set   unix.FdSet
	fds   [FdSetCapacity]Handle
	count int
}

// Add appends h. It returns false when the set is full or h cannot be
// represented natively.
func (s *FdSet) Add(h Handle) bool {
	if s.count >= FdSetCapacity || h < 0 || h >= fdSetBits {
		return false
	}
	s.set.Set(h)
	s.fds[s.count] = h
	s.count++
	return true
}

// Has reports whether h is marked in the set. After Select only ready
// descriptors remain marked.
func (s *FdSet) Has(h Handle) bool {
	if h < 0 || h >= fdSetBits {
		return false
	}
	return s.set.IsSet(h)
}

// Len returns the number of descriptors added.
func (s *FdSet) Len() int {
	return s.count
}

func (s *FdSet) max() int {
	m := -1
	for _, h := range s.fds[:s.count] {
		if h > m {
			m = h
		}
	}
	return m
}

func (s *FdSet) native() *unix.FdSet {
	if s == nil || s.count == 0 {
		return nil
	}
	return &s.set
}

// Select waits until a descriptor in one of the sets is ready or timeout
// expires. A negative timeout blocks indefinitely. Nil or empty sets are
// passed to the kernel as null pointers.
//
// Signals delivered by the Go runtime interrupt select with EINTR; the call
// is repeated with the remaining timeout.
func Select(r, w, e *FdSet, timeout time.Duration) (int, error) {
	nfd := 0
	for _, s := range []*FdSet{r, w, e} {
		if s != nil && s.count > 0 {
			if m := s.max() + 1; m > nfd {
				nfd = m
			}
		}
	}

	// select clears the sets on EINTR, so keep the originals for retries.
	var saved [3]unix.FdSet
	for i, s := range []*FdSet{r, w, e} {
		if s != nil {
			saved[i] = s.set
		}
	}

	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		var tv *unix.Timeval
		if timeout >= 0 {
			remaining := time.Until(deadline)
			if remaining < 0 {
				remaining = 0
			}
			t := unix.NsecToTimeval(remaining.Nanoseconds())
			tv = &t
		}

		n, err := unix.Select(nfd, r.native(), w.native(), e.native(), tv)
		if err == unix.EINTR {
			for i, s := range []*FdSet{r, w, e} {
				if s != nil {
					s.set = saved[i]
				}
			}
			continue
		}
		if err != nil {
			return -1, err
		}
		return n, nil
	}
}
