//go:build windows

package native

import (
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// fdSet is the Winsock FD_SET layout.
type fdSet struct {
	count uint32
	array [FdSetCapacity]Handle
}

// FdSet is a readiness set of at most FdSetCapacity descriptors.
type FdSet struct {
	set   fdSet
	added int
}

// Add appends h. It returns false when the set is full.
func (s *FdSet) Add(h Handle) bool {
	if s.set.count >= FdSetCapacity || h == InvalidHandle {
		return false
	}
	s.set.array[s.set.count] = h
	s.set.count++
	s.added++
	return true
}

// Has reports whether h is in the set. Winsock compacts the set to the
// ready descriptors when select returns.
func (s *FdSet) Has(h Handle) bool {
	for _, v := range s.set.array[:s.set.count] {
		if v == h {
			return true
		}
	}
	return false
}

// Len returns the number of descriptors added.
func (s *FdSet) Len() int {
	return s.added
}

func (s *FdSet) native() uintptr {
	if s == nil || s.added == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&s.set))
}

// Select waits until a descriptor in one of the sets is ready or timeout
// expires. A negative timeout blocks indefinitely. Winsock rejects a call with
// all three sets empty.
func Select(r, w, e *FdSet, timeout time.Duration) (int, error) {
	var tv *windows.Timeval
	if timeout >= 0 {
		t := windows.NsecToTimeval(timeout.Nanoseconds())
		tv = &t
	}

	n, _, errno := procSelect.Call(0, r.native(), w.native(), e.native(), uintptr(unsafe.Pointer(tv)))
	if failed(n) {
		return -1, lastError(errno)
	}
	return int(int32(n)), nil
}
