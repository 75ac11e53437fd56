package sockaddr

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/wippyai/rawsock/errors"
	"github.com/wippyai/rawsock/internal/native"
)

// Storage is native socket address storage large enough for every supported
// family, plus the length the last call reported or the encoded length.
type Storage struct {
	raw native.RawSockaddrAny
	n   native.Socklen
}

// Encode writes the native layout of a and sets the length accordingly.
func (s *Storage) Encode(a Addr) error {
	s.raw = native.RawSockaddrAny{}

	switch {
	case a.ip.Is4():
		sa := (*native.RawSockaddrInet4)(unsafe.Pointer(&s.raw))
		sa.Family = uint16(native.AF_INET)
		putPort(&sa.Port, a.port)
		sa.Addr = a.ip.As4()
		s.n = native.Socklen(native.SizeofSockaddrInet4)
		return nil

	case a.ip.Is6():
		sa := (*native.RawSockaddrInet6)(unsafe.Pointer(&s.raw))
		sa.Family = uint16(native.AF_INET6)
		putPort(&sa.Port, a.port)
		sa.Flowinfo = a.flowInfo
		sa.Addr = a.ip.As16()
		sa.Scope_id = a.scopeID
		s.n = native.Socklen(native.SizeofSockaddrInet6)
		return nil

	default:
		s.n = 0
		return errors.InvalidInput(errors.OpEncode, "unspecified address")
	}
}

// Decode converts the stored native address. See the package Decode.
func (s *Storage) Decode() (Addr, error) {
	return Decode(&s.raw, int(s.n))
}

// Reset prepares s as an output buffer: the length is set to the full
// capacity so the next native call may write any supported family.
func (s *Storage) Reset() {
	s.raw = native.RawSockaddrAny{}
	s.n = native.Socklen(native.SizeofSockaddrAny)
}

// Pointer returns the address of the native structure. It is valid while s is.
func (s *Storage) Pointer() unsafe.Pointer {
	return unsafe.Pointer(&s.raw)
}

// Raw returns the native structure for calls that take it typed.
func (s *Storage) Raw() *native.RawSockaddrAny {
	return &s.raw
}

// Len returns the encoded or reported length.
func (s *Storage) Len() native.Socklen {
	return s.n
}

// LenPtr returns the length as an in/out argument for native calls.
func (s *Storage) LenPtr() *native.Socklen {
	return &s.n
}

// Decode converts a native address of reported length n.
//
// A length of 0 means the operating system returned no address and yields the
// unspecified Addr. Families other than IPv4 and IPv6 fail with an invalid
// input error. A length shorter than the family's structure panics.
func Decode(raw *native.RawSockaddrAny, n int) (Addr, error) {
	if n == 0 {
		return Addr{}, nil
	}

	family := int(raw.Addr.Family)
	switch family {
	case native.AF_INET:
		mustFit(family, n, native.SizeofSockaddrInet4)
		sa := (*native.RawSockaddrInet4)(unsafe.Pointer(raw))
		return From4(sa.Addr, getPort(&sa.Port)), nil

	case native.AF_INET6:
		mustFit(family, n, native.SizeofSockaddrInet6)
		sa := (*native.RawSockaddrInet6)(unsafe.Pointer(raw))
		a := From16(sa.Addr, getPort(&sa.Port))
		a.flowInfo = sa.Flowinfo
		a.scopeID = sa.Scope_id
		return a, nil

	default:
		return Addr{}, errors.UnsupportedFamily(errors.OpDecode, native.PortableFamily(family))
	}
}

func mustFit(family, n, size int) {
	if n < size {
		panic(fmt.Sprintf("sockaddr: family %d reported length %d, structure needs %d", family, n, size))
	}
}

// putPort stores port in network byte order into the field's memory.
func putPort(field *uint16, port uint16) {
	binary.BigEndian.PutUint16((*[2]byte)(unsafe.Pointer(field))[:], port)
}

func getPort(field *uint16) uint16 {
	return binary.BigEndian.Uint16((*[2]byte)(unsafe.Pointer(field))[:])
}
