//go:build linux

package native

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Handle is a socket descriptor.
type Handle = int

// InvalidHandle is never returned for a live descriptor.
const InvalidHandle Handle = -1

// Socklen is the native address/option length type.
type Socklen = uint32

type (
	RawSockaddrAny   = unix.RawSockaddrAny
	RawSockaddrInet4 = unix.RawSockaddrInet4
	RawSockaddrInet6 = unix.RawSockaddrInet6
	Linger           = unix.Linger
)

const (
	AF_UNSPEC    = unix.AF_UNSPEC
	AF_INET      = unix.AF_INET
	AF_INET6     = unix.AF_INET6
	AF_IRDA      = unix.AF_IRDA
	AF_BLUETOOTH = unix.AF_BLUETOOTH

	SizeofSockaddrAny   = unix.SizeofSockaddrAny
	SizeofSockaddrInet4 = unix.SizeofSockaddrInet4
	SizeofSockaddrInet6 = unix.SizeofSockaddrInet6

	SOL_SOCKET   = unix.SOL_SOCKET
	SO_REUSEADDR = unix.SO_REUSEADDR
	SO_KEEPALIVE = unix.SO_KEEPALIVE
	SO_BROADCAST = unix.SO_BROADCAST
	SO_LINGER    = unix.SO_LINGER
	SO_RCVBUF    = unix.SO_RCVBUF
	SO_SNDBUF    = unix.SO_SNDBUF
	SO_ERROR     = unix.SO_ERROR
	SO_TYPE      = unix.SO_TYPE
	IPPROTO_TCP  = unix.IPPROTO_TCP
	TCP_NODELAY  = unix.TCP_NODELAY
	IPPROTO_IPV6 = unix.IPPROTO_IPV6
	IPV6_V6ONLY  = unix.IPV6_V6ONLY

	MSG_OOB  = unix.MSG_OOB
	MSG_PEEK = unix.MSG_PEEK

	SHUT_RD   = unix.SHUT_RD
	SHUT_WR   = unix.SHUT_WR
	SHUT_RDWR = unix.SHUT_RDWR
)

// familyTable maps the portable family numbers (Winsock values) to Linux.
var familyTable = map[int]int{
	0:  AF_UNSPEC,
	2:  AF_INET,
	23: AF_INET6,
	26: AF_IRDA,
	32: AF_BLUETOOTH,
}

// Family translates a portable family number. Unknown values pass through.
func Family(portable int) int {
	if f, ok := familyTable[portable]; ok {
		return f
	}
	return portable
}

// PortableFamily is the inverse of Family.
func PortableFamily(native int) int {
	for p, f := range familyTable {
		if f == native {
			return p
		}
	}
	return native
}

// Startup has nothing to initialize on Linux.
func Startup() error {
	return nil
}

func Socket(family, typ, proto int) (Handle, error) {
	fd, err := unix.Socket(family, typ|unix.SOCK_CLOEXEC, proto)
	if err != nil {
		return InvalidHandle, err
	}
	return fd, nil
}

func Bind(h Handle, sa unsafe.Pointer, n Socklen) error {
	_, _, e := unix.Syscall(unix.SYS_BIND, uintptr(h), uintptr(sa), uintptr(n))
	if e != 0 {
		return e
	}
	return nil
}

// Connect is not retried on EINTR: the connection keeps progressing in the
// kernel and the caller has to poll for writability.
func Connect(h Handle, sa unsafe.Pointer, n Socklen) error {
	_, _, e := unix.Syscall(unix.SYS_CONNECT, uintptr(h), uintptr(sa), uintptr(n))
	if e != 0 {
		return e
	}
	return nil
}

func Listen(h Handle, backlog int) error {
	return unix.Listen(h, backlog)
}

func Accept(h Handle, rsa *RawSockaddrAny, n *Socklen) (Handle, error) {
	for {
		r, _, e := unix.Syscall6(unix.SYS_ACCEPT4, uintptr(h), uintptr(unsafe.Pointer(rsa)), uintptr(unsafe.Pointer(n)), unix.SOCK_CLOEXEC, 0, 0)
		if e == unix.EINTR {
			continue
		}
		if e != 0 {
			return InvalidHandle, e
		}
		return Handle(r), nil
	}
}

// RecvFrom receives into p. rsa and n may be nil when the peer address is not wanted.
func RecvFrom(h Handle, p []byte, flags int, rsa *RawSockaddrAny, n *Socklen) (int, error) {
	for {
		r, _, e := unix.Syscall6(unix.SYS_RECVFROM, uintptr(h), uintptr(unsafe.Pointer(unsafe.SliceData(p))), uintptr(len(p)), uintptr(flags), uintptr(unsafe.Pointer(rsa)), uintptr(unsafe.Pointer(n)))
		if e == unix.EINTR {
			continue
		}
		if e != 0 {
			return -1, e
		}
		return int(r), nil
	}
}

// SendTo sends p. sa may be nil for connected sockets.
func SendTo(h Handle, p []byte, flags int, sa unsafe.Pointer, n Socklen) (int, error) {
	for {
		r, _, e := unix.Syscall6(unix.SYS_SENDTO, uintptr(h), uintptr(unsafe.Pointer(unsafe.SliceData(p))), uintptr(len(p)), uintptr(flags|unix.MSG_NOSIGNAL), uintptr(sa), uintptr(n))
		if e == unix.EINTR {
			continue
		}
		if e != 0 {
			return -1, e
		}
		return int(r), nil
	}
}

func GetSockName(h Handle, rsa *RawSockaddrAny, n *Socklen) error {
	_, _, e := unix.RawSyscall(unix.SYS_GETSOCKNAME, uintptr(h), uintptr(unsafe.Pointer(rsa)), uintptr(unsafe.Pointer(n)))
	if e != 0 {
		return e
	}
	return nil
}

func GetSockOpt(h Handle, level, name int, val unsafe.Pointer, n *Socklen) error {
	_, _, e := unix.Syscall6(unix.SYS_GETSOCKOPT, uintptr(h), uintptr(level), uintptr(name), uintptr(val), uintptr(unsafe.Pointer(n)), 0)
	if e != 0 {
		return e
	}
	return nil
}

func SetSockOpt(h Handle, level, name int, val unsafe.Pointer, n Socklen) error {
	_, _, e := unix.Syscall6(unix.SYS_SETSOCKOPT, uintptr(h), uintptr(level), uintptr(name), uintptr(val), uintptr(n), 0)
	if e != 0 {
		return e
	}
	return nil
}

// Ioctl passes arg by reference; the kernel may update it.
func Ioctl(h Handle, request uint32, arg *uint32) error {
	_, _, e := unix.Syscall(unix.SYS_IOCTL, uintptr(h), uintptr(request), uintptr(unsafe.Pointer(arg)))
	if e != 0 {
		return e
	}
	return nil
}

func Shutdown(h Handle, how int) error {
	return unix.Shutdown(h, how)
}

// Close releases h. Linux frees the descriptor even when close reports EINTR,
// so it is never retried.
func Close(h Handle) error {
	return unix.Close(h)
}

// Errno extracts the platform code from an error returned by this package.
func Errno(err error) (syscall.Errno, bool) {
	errno, ok := err.(syscall.Errno)
	return errno, ok
}
