//go:build windows

package native

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Handle is a Winsock SOCKET.
type Handle = windows.Handle

// InvalidHandle is INVALID_SOCKET.
const InvalidHandle = windows.InvalidHandle

// Socklen is the native address/option length type.
type Socklen = int32

type (
	RawSockaddrAny   = windows.RawSockaddrAny
	RawSockaddrInet4 = windows.RawSockaddrInet4
	RawSockaddrInet6 = windows.RawSockaddrInet6
)

// Linger is the Winsock LINGER layout.
type Linger struct {
	Onoff  uint16
	Linger uint16
}

const (
	AF_UNSPEC    = 0
	AF_INET      = 2
	AF_INET6     = 23
	AF_IRDA      = 26
	AF_BLUETOOTH = 32

	SizeofSockaddrAny   = int(unsafe.Sizeof(RawSockaddrAny{}))
	SizeofSockaddrInet4 = int(unsafe.Sizeof(RawSockaddrInet4{}))
	SizeofSockaddrInet6 = int(unsafe.Sizeof(RawSockaddrInet6{}))

	SOL_SOCKET   = 0xffff
	SO_REUSEADDR = 0x0004
	SO_KEEPALIVE = 0x0008
	SO_BROADCAST = 0x0020
	SO_LINGER    = 0x0080
	SO_SNDBUF    = 0x1001
	SO_RCVBUF    = 0x1002
	SO_ERROR     = 0x1007
	SO_TYPE      = 0x1008
	IPPROTO_TCP  = 6
	TCP_NODELAY  = 0x0001
	IPPROTO_IPV6 = 41
	IPV6_V6ONLY  = 27

	MSG_OOB  = 0x1
	MSG_PEEK = 0x2

	SHUT_RD   = 0 // SD_RECEIVE
	SHUT_WR   = 1 // SD_SEND
	SHUT_RDWR = 2 // SD_BOTH

	FIONBIO  = 0x8004667e
	FIONREAD = 0x4004667f
)

const socketError = -1

var (
	modws2_32 = windows.NewLazySystemDLL("ws2_32.dll")

	procSocket      = modws2_32.NewProc("socket")
	procBind        = modws2_32.NewProc("bind")
	procListen      = modws2_32.NewProc("listen")
	procAccept      = modws2_32.NewProc("accept")
	procConnect     = modws2_32.NewProc("connect")
	procRecv        = modws2_32.NewProc("recv")
	procRecvfrom    = modws2_32.NewProc("recvfrom")
	procSend        = modws2_32.NewProc("send")
	procSendto      = modws2_32.NewProc("sendto")
	procGetsockname = modws2_32.NewProc("getsockname")
	procGetsockopt  = modws2_32.NewProc("getsockopt")
	procSetsockopt  = modws2_32.NewProc("setsockopt")
	procIoctlsocket = modws2_32.NewProc("ioctlsocket")
	procShutdown    = modws2_32.NewProc("shutdown")
	procClosesocket = modws2_32.NewProc("closesocket")
	procSelect      = modws2_32.NewProc("select")
)

// Family is the identity on Windows: the portable numbers are Winsock's.
func Family(portable int) int {
	return portable
}

// PortableFamily is the inverse of Family.
func PortableFamily(native int) int {
	return native
}

// Startup requests Winsock 2.2. WSACleanup is never called.
func Startup() error {
	var data windows.WSAData
	return windows.WSAStartup(uint32(0x202), &data)
}

// lastError turns the GetLastError value captured by Proc.Call into an errno.
func lastError(e error) error {
	if errno, ok := e.(syscall.Errno); ok && errno != 0 {
		return errno
	}
	return syscall.Errno(wsaeinval)
}

func failed(r uintptr) bool {
	return int32(r) == socketError
}

func Socket(family, typ, proto int) (Handle, error) {
	r, _, e := procSocket.Call(uintptr(family), uintptr(typ), uintptr(proto))
	if Handle(r) == InvalidHandle {
		return InvalidHandle, lastError(e)
	}
	return Handle(r), nil
}

func Bind(h Handle, sa unsafe.Pointer, n Socklen) error {
	r, _, e := procBind.Call(uintptr(h), uintptr(sa), uintptr(n))
	if failed(r) {
		return lastError(e)
	}
	return nil
}

func Connect(h Handle, sa unsafe.Pointer, n Socklen) error {
	r, _, e := procConnect.Call(uintptr(h), uintptr(sa), uintptr(n))
	if failed(r) {
		return lastError(e)
	}
	return nil
}

func Listen(h Handle, backlog int) error {
	r, _, e := procListen.Call(uintptr(h), uintptr(backlog))
	if failed(r) {
		return lastError(e)
	}
	return nil
}

func Accept(h Handle, rsa *RawSockaddrAny, n *Socklen) (Handle, error) {
	r, _, e := procAccept.Call(uintptr(h), uintptr(unsafe.Pointer(rsa)), uintptr(unsafe.Pointer(n)))
	if Handle(r) == InvalidHandle {
		return InvalidHandle, lastError(e)
	}
	return Handle(r), nil
}

// RecvFrom receives into p. rsa and n may be nil when the peer address is not wanted.
func RecvFrom(h Handle, p []byte, flags int, rsa *RawSockaddrAny, n *Socklen) (int, error) {
	var r uintptr
	var e error
	if rsa == nil {
		r, _, e = procRecv.Call(uintptr(h), uintptr(unsafe.Pointer(unsafe.SliceData(p))), uintptr(len(p)), uintptr(flags))
	} else {
		r, _, e = procRecvfrom.Call(uintptr(h), uintptr(unsafe.Pointer(unsafe.SliceData(p))), uintptr(len(p)), uintptr(flags), uintptr(unsafe.Pointer(rsa)), uintptr(unsafe.Pointer(n)))
	}
	if failed(r) {
		return -1, lastError(e)
	}
	return int(int32(r)), nil
}

// SendTo sends p. sa may be nil for connected sockets.
func SendTo(h Handle, p []byte, flags int, sa unsafe.Pointer, n Socklen) (int, error) {
	var r uintptr
	var e error
	if sa == nil {
		r, _, e = procSend.Call(uintptr(h), uintptr(unsafe.Pointer(unsafe.SliceData(p))), uintptr(len(p)), uintptr(flags))
	} else {
		r, _, e = procSendto.Call(uintptr(h), uintptr(unsafe.Pointer(unsafe.SliceData(p))), uintptr(len(p)), uintptr(flags), uintptr(sa), uintptr(n))
	}
	if failed(r) {
		return -1, lastError(e)
	}
	return int(int32(r)), nil
}

func GetSockName(h Handle, rsa *RawSockaddrAny, n *Socklen) error {
	r, _, e := procGetsockname.Call(uintptr(h), uintptr(unsafe.Pointer(rsa)), uintptr(unsafe.Pointer(n)))
	if failed(r) {
		return lastError(e)
	}
	return nil
}

func GetSockOpt(h Handle, level, name int, val unsafe.Pointer, n *Socklen) error {
	r, _, e := procGetsockopt.Call(uintptr(h), uintptr(level), uintptr(name), uintptr(val), uintptr(unsafe.Pointer(n)))
	if failed(r) {
		return lastError(e)
	}
	return nil
}

func SetSockOpt(h Handle, level, name int, val unsafe.Pointer, n Socklen) error {
	r, _, e := procSetsockopt.Call(uintptr(h), uintptr(level), uintptr(name), uintptr(val), uintptr(n))
	if failed(r) {
		return lastError(e)
	}
	return nil
}

// Ioctl calls ioctlsocket; arg is the u_long the call may update.
func Ioctl(h Handle, request uint32, arg *uint32) error {
	r, _, e := procIoctlsocket.Call(uintptr(h), uintptr(request), uintptr(unsafe.Pointer(arg)))
	if failed(r) {
		return lastError(e)
	}
	return nil
}

func Shutdown(h Handle, how int) error {
	r, _, e := procShutdown.Call(uintptr(h), uintptr(how))
	if failed(r) {
		return lastError(e)
	}
	return nil
}

func Close(h Handle) error {
	r, _, e := procClosesocket.Call(uintptr(h))
	if failed(r) {
		return lastError(e)
	}
	return nil
}

// Errno extracts the platform code from an error returned by this package.
func Errno(err error) (syscall.Errno, bool) {
	errno, ok := err.(syscall.Errno)
	return errno, ok
}
