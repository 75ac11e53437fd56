package socket

import (
	"math"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/rawsock/errors"
	"github.com/wippyai/rawsock/internal/native"
	"github.com/wippyai/rawsock/internal/netinit"
	"github.com/wippyai/rawsock/sockaddr"
)

// Descriptor is the platform socket descriptor: an int on Linux, a SOCKET
// handle on Windows.
type Descriptor = native.Handle

// InvalidDescriptor never identifies an open socket.
const InvalidDescriptor Descriptor = native.InvalidHandle

const (
	stateOpen int32 = iota
	stateClosed
	stateReleased
)

// Socket owns exactly one native socket descriptor.
//
// Every method that hands s.fd to a native call keeps s reachable until the
// call returns, so the GC cleanup cannot release the descriptor mid-call.
//
// A Socket must not be copied. It has a single logical owner; methods are not
// synchronized against a concurrent Close. A Socket that becomes unreachable
// while still open is destroyed by a GC cleanup, but callers should release
// it explicitly with Close, Drop or IntoRaw.
type Socket struct {
	fd      Descriptor
	state   atomic.Int32
	cleanup runtime.Cleanup
}

// Init runs the one-time socket subsystem startup. New calls it implicitly.
func Init() error {
	return netinit.Ensure()
}

// New creates a socket.
func New(family Family, typ Type, proto Protocol) (*Socket, error) {
	if err := Init(); err != nil {
		return nil, err
	}

	fd, err := native.Socket(native.Family(int(family)), int(typ), int(proto))
	if err != nil {
		return nil, osError(errors.OpSocket, err)
	}

	Logger().Debug("socket created",
		fdField(fd),
		zap.Stringer("family", family),
		zap.Stringer("type", typ),
		zap.Stringer("protocol", proto))

	return wrap(fd), nil
}

// FromRaw takes ownership of d. The caller guarantees that nothing else owns
// or will release d.
func FromRaw(d Descriptor) *Socket {
	return wrap(d)
}

func wrap(fd Descriptor) *Socket {
	s := &Socket{fd: fd}
	s.cleanup = runtime.AddCleanup(s, dispose, fd)
	return s
}

// dispose is the destructor shared by Drop and the GC cleanup. Errors have no
// return path and are only logged.
func dispose(fd Descriptor) {
	if err := native.Shutdown(fd, native.SHUT_RDWR); err != nil {
		Logger().Debug("shutdown on drop failed", fdField(fd), zap.Error(osError(errors.OpShutdown, err)))
	}
	if err := native.Close(fd); err != nil {
		Logger().Debug("close on drop failed", fdField(fd), zap.Error(osError(errors.OpClose, err)))
		return
	}
	Logger().Debug("socket dropped", fdField(fd))
}

func (s *Socket) descriptor(op errors.Op) (Descriptor, error) {
	if s.state.Load() != stateOpen {
		return InvalidDescriptor, errors.Closed(op)
	}
	return s.fd, nil
}

// Bind assigns the local address.
func (s *Socket) Bind(a sockaddr.Addr) error {
	fd, err := s.descriptor(errors.OpBind)
	if err != nil {
		return err
	}

	var st sockaddr.Storage
	if err := st.Encode(a); err != nil {
		return err
	}
	err = native.Bind(fd, st.Pointer(), st.Len())
	runtime.KeepAlive(s)
	if err != nil {
		return osError(errors.OpBind, err)
	}
	return nil
}

// Listen marks the socket as accepting connections.
func (s *Socket) Listen(backlog int) error {
	fd, err := s.descriptor(errors.OpListen)
	if err != nil {
		return err
	}
	err = native.Listen(fd, backlog)
	runtime.KeepAlive(s)
	if err != nil {
		return osError(errors.OpListen, err)
	}
	return nil
}

// Connect connects to a. On a non-blocking socket the in-progress condition
// is reported as an error; test it with errors.IsWouldBlock and poll for
// writability.
func (s *Socket) Connect(a sockaddr.Addr) error {
	fd, err := s.descriptor(errors.OpConnect)
	if err != nil {
		return err
	}

	var st sockaddr.Storage
	if err := st.Encode(a); err != nil {
		return err
	}
	err = native.Connect(fd, st.Pointer(), st.Len())
	runtime.KeepAlive(s)
	if err != nil {
		return osError(errors.OpConnect, err)
	}
	return nil
}

// Accept waits for a connection and returns the connected socket, owned by
// the caller, together with the peer address.
func (s *Socket) Accept() (*Socket, sockaddr.Addr, error) {
	fd, err := s.descriptor(errors.OpAccept)
	if err != nil {
		return nil, sockaddr.Addr{}, err
	}

	var st sockaddr.Storage
	st.Reset()
	cfd, err := native.Accept(fd, st.Raw(), st.LenPtr())
	runtime.KeepAlive(s)
	if err != nil {
		return nil, sockaddr.Addr{}, osError(errors.OpAccept, err)
	}
	child := wrap(cfd)

	peer, err := st.Decode()
	if err != nil {
		child.Drop()
		return nil, sockaddr.Addr{}, err
	}

	Logger().Debug("connection accepted", fdField(cfd), zap.Stringer("peer", peer))
	return child, peer, nil
}

// Recv reads into p and returns the number of bytes received. A socket whose
// receive side was shut down reports 0 bytes and no error.
func (s *Socket) Recv(p []byte, flags int) (int, error) {
	fd, err := s.descriptor(errors.OpRecv)
	if err != nil {
		return 0, err
	}

	n, err := native.RecvFrom(fd, clamp(p), flags, nil, nil)
	runtime.KeepAlive(s)
	if err != nil {
		if isShutdown(err) {
			return 0, nil
		}
		return 0, osError(errors.OpRecv, err)
	}
	return n, nil
}

// RecvFrom is Recv that also reports the sender. On the shutdown path the
// sender is whatever the platform reported, usually the unspecified address.
func (s *Socket) RecvFrom(p []byte, flags int) (int, sockaddr.Addr, error) {
	fd, err := s.descriptor(errors.OpRecvFrom)
	if err != nil {
		return 0, sockaddr.Addr{}, err
	}

	var st sockaddr.Storage
	st.Reset()
	n, err := native.RecvFrom(fd, clamp(p), flags, st.Raw(), st.LenPtr())
	runtime.KeepAlive(s)
	if err != nil {
		if !isShutdown(err) {
			return 0, sockaddr.Addr{}, osError(errors.OpRecvFrom, err)
		}
		n = 0
		// the platform may leave the storage untouched
		if st.Raw().Addr.Family == native.AF_UNSPEC {
			return 0, sockaddr.Addr{}, nil
		}
	}

	from, err := st.Decode()
	if err != nil {
		return 0, sockaddr.Addr{}, err
	}
	return n, from, nil
}

// Send writes p to the connected peer and returns the number of bytes sent.
// A socket whose send side was shut down reports 0 bytes and no error.
func (s *Socket) Send(p []byte, flags int) (int, error) {
	fd, err := s.descriptor(errors.OpSend)
	if err != nil {
		return 0, err
	}

	n, err := native.SendTo(fd, clamp(p), flags, nil, 0)
	runtime.KeepAlive(s)
	if err != nil {
		if isShutdown(err) {
			return 0, nil
		}
		return 0, osError(errors.OpSend, err)
	}
	return n, nil
}

// SendTo sends p to the given address. An unbound socket is bound implicitly;
// use Name to learn the chosen local address.
func (s *Socket) SendTo(p []byte, to sockaddr.Addr, flags int) (int, error) {
	fd, err := s.descriptor(errors.OpSendTo)
	if err != nil {
		return 0, err
	}

	var st sockaddr.Storage
	if err := st.Encode(to); err != nil {
		return 0, err
	}
	n, err := native.SendTo(fd, clamp(p), flags, st.Pointer(), st.Len())
	runtime.KeepAlive(s)
	if err != nil {
		if isShutdown(err) {
			return 0, nil
		}
		return 0, osError(errors.OpSendTo, err)
	}
	return n, nil
}

// Name returns the local address the socket is bound to. On Linux a socket
// that was never bound reports the wildcard address of its family with port 0
// rather than a zero-length address.
func (s *Socket) Name() (sockaddr.Addr, error) {
	fd, err := s.descriptor(errors.OpGetSockName)
	if err != nil {
		return sockaddr.Addr{}, err
	}

	var st sockaddr.Storage
	st.Reset()
	err = native.GetSockName(fd, st.Raw(), st.LenPtr())
	runtime.KeepAlive(s)
	if err != nil {
		return sockaddr.Addr{}, osError(errors.OpGetSockName, err)
	}
	return st.Decode()
}

// Ioctl issues a control request. value is passed by reference and the
// possibly updated value is returned.
func (s *Socket) Ioctl(request, value uint32) (uint32, error) {
	fd, err := s.descriptor(errors.OpIoctl)
	if err != nil {
		return 0, err
	}
	err = native.Ioctl(fd, request, &value)
	runtime.KeepAlive(s)
	if err != nil {
		return 0, osError(errors.OpIoctl, err)
	}
	return value, nil
}

// SetNonblocking switches non-blocking mode with FIONBIO.
func (s *Socket) SetNonblocking(nonblocking bool) error {
	var v uint32
	if nonblocking {
		v = 1
	}
	_, err := s.Ioctl(FIONBIO, v)
	return err
}

// Available returns the number of bytes that can be read without blocking.
func (s *Socket) Available() (int, error) {
	n, err := s.Ioctl(FIONREAD, 0)
	return int(n), err
}

// Shutdown disables further sends, receives or both.
func (s *Socket) Shutdown(how How) error {
	fd, err := s.descriptor(errors.OpShutdown)
	if err != nil {
		return err
	}
	err = native.Shutdown(fd, int(how))
	runtime.KeepAlive(s)
	if err != nil {
		return osError(errors.OpShutdown, err)
	}
	return nil
}

// Close releases the descriptor. A second Close, or Close after Drop or
// IntoRaw, fails with a closed error.
func (s *Socket) Close() error {
	if !s.state.CompareAndSwap(stateOpen, stateClosed) {
		return errors.Closed(errors.OpClose)
	}
	s.cleanup.Stop()

	if err := native.Close(s.fd); err != nil {
		return osError(errors.OpClose, err)
	}
	Logger().Debug("socket closed", fdField(s.fd))
	return nil
}

// Drop shuts down both directions and closes the descriptor, discarding
// errors. It is a no-op on a socket that is no longer open.
func (s *Socket) Drop() {
	if !s.state.CompareAndSwap(stateOpen, stateClosed) {
		return
	}
	s.cleanup.Stop()
	dispose(s.fd)
}

// Raw returns the descriptor without transferring ownership, or
// InvalidDescriptor once the socket is no longer open.
func (s *Socket) Raw() Descriptor {
	if s.state.Load() != stateOpen {
		return InvalidDescriptor
	}
	return s.fd
}

// IntoRaw gives up ownership and returns the descriptor. The socket will not
// close it. InvalidDescriptor is returned if the socket is no longer open.
func (s *Socket) IntoRaw() Descriptor {
	if !s.state.CompareAndSwap(stateOpen, stateReleased) {
		return InvalidDescriptor
	}
	s.cleanup.Stop()
	return s.fd
}

func osError(op errors.Op, err error) error {
	return native.OSError(op, err)
}

func isShutdown(err error) bool {
	errno, ok := native.Errno(err)
	return ok && native.IsShutdown(errno)
}

func clamp(p []byte) []byte {
	if len(p) > math.MaxInt32 {
		return p[:math.MaxInt32]
	}
	return p
}

func fdField(fd Descriptor) zap.Field {
	return zap.Uint64("fd", uint64(fd))
}
