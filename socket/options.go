package socket

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/wippyai/rawsock/errors"
	"github.com/wippyai/rawsock/internal/native"
)

// Option is a typed socket option request. T must have exactly the memory
// layout the platform uses for the option; GetOption rejects values whose
// native size differs from T's size.
type Option[T any] struct {
	Level int
	Name  int
	label string
}

// NewOption describes the option name at level, carrying values of type T.
func NewOption[T any](label string, level, name int) Option[T] {
	return Option[T]{Level: level, Name: name, label: label}
}

func (o Option[T]) String() string {
	if o.label != "" {
		return o.label
	}
	return fmt.Sprintf("%d/%d", o.Level, o.Name)
}

// Linger is the platform SO_LINGER layout.
type Linger = native.Linger

var (
	OptReuseAddr  = NewOption[int32]("SO_REUSEADDR", native.SOL_SOCKET, native.SO_REUSEADDR)
	OptKeepAlive  = NewOption[int32]("SO_KEEPALIVE", native.SOL_SOCKET, native.SO_KEEPALIVE)
	OptBroadcast  = NewOption[int32]("SO_BROADCAST", native.SOL_SOCKET, native.SO_BROADCAST)
	OptRecvBuffer = NewOption[int32]("SO_RCVBUF", native.SOL_SOCKET, native.SO_RCVBUF)
	OptSendBuffer = NewOption[int32]("SO_SNDBUF", native.SOL_SOCKET, native.SO_SNDBUF)
	OptError      = NewOption[int32]("SO_ERROR", native.SOL_SOCKET, native.SO_ERROR)
	OptType       = NewOption[int32]("SO_TYPE", native.SOL_SOCKET, native.SO_TYPE)
	OptLinger     = NewOption[Linger]("SO_LINGER", native.SOL_SOCKET, native.SO_LINGER)
	OptNoDelay    = NewOption[int32]("TCP_NODELAY", native.IPPROTO_TCP, native.TCP_NODELAY)
	OptIPv6Only   = NewOption[int32]("IPV6_V6ONLY", native.IPPROTO_IPV6, native.IPV6_V6ONLY)
)

// GetOption reads option o.
func GetOption[T any](s *Socket, o Option[T]) (T, error) {
	var v T
	fd, err := s.descriptor(errors.OpGetSockOpt)
	if err != nil {
		return v, err
	}

	size := int(unsafe.Sizeof(v))
	n := native.Socklen(size)
	err = native.GetSockOpt(fd, o.Level, o.Name, unsafe.Pointer(&v), &n)
	runtime.KeepAlive(s)
	if err != nil {
		return v, osError(errors.OpGetSockOpt, err)
	}
	if int(n) != size {
		var zero T
		return zero, errors.OptionSize(errors.OpGetSockOpt, o.String(), int(n), size)
	}
	return v, nil
}

// SetOption writes option o.
func SetOption[T any](s *Socket, o Option[T], v T) error {
	fd, err := s.descriptor(errors.OpSetSockOpt)
	if err != nil {
		return err
	}
	n := native.Socklen(unsafe.Sizeof(v))
	err = native.SetSockOpt(fd, o.Level, o.Name, unsafe.Pointer(&v), n)
	runtime.KeepAlive(s)
	if err != nil {
		return osError(errors.OpSetSockOpt, err)
	}
	return nil
}

// GetOptRaw reads an option into buf and returns the size the platform reported.
func (s *Socket) GetOptRaw(level, name int, buf []byte) (int, error) {
	fd, err := s.descriptor(errors.OpGetSockOpt)
	if err != nil {
		return 0, err
	}
	n := native.Socklen(len(buf))
	err = native.GetSockOpt(fd, level, name, unsafe.Pointer(unsafe.SliceData(buf)), &n)
	runtime.KeepAlive(s)
	if err != nil {
		return 0, osError(errors.OpGetSockOpt, err)
	}
	return int(n), nil
}

// SetOptRaw writes buf as the option value.
func (s *Socket) SetOptRaw(level, name int, buf []byte) error {
	fd, err := s.descriptor(errors.OpSetSockOpt)
	if err != nil {
		return err
	}
	err = native.SetSockOpt(fd, level, name, unsafe.Pointer(unsafe.SliceData(buf)), native.Socklen(len(buf)))
	runtime.KeepAlive(s)
	if err != nil {
		return osError(errors.OpSetSockOpt, err)
	}
	return nil
}

func boolValue(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
