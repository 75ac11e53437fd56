//go:build linux

package native

import (
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/wippyai/rawsock/errors"
)

// Classify maps a Linux errno to its portable condition.
func Classify(errno syscall.Errno) errors.Condition {
	switch errno {
	case unix.EAGAIN:
		return errors.ConditionWouldBlock
	case unix.EINPROGRESS:
		return errors.ConditionInProgress
	case unix.EALREADY:
		return errors.ConditionAlreadyInProgress
	case unix.EINTR:
		return errors.ConditionInterrupted
	case unix.EADDRINUSE:
		return errors.ConditionAddressInUse
	case unix.EADDRNOTAVAIL:
		return errors.ConditionAddressNotAvailable
	case unix.EAFNOSUPPORT:
		return errors.ConditionAddressFamilyNotSupported
	case unix.ECONNREFUSED:
		return errors.ConditionConnectionRefused
	case unix.ECONNRESET, unix.EPIPE:
		return errors.ConditionConnectionReset
	case unix.ECONNABORTED:
		return errors.ConditionConnectionAborted
	case unix.ENOTCONN, unix.EDESTADDRREQ:
		return errors.ConditionNotConnected
	case unix.EISCONN:
		return errors.ConditionAlreadyConnected
	case unix.ESHUTDOWN:
		return errors.ConditionShutdown
	case unix.ENETUNREACH, unix.ENETDOWN:
		return errors.ConditionNetworkUnreachable
	case unix.EHOSTUNREACH, unix.EHOSTDOWN:
		return errors.ConditionHostUnreachable
	case unix.ETIMEDOUT:
		return errors.ConditionTimedOut
	case unix.EACCES, unix.EPERM:
		return errors.ConditionAccessDenied
	case unix.EINVAL, unix.EFAULT:
		return errors.ConditionInvalidArgument
	case unix.ENOTSOCK, unix.EBADF:
		return errors.ConditionNotSocket
	case unix.EMSGSIZE:
		return errors.ConditionMessageTooLarge
	case unix.ENOBUFS, unix.ENOMEM:
		return errors.ConditionNoBufferSpace
	case unix.EMFILE, unix.ENFILE:
		return errors.ConditionTooManyDescriptors
	case unix.EPROTONOSUPPORT, unix.EPROTOTYPE, unix.ESOCKTNOSUPPORT:
		return errors.ConditionProtocolNotSupported
	case unix.ENOPROTOOPT:
		return errors.ConditionOptionNotSupported
	case unix.EOPNOTSUPP:
		return errors.ConditionOperationNotSupported
	default:
		return errors.ConditionUnknown
	}
}

// IsShutdown reports whether errno means the socket was already shut down
// in the direction of the transfer.
//
// EPIPE does not count: Linux reports it both after a local
// shutdown(SHUT_WR) and after the peer reset the connection.
func IsShutdown(errno syscall.Errno) bool {
	return errno == unix.ESHUTDOWN
}
