//go:build windows

package native

import (
	"syscall"

	"github.com/wippyai/rawsock/errors"
)

// Winsock error codes (winerror.h).
const (
	wsaeintr           syscall.Errno = 10004
	wsaebadf           syscall.Errno = 10009
	wsaeacces          syscall.Errno = 10013
	wsaefault          syscall.Errno = 10014
	wsaeinval          syscall.Errno = 10022
	wsaemfile          syscall.Errno = 10024
	wsaewouldblock     syscall.Errno = 10035
	wsaeinprogress     syscall.Errno = 10036
	wsaealready        syscall.Errno = 10037
	wsaenotsock        syscall.Errno = 10038
	wsaedestaddrreq    syscall.Errno = 10039
	wsaemsgsize        syscall.Errno = 10040
	wsaeprototype      syscall.Errno = 10041
	wsaenoprotoopt     syscall.Errno = 10042
	wsaeprotonosupport syscall.Errno = 10043
	wsaesocktnosupport syscall.Errno = 10044
	wsaeopnotsupp      syscall.Errno = 10045
	wsaeafnosupport    syscall.Errno = 10047
	wsaeaddrinuse      syscall.Errno = 10048
	wsaeaddrnotavail   syscall.Errno = 10049
	wsaenetdown        syscall.Errno = 10050
	wsaenetunreach     syscall.Errno = 10051
	wsaenetreset       syscall.Errno = 10052
	wsaeconnaborted    syscall.Errno = 10053
	wsaeconnreset      syscall.Errno = 10054
	wsaenobufs         syscall.Errno = 10055
	wsaeisconn         syscall.Errno = 10056
	wsaenotconn        syscall.Errno = 10057
	wsaeshutdown       syscall.Errno = 10058
	wsaetimedout       syscall.Errno = 10060
	wsaeconnrefused    syscall.Errno = 10061
	wsaehostdown       syscall.Errno = 10064
	wsaehostunreach    syscall.Errno = 10065
	wsanotinitialised  syscall.Errno = 10093
)

// Classify maps a Winsock error code to its portable condition.
func Classify(errno syscall.Errno) errors.Condition {
	switch errno {
	case wsaewouldblock:
		return errors.ConditionWouldBlock
	case wsaeinprogress:
		return errors.ConditionInProgress
	case wsaealready:
		return errors.ConditionAlreadyInProgress
	case wsaeintr:
		return errors.ConditionInterrupted
	case wsaeaddrinuse:
		return errors.ConditionAddressInUse
	case wsaeaddrnotavail:
		return errors.ConditionAddressNotAvailable
	case wsaeafnosupport:
		return errors.ConditionAddressFamilyNotSupported
	case wsaeconnrefused:
		return errors.ConditionConnectionRefused
	case wsaeconnreset, wsaenetreset:
		return errors.ConditionConnectionReset
	case wsaeconnaborted:
		return errors.ConditionConnectionAborted
	case wsaenotconn, wsaedestaddrreq:
		return errors.ConditionNotConnected
	case wsaeisconn:
		return errors.ConditionAlreadyConnected
	case wsaeshutdown:
		return errors.ConditionShutdown
	case wsaenetunreach, wsaenetdown:
		return errors.ConditionNetworkUnreachable
	case wsaehostunreach, wsaehostdown:
		return errors.ConditionHostUnreachable
	case wsaetimedout:
		return errors.ConditionTimedOut
	case wsaeacces:
		return errors.ConditionAccessDenied
	case wsaeinval, wsaefault:
		return errors.ConditionInvalidArgument
	case wsaenotsock, wsaebadf:
		return errors.ConditionNotSocket
	case wsaemsgsize:
		return errors.ConditionMessageTooLarge
	case wsaenobufs:
		return errors.ConditionNoBufferSpace
	case wsaemfile:
		return errors.ConditionTooManyDescriptors
	case wsaeprotonosupport, wsaeprototype, wsaesocktnosupport:
		return errors.ConditionProtocolNotSupported
	case wsaenoprotoopt:
		return errors.ConditionOptionNotSupported
	case wsaeopnotsupp:
		return errors.ConditionOperationNotSupported
	case wsanotinitialised:
		return errors.ConditionNotInitialized
	default:
		return errors.ConditionUnknown
	}
}

// IsShutdown reports whether errno is WSAESHUTDOWN.
func IsShutdown(errno syscall.Errno) bool {
	return errno == wsaeshutdown
}
