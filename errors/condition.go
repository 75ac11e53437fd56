package errors

// Condition is the portable classification of a platform error code.
// The mapping from codes to conditions lives with each native binding.
type Condition uint8

const (
	ConditionUnknown Condition = iota
	ConditionWouldBlock
	ConditionInProgress
	ConditionAlreadyInProgress
	ConditionInterrupted
	ConditionAddressInUse
	ConditionAddressNotAvailable
	ConditionAddressFamilyNotSupported
	ConditionConnectionRefused
	ConditionConnectionReset
	ConditionConnectionAborted
	ConditionNotConnected
	ConditionAlreadyConnected
	ConditionShutdown
	ConditionNetworkUnreachable
	ConditionHostUnreachable
	ConditionTimedOut
	ConditionAccessDenied
	ConditionInvalidArgument
	ConditionNotSocket
	ConditionMessageTooLarge
	ConditionNoBufferSpace
	ConditionTooManyDescriptors
	ConditionProtocolNotSupported
	ConditionOptionNotSupported
	ConditionOperationNotSupported
	ConditionNotInitialized
)

var conditionNames = [...]string{
	ConditionUnknown:                   "unknown",
	ConditionWouldBlock:                "would block",
	ConditionInProgress:                "in progress",
	ConditionAlreadyInProgress:         "already in progress",
	ConditionInterrupted:               "interrupted",
	ConditionAddressInUse:              "address in use",
	ConditionAddressNotAvailable:       "address not available",
	ConditionAddressFamilyNotSupported: "address family not supported",
	ConditionConnectionRefused:         "connection refused",
	ConditionConnectionReset:           "connection reset",
	ConditionConnectionAborted:         "connection aborted",
	ConditionNotConnected:              "not connected",
	ConditionAlreadyConnected:          "already connected",
	ConditionShutdown:                  "socket shut down",
	ConditionNetworkUnreachable:        "network unreachable",
	ConditionHostUnreachable:           "host unreachable",
	ConditionTimedOut:                  "timed out",
	ConditionAccessDenied:              "access denied",
	ConditionInvalidArgument:           "invalid argument",
	ConditionNotSocket:                 "not a socket",
	ConditionMessageTooLarge:           "message too large",
	ConditionNoBufferSpace:             "no buffer space",
	ConditionTooManyDescriptors:        "too many descriptors",
	ConditionProtocolNotSupported:      "protocol not supported",
	ConditionOptionNotSupported:        "option not supported",
	ConditionOperationNotSupported:     "operation not supported",
	ConditionNotInitialized:            "network subsystem not initialized",
}

func (c Condition) String() string {
	if int(c) < len(conditionNames) {
		return conditionNames[c]
	}
	return "unknown"
}

// Temporary reports whether retrying the same call later may succeed.
func (c Condition) Temporary() bool {
	switch c {
	case ConditionWouldBlock, ConditionInProgress, ConditionAlreadyInProgress,
		ConditionInterrupted, ConditionNoBufferSpace, ConditionTimedOut:
		return true
	}
	return false
}
