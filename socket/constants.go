package socket

import (
	"strconv"

	"github.com/wippyai/rawsock/internal/native"
)

// Family is a portable address family number. The values are the Winsock
// ones and are translated to the platform's AF_* values at the native call.
type Family int

const (
	FamilyUnspecified Family = 0
	FamilyIPv4        Family = 2
	FamilyIPv6        Family = 23
	FamilyIrDA        Family = 26
	FamilyBluetooth   Family = 32
)

func (f Family) String() string {
	switch f {
	case FamilyUnspecified:
		return "unspecified"
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	case FamilyIrDA:
		return "irda"
	case FamilyBluetooth:
		return "bluetooth"
	default:
		return "family(" + strconv.Itoa(int(f)) + ")"
	}
}

// Type is the socket type.
type Type int

const (
	Stream           Type = 1
	Datagram         Type = 2
	Raw              Type = 3
	ReliableDatagram Type = 4
	SequencedPacket  Type = 5
)

func (t Type) String() string {
	switch t {
	case Stream:
		return "stream"
	case Datagram:
		return "datagram"
	case Raw:
		return "raw"
	case ReliableDatagram:
		return "rdm"
	case SequencedPacket:
		return "seqpacket"
	default:
		return "type(" + strconv.Itoa(int(t)) + ")"
	}
}

// Protocol is the IP protocol number.
type Protocol int

const (
	ProtocolNone   Protocol = 0
	ProtocolICMP   Protocol = 1
	ProtocolTCP    Protocol = 6
	ProtocolUDP    Protocol = 17
	ProtocolICMPv6 Protocol = 58
)

func (p Protocol) String() string {
	switch p {
	case ProtocolNone:
		return "none"
	case ProtocolICMP:
		return "icmp"
	case ProtocolTCP:
		return "tcp"
	case ProtocolUDP:
		return "udp"
	case ProtocolICMPv6:
		return "icmpv6"
	default:
		return "protocol(" + strconv.Itoa(int(p)) + ")"
	}
}

// How selects the direction disabled by Shutdown.
type How int

const (
	ShutdownReceive How = 0
	ShutdownSend    How = 1
	ShutdownBoth    How = 2
)

func (h How) String() string {
	switch h {
	case ShutdownReceive:
		return "receive"
	case ShutdownSend:
		return "send"
	case ShutdownBoth:
		return "both"
	default:
		return "how(" + strconv.Itoa(int(h)) + ")"
	}
}

// Message flags for Recv, Send, RecvFrom and SendTo.
const (
	MsgOOB  = native.MSG_OOB
	MsgPeek = native.MSG_PEEK
)

// Ioctl requests.
const (
	FIONBIO  uint32 = native.FIONBIO
	FIONREAD uint32 = native.FIONREAD
)
