package sockaddr

import (
	"net"
	"net/netip"
	"strconv"

	"github.com/wippyai/rawsock/errors"
)

// Addr is a portable IPv4 or IPv6 socket endpoint. It is comparable with ==.
type Addr struct {
	ip       netip.Addr
	port     uint16
	flowInfo uint32
	scopeID  uint32
}

// From4 returns an IPv4 endpoint.
func From4(ip [4]byte, port uint16) Addr {
	return Addr{ip: netip.AddrFrom4(ip), port: port}
}

// From16 returns an IPv6 endpoint with zero flow information and scope id.
// IPv4-mapped addresses stay IPv6.
func From16(ip [16]byte, port uint16) Addr {
	return Addr{ip: netip.AddrFrom16(ip), port: port}
}

// FromAddrPort converts a netip.AddrPort. A numeric zone becomes the scope id
// and a named zone is resolved through the interface table.
func FromAddrPort(ap netip.AddrPort) (Addr, error) {
	ip := ap.Addr()
	if !ip.IsValid() {
		return Addr{}, errors.InvalidInput(errors.OpParse, "invalid address")
	}

	a := Addr{ip: ip.WithZone(""), port: ap.Port()}
	if zone := ip.Zone(); zone != "" {
		id, err := zoneID(zone)
		if err != nil {
			return Addr{}, err
		}
		a.scopeID = id
	}
	return a, nil
}

func zoneID(zone string) (uint32, error) {
	if n, err := strconv.ParseUint(zone, 10, 32); err == nil {
		return uint32(n), nil
	}
	ifi, err := net.InterfaceByName(zone)
	if err != nil {
		return 0, errors.New(errors.OpParse, errors.KindInvalidInput).
			Detail("unknown zone %q", zone).
			Cause(err).
			Build()
	}
	return uint32(ifi.Index), nil
}

// Parse parses "ip:port" or "[ipv6%zone]:port".
func Parse(s string) (Addr, error) {
	ap, err := netip.ParseAddrPort(s)
	if err != nil {
		return Addr{}, errors.New(errors.OpParse, errors.KindInvalidInput).
			Detail("%q", s).
			Cause(err).
			Build()
	}
	return FromAddrPort(ap)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Addr {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsValid reports whether a is not the unspecified address.
func (a Addr) IsValid() bool { return a.ip.IsValid() }

func (a Addr) Is4() bool { return a.ip.Is4() }

func (a Addr) Is6() bool { return a.ip.Is6() }

// IP returns the address without port. It carries no zone.
func (a Addr) IP() netip.Addr { return a.ip }

func (a Addr) Port() uint16 { return a.port }

// FlowInfo is the IPv6 flow information field, zero for IPv4.
func (a Addr) FlowInfo() uint32 { return a.flowInfo }

// ScopeID is the IPv6 scope id, zero for IPv4.
func (a Addr) ScopeID() uint32 { return a.scopeID }

// WithPort returns a copy of a with the port replaced.
func (a Addr) WithPort(port uint16) Addr {
	a.port = port
	return a
}

// WithFlowInfo returns a copy of a with the flow information replaced.
// It is ignored for IPv4.
func (a Addr) WithFlowInfo(flow uint32) Addr {
	if a.ip.Is6() {
		a.flowInfo = flow
	}
	return a
}

// WithScopeID returns a copy of a with the scope id replaced.
// It is ignored for IPv4.
func (a Addr) WithScopeID(id uint32) Addr {
	if a.ip.Is6() {
		a.scopeID = id
	}
	return a
}

// AddrPort converts a to a netip.AddrPort. A non-zero scope id is rendered as
// a numeric zone. Flow information is lost.
func (a Addr) AddrPort() netip.AddrPort {
	ip := a.ip
	if a.scopeID != 0 {
		ip = ip.WithZone(strconv.FormatUint(uint64(a.scopeID), 10))
	}
	return netip.AddrPortFrom(ip, a.port)
}

func (a Addr) String() string {
	if !a.IsValid() {
		return "unspecified"
	}
	return a.AddrPort().String()
}
